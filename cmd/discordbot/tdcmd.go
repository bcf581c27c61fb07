/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/swisspairing-tdbot/config"
	"github.com/mikeb26/swisspairing-tdbot/store"
	"github.com/mikeb26/swisspairing-tdbot/tourney"
)

type TdSubCommand string

const (
	TdAboutCmd     TdSubCommand = "about"
	TdHelpCmd      TdSubCommand = "help"
	TdListCmd      TdSubCommand = "list"
	TdStandingsCmd TdSubCommand = "standings"
	TdPairingsCmd  TdSubCommand = "pairings"
	TdNextRoundCmd TdSubCommand = "nextround"
	TdScheduleCmd  TdSubCommand = "schedule"
)

var tdSubCmdHdlrs = map[TdSubCommand]CmdHandler{
	TdAboutCmd:     tdAboutCmdHandler,
	TdHelpCmd:      tdHelpCmdHandler,
	TdListCmd:      tdListCmdHandler,
	TdStandingsCmd: tdStandingsCmdHandler,
	TdPairingsCmd:  tdPairingsCmdHandler,
	TdNextRoundCmd: tdNextRoundCmdHandler,
	TdScheduleCmd:  tdScheduleCmdHandler,
}

func tdCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := tdHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := tdSubCmdHdlrs[TdSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

// tdCmdOpts collects the options shared by the tournament subcommands.
type tdCmdOpts struct {
	name      string
	player    string
	round     int64
	broadcast bool
}

func parseTdCmdOpts(inter *discordgo.Interaction) tdCmdOpts {
	var opts tdCmdOpts

	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return opts
	}
	for _, opt := range data.Options[0].Options {
		switch opt.Name {
		case "name":
			opts.name = opt.StringValue()
		case "player":
			opts.player = opt.StringValue()
		case "round":
			opts.round = opt.IntValue()
		case "broadcast":
			opts.broadcast = opt.BoolValue()
		}
	}

	return opts
}

func newEphemeralResp() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

func openBotStore(ctx context.Context) (store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return store.Open(ctx, cfg.Store)
}

func loadBotTournament(ctx context.Context,
	name string) (*tourney.Tournament, error) {

	st, err := openBotStore(ctx)
	if err != nil {
		return nil, err
	}
	return st.Load(ctx, name)
}

//go:embed about.txt
var aboutText string

func tdAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func tdHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	resp.Data.Content = truncateContent(helpText)

	return resp
}

func tdListCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseTdCmdOpts(inter)

	st, err := openBotStore(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error opening store: %v", err)
		log.Printf("discordbot.list: %v", resp.Data.Content)
		return resp
	}
	names, err := st.List(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error listing tournaments: %v", err)
		log.Printf("discordbot.list: %v", resp.Data.Content)
		return resp
	}
	if len(names) == 0 {
		resp.Data.Content = "No tournaments found."
		return resp
	}

	sort.Strings(names)
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(fmt.Sprintf("- %v\n", n))
	}
	sb.WriteString("\nRun /td standings <name> to see a tournament's standings\n")
	resp.Data.Content = truncateContent(sb.String())

	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdStandingsCmdHandler handles the /td standings command to display current
// standings
func tdStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseTdCmdOpts(inter)
	if opts.name == "" {
		resp.Data.Content = "Please provide a tournament name."
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	trny, err := loadBotTournament(ctx, opts.name)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching standings for %v: %v",
			opts.name, err)
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(tourney.BuildStandingsOutput(trny)))

	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdPairingsCmdHandler handles the /td pairings command to display pairings
// for a round
func tdPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseTdCmdOpts(inter)
	if opts.name == "" {
		resp.Data.Content = "Please provide a tournament name."
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}

	trny, err := loadBotTournament(ctx, opts.name)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching pairings for %v: %v",
			opts.name, err)
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}

	roundNum := int(opts.round)
	if roundNum == 0 {
		roundNum = len(trny.Rounds())
	}
	out, err := tourney.BuildPairingsOutput(trny, roundNum)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("No pairings found for %v round %v: %v",
			opts.name, roundNum, err)
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(out))

	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdNextRoundCmdHandler announces the pending round of a tournament. If all
// paired rounds already have results it reports that the next round has not
// been paired yet.
func tdNextRoundCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseTdCmdOpts(inter)
	if opts.name == "" {
		resp.Data.Content = "Please provide a tournament name."
		log.Printf("discordbot.nextround: %v", resp.Data.Content)
		return resp
	}

	trny, err := loadBotTournament(ctx, opts.name)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching %v: %v", opts.name,
			err)
		log.Printf("discordbot.nextround: %v", resp.Data.Content)
		return resp
	}

	cur := trny.CurrentRound()
	if cur == nil || cur.Completed {
		next := trny.CompletedRounds() + 1
		if next > trny.NumRounds {
			resp.Data.Content = fmt.Sprintf(
				"%v is over after %v rounds. Congratulations to the winners!",
				opts.name, trny.NumRounds)
		} else {
			resp.Data.Content = fmt.Sprintf(
				"Round %v of %v has not been paired yet.", next, opts.name)
		}
		return resp
	}

	out, err := tourney.BuildPairingsOutput(trny, cur.Number)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error building pairings for %v: %v",
			opts.name, err)
		log.Printf("discordbot.nextround: %v", resp.Data.Content)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(out))

	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdScheduleCmdHandler shows a player's full round robin schedule
func tdScheduleCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResp()
	opts := parseTdCmdOpts(inter)
	if opts.name == "" || opts.player == "" {
		resp.Data.Content = "Please provide a tournament name and player name."
		log.Printf("discordbot.schedule: %v", resp.Data.Content)
		return resp
	}

	trny, err := loadBotTournament(ctx, opts.name)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching %v: %v", opts.name,
			err)
		log.Printf("discordbot.schedule: %v", resp.Data.Content)
		return resp
	}

	p, ok := trny.PlayerByName(opts.player)
	if !ok {
		resp.Data.Content = fmt.Sprintf("No player named %v in %v.",
			opts.player, opts.name)
		log.Printf("discordbot.schedule: %v", resp.Data.Content)
		return resp
	}
	out, err := tourney.BuildScheduleOutput(trny, p.ID)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error building schedule for %v: %v",
			opts.player, err)
		log.Printf("discordbot.schedule: %v", resp.Data.Content)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(out))

	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
