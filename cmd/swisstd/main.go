/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mikeb26/swisspairing-tdbot/config"
	"github.com/mikeb26/swisspairing-tdbot/internal"
	"github.com/mikeb26/swisspairing-tdbot/roster"
	"github.com/mikeb26/swisspairing-tdbot/store"
	"github.com/mikeb26/swisspairing-tdbot/tourney"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":       handleHelp,
	"create":     handleCreate,
	"list":       handleList,
	"delete":     handleDelete,
	"add":        handleAdd,
	"import":     handleImport,
	"withdraw":   handleWithdraw,
	"reactivate": handleReactivate,
	"pair":       handlePair,
	"results":    handleResults,
	"repair":     handleRepair,
	"undo":       handleUndo,
	"standings":  handleStandings,
	"pairings":   handlePairings,
	"schedule":   handleSchedule,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func openStore(ctx context.Context) store.Store {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Error opening store %v: %v", cfg.Store, err)
	}
	return st
}

func loadTournament(ctx context.Context, st store.Store, name string) *tourney.Tournament {
	trn, err := st.Load(ctx, name)
	if err != nil {
		log.Fatalf("Error loading tournament %v: %v", name, err)
	}
	return trn
}

func saveTournament(ctx context.Context, st store.Store, name string,
	trn *tourney.Tournament) {

	if err := st.Save(ctx, name, trn); err != nil {
		log.Fatalf("Error saving tournament %v: %v", name, err)
	}
}

func mustName(fs *flag.FlagSet, name string) {
	if name == "" {
		fmt.Fprintln(os.Stderr, "Please provide a tournament with -name.")
		fs.Usage()
		os.Exit(1)
	}
}

func findPlayer(trn *tourney.Tournament, name string) *tourney.Player {
	p, ok := trn.PlayerByName(name)
	if !ok {
		log.Fatalf("No player named %q in this tournament", name)
	}
	return p
}

func handleCreate(ctx context.Context, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	rounds := fs.Int("rounds", cfg.DefaultRounds, "Number of rounds")
	formatStr := fs.String("format", "swiss", "swiss or round_robin")
	dateStr := fs.String("date", "", "Start date")
	tiebreaks := fs.String("tiebreaks", "", "Comma separated tiebreak keys")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)

	format, err := tourney.ParseFormat(*formatStr)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	trn, err := tourney.NewTournament(*name, *rounds, format)
	if err != nil {
		log.Fatalf("Error creating tournament: %v", err)
	}
	startDate, err := internal.ParseDateOrZero(*dateStr)
	if err != nil {
		log.Fatalf("Error parsing date %q: %v", *dateStr, err)
	}
	trn.StartDate = startDate

	order := cfg.Tiebreaks
	if *tiebreaks != "" {
		order = strings.Split(*tiebreaks, ",")
	}
	if err := trn.SetTiebreakOrder(order); err != nil {
		log.Fatalf("Error: %v", err)
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Error opening store %v: %v", cfg.Store, err)
	}
	if _, err := st.Load(ctx, *name); err == nil {
		log.Fatalf("Tournament %v already exists", *name)
	}
	saveTournament(ctx, st, *name, trn)
	fmt.Printf("Created %v tournament %q (%v rounds)\n", format, *name, *rounds)
}

func handleList(ctx context.Context, args []string) {
	st := openStore(ctx)
	names, err := st.List(ctx)
	if err != nil {
		log.Fatalf("Error listing tournaments: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No stored tournaments")
		return
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

func handleDelete(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)

	st := openStore(ctx)
	if err := st.Delete(ctx, *name); err != nil {
		log.Fatalf("Error deleting tournament %v: %v", *name, err)
	}
	fmt.Printf("Deleted tournament %q\n", *name)
}

func handleAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	playerName := fs.String("player", "", "Player name")
	rating := fs.Int("rating", 0, "Player rating (0 = unrated)")
	fed := fs.String("fed", "", "Federation code")
	fideID := fs.Int("fideid", 0, "FIDE id")
	title := fs.String("title", "", "FIDE title")
	born := fs.Int("born", 0, "Birth year")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)
	if *playerName == "" {
		fmt.Fprintln(os.Stderr, "Please provide a -player name.")
		fs.Usage()
		os.Exit(1)
	}

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)

	var fedInfo *tourney.FederationInfo
	if *fed != "" || *fideID != 0 || *title != "" || *born != 0 {
		fedInfo = &tourney.FederationInfo{Federation: *fed, FideID: *fideID,
			FideTitle: *title, BirthYear: *born}
	}
	p, err := trn.AddPlayer(*playerName, *rating, fedInfo)
	if err != nil {
		log.Fatalf("Error adding player: %v", err)
	}
	saveTournament(ctx, st, *name, trn)
	fmt.Printf("Added %v\n", p)
}

type urlList []string

func (u *urlList) String() string { return strings.Join(*u, ",") }

func (u *urlList) Set(val string) error {
	*u = append(*u, val)
	return nil
}

func handleImport(ctx context.Context, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	fs := flag.NewFlagSet("import", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	csvPath := fs.String("csv", "", "CSV roster file")
	var urls urlList
	fs.Var(&urls, "url", "Registration page URL (repeatable)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)
	if *csvPath == "" && len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Please provide -csv and/or -url.")
		fs.Usage()
		os.Exit(1)
	}

	var entries []roster.Entry
	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatalf("Error opening %v: %v", *csvPath, err)
		}
		csvEntries, err := roster.ReadCSV(f)
		f.Close()
		if err != nil {
			log.Fatalf("Error reading %v: %v", *csvPath, err)
		}
		entries = append(entries, csvEntries...)
	}
	if len(urls) > 0 {
		client := internal.NewCachedHttpClient(ctx,
			time.Duration(cfg.CacheTTLMinutes)*time.Minute)
		fetched, err := roster.FetchAll(ctx, client, urls)
		if err != nil {
			log.Fatalf("Error importing rosters: %v", err)
		}
		entries = append(entries, fetched...)
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Error opening store %v: %v", cfg.Store, err)
	}
	trn := loadTournament(ctx, st, *name)

	added, skipped := 0, 0
	for _, e := range entries {
		if _, exists := trn.PlayerByName(e.Name); exists {
			skipped++
			continue
		}
		var fedInfo *tourney.FederationInfo
		if e.Federation != "" || e.FideID != 0 || e.FideTitle != "" ||
			e.BirthYear != 0 {
			fedInfo = &tourney.FederationInfo{Federation: e.Federation,
				FideID: e.FideID, FideTitle: e.FideTitle,
				BirthYear: e.BirthYear}
		}
		if _, err := trn.AddPlayer(e.Name, e.Rating, fedInfo); err != nil {
			log.Fatalf("Error adding %v: %v", e.Name, err)
		}
		added++
	}
	saveTournament(ctx, st, *name, trn)
	fmt.Printf("Imported %d players (%d already registered)\n", added, skipped)
}

func handleWithdraw(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	playerName := fs.String("player", "", "Player name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)
	p := findPlayer(trn, *playerName)
	if err := trn.DeactivatePlayer(p.ID); err != nil {
		log.Fatalf("Error withdrawing %v: %v", p.Name, err)
	}
	saveTournament(ctx, st, *name, trn)
	fmt.Printf("Withdrew %v\n", p.Name)
}

func handleReactivate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("reactivate", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	playerName := fs.String("player", "", "Player name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)
	p := findPlayer(trn, *playerName)
	if err := trn.ReactivatePlayer(p.ID); err != nil {
		log.Fatalf("Error reinstating %v: %v", p.Name, err)
	}
	saveTournament(ctx, st, *name, trn)
	fmt.Printf("Reinstated %v\n", p.Name)
}

func handlePair(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pair", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)
	round, err := trn.PairNextRound()
	if err != nil {
		log.Fatalf("Error pairing next round: %v", err)
	}
	saveTournament(ctx, st, *name, trn)

	output, err := tourney.BuildPairingsOutput(trn, round.Number)
	if err != nil {
		log.Fatalf("Error formatting pairings: %v", err)
	}
	fmt.Print(output)
}

func handleResults(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("results", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	roundNum := fs.Int("round", 0, "Round number")
	scores := fs.String("scores", "",
		"Comma separated white scores per board, in board order")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)
	if *roundNum < 1 || *scores == "" {
		fmt.Fprintln(os.Stderr, "Please provide -round and -scores.")
		fs.Usage()
		os.Exit(1)
	}

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)
	games, _, err := trn.RoundPairings(*roundNum)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fields := strings.Split(*scores, ",")
	if len(fields) != len(games) {
		log.Fatalf("Round %d has %d boards but %d scores were given",
			*roundNum, len(games), len(fields))
	}
	var results []tourney.GameResult
	for i, field := range fields {
		score, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			log.Fatalf("Invalid score %q for board %d", field, i+1)
		}
		results = append(results, tourney.GameResult{
			White:      games[i].White.ID,
			Black:      games[i].Black.ID,
			WhiteScore: score,
		})
	}
	if err := trn.SubmitResults(*roundNum, results); err != nil {
		log.Fatalf("Error recording results: %v", err)
	}
	saveTournament(ctx, st, *name, trn)

	fmt.Printf("Recorded round %d results\n\n", *roundNum)
	fmt.Print(tourney.BuildStandingsOutput(trn))
}

func handleRepair(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("repair", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	playerName := fs.String("player", "", "Player to re-pair")
	oppName := fs.String("opponent", "", "New opponent")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)
	if *playerName == "" || *oppName == "" {
		fmt.Fprintln(os.Stderr, "Please provide -player and -opponent.")
		fs.Usage()
		os.Exit(1)
	}

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)
	p := findPlayer(trn, *playerName)
	opp := findPlayer(trn, *oppName)
	if err := trn.AdjustPairing(p.ID, opp.ID); err != nil {
		log.Fatalf("Error re-pairing: %v", err)
	}
	saveTournament(ctx, st, *name, trn)

	round := trn.CurrentRound()
	output, err := tourney.BuildPairingsOutput(trn, round.Number)
	if err != nil {
		log.Fatalf("Error formatting pairings: %v", err)
	}
	fmt.Print(output)
}

func handleUndo(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("undo", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)
	round := trn.CurrentRound()
	if round == nil {
		log.Fatalf("No rounds have been paired yet")
	}
	if err := trn.UndoLastRound(); err != nil {
		log.Fatalf("Error undoing round: %v", err)
	}
	saveTournament(ctx, st, *name, trn)
	fmt.Printf("Rolled back round %d\n", round.Number)
}

func handleStandings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)
	fmt.Print(tourney.BuildStandingsOutput(trn))
}

func handlePairings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pairings", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	roundNum := fs.Int("round", 0, "Round number (defaults to latest)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)
	if *roundNum == 0 {
		round := trn.CurrentRound()
		if round == nil {
			log.Fatalf("No rounds have been paired yet")
		}
		*roundNum = round.Number
	}
	output, err := tourney.BuildPairingsOutput(trn, *roundNum)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Print(output)
}

func handleSchedule(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	playerName := fs.String("player", "", "Player name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	mustName(fs, *name)

	st := openStore(ctx)
	trn := loadTournament(ctx, st, *name)
	p := findPlayer(trn, *playerName)
	output, err := tourney.BuildScheduleOutput(trn, p.ID)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Print(output)
}
