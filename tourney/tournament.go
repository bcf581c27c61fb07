/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Format selects the pairing system for a tournament.
type Format int

const (
	FormatSwiss Format = iota
	FormatRoundRobin
)

func (f Format) String() string {
	if f == FormatRoundRobin {
		return "round_robin"
	}
	return "swiss"
}

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "swiss", "dutch_swiss", "":
		return FormatSwiss, nil
	case "round_robin", "roundrobin", "rr":
		return FormatRoundRobin, nil
	}
	return FormatSwiss, validationErrorf("unknown tournament format %q", s)
}

// Pairing is one board of a recorded round, stored by player id with
// white first.
type Pairing struct {
	White string `json:"white"`
	Black string `json:"black"`
}

// Round is one paired round. Pairings are produced once by the pairing
// engine and are immutable after results are submitted; only the latest
// round may be rolled back.
type Round struct {
	Number    int       `json:"number"`
	Pairings  []Pairing `json:"pairings"`
	Bye       *string   `json:"bye,omitempty"`
	Repeats   []Pairing `json:"repeats,omitempty"`
	Completed bool      `json:"completed"`
}

// GameResult reports one board's outcome: the score of the white player
// (1, 0.5, or 0); black receives the complement.
type GameResult struct {
	White      string
	Black      string
	WhiteScore float64
}

// Tournament owns the player set, the round sequence, and configuration,
// and exposes the pairing, results, undo, and standings operations. It is
// not safe for concurrent mutation; callers must serialize operations.
type Tournament struct {
	Name          string
	StartDate     time.Time
	NumRounds     int
	TiebreakOrder []string
	Format        Format
	ByeValue      float64

	players map[string]*Player
	nextSeq int
	rounds  []*Round
	rr      *RoundRobin
}

// NewTournament creates an empty tournament. numRounds must be positive;
// for round-robin it is adjusted to the schedule length at first pairing.
func NewTournament(name string, numRounds int, format Format) (*Tournament, error) {
	if name == "" {
		return nil, validationErrorf("tournament name must not be empty")
	}
	if numRounds < 1 {
		return nil, validationErrorf("number of rounds must be positive, got %d", numRounds)
	}
	return &Tournament{
		Name:          name,
		NumRounds:     numRounds,
		TiebreakOrder: append([]string(nil), DefaultTiebreakOrder...),
		Format:        format,
		ByeValue:      ByeScore,
		players:       make(map[string]*Player),
		nextSeq:       1,
	}, nil
}

// SetTiebreakOrder replaces the configured tiebreak order after validating
// every key.
func (t *Tournament) SetTiebreakOrder(order []string) error {
	for _, key := range order {
		if !KnownTiebreak(key) {
			return validationErrorf("unknown tiebreak key %q", key)
		}
	}
	t.TiebreakOrder = append([]string(nil), order...)
	return nil
}

// AddPlayer registers a new player. Round-robin rosters close once the
// schedule exists; Swiss events accept late entries, who start at 0.
func (t *Tournament) AddPlayer(name string, rating int, fed *FederationInfo) (*Player, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationErrorf("player name must not be empty")
	}
	if t.Format == FormatRoundRobin && len(t.rounds) > 0 {
		return nil, stateErrorf("round robin roster is closed once round 1 is paired")
	}
	p := NewPlayer(strings.TrimSpace(name), rating)
	p.Fed = fed
	p.Seq = t.nextSeq
	t.nextSeq++
	t.players[p.ID] = p
	return p, nil
}

// Player looks a player up by id.
func (t *Tournament) Player(id string) (*Player, bool) {
	p, ok := t.players[id]
	return p, ok
}

// PlayerByName finds a player by exact display name.
func (t *Tournament) PlayerByName(name string) (*Player, bool) {
	for _, p := range t.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Players returns all players in registration order, inactive included.
func (t *Tournament) Players() []*Player {
	players := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].Seq < players[j].Seq
	})
	return players
}

// ActivePlayers returns active players in registration order.
func (t *Tournament) ActivePlayers() []*Player {
	var players []*Player
	for _, p := range t.Players() {
		if p.Active {
			players = append(players, p)
		}
	}
	return players
}

// DeactivatePlayer withdraws a player. Their history is retained and they
// keep appearing in standings; they are excluded from future pairings.
func (t *Tournament) DeactivatePlayer(id string) error {
	p, ok := t.players[id]
	if !ok {
		return validationErrorf("no player with id %s", id)
	}
	if !p.Active {
		return stateErrorf("player %s is already withdrawn", p.Name)
	}
	p.Active = false
	log.Printf("tournament: %s withdrawn", p.Name)
	return nil
}

// ReactivatePlayer reverses a withdrawal.
func (t *Tournament) ReactivatePlayer(id string) error {
	p, ok := t.players[id]
	if !ok {
		return validationErrorf("no player with id %s", id)
	}
	if p.Active {
		return stateErrorf("player %s is already active", p.Name)
	}
	p.Active = true
	log.Printf("tournament: %s reinstated", p.Name)
	return nil
}

// Rounds returns the recorded rounds, earliest first.
func (t *Tournament) Rounds() []*Round {
	return append([]*Round(nil), t.rounds...)
}

// CompletedRounds counts rounds whose results are fully recorded.
func (t *Tournament) CompletedRounds() int {
	n := 0
	for _, r := range t.rounds {
		if r.Completed {
			n++
		}
	}
	return n
}

// CurrentRound returns the latest round, nil before round 1 is paired.
func (t *Tournament) CurrentRound() *Round {
	if len(t.rounds) == 0 {
		return nil
	}
	return t.rounds[len(t.rounds)-1]
}

// playedBefore reports whether two players met in any recorded round,
// manual adjustments included. Derived from the round list on demand;
// there is no cached opponent set to invalidate.
func (t *Tournament) playedBefore(a, b *Player) bool {
	for _, r := range t.rounds {
		for _, pairing := range r.Pairings {
			if (pairing.White == a.ID && pairing.Black == b.ID) ||
				(pairing.White == b.ID && pairing.Black == a.ID) {
				return true
			}
		}
	}
	return false
}

// PairNextRound pairs the next round using the configured format and
// appends it in pending state. The previous round must be completed
// first. A failed pairing leaves the tournament untouched.
func (t *Tournament) PairNextRound() (*Round, error) {
	next := len(t.rounds) + 1
	if last := t.CurrentRound(); last != nil && !last.Completed {
		return nil, stateErrorf("round %d results are not yet recorded", last.Number)
	}
	// Round robin only knows its true length once the schedule exists.
	if next > t.NumRounds && (t.Format != FormatRoundRobin || t.rr != nil) {
		return nil, stateErrorf("tournament is over after %d rounds", t.NumRounds)
	}

	var round *Round
	var err error
	if t.Format == FormatRoundRobin {
		round, err = t.pairRoundRobin(next)
	} else {
		round, err = t.pairSwiss(next)
	}
	if err != nil {
		return nil, err
	}
	t.rounds = append(t.rounds, round)
	return round, nil
}

func (t *Tournament) pairSwiss(roundNum int) (*Round, error) {
	active := t.ActivePlayers()
	result, err := PairSwissRound(active, roundNum, t.playedBefore)
	if err != nil {
		return nil, err
	}

	round := &Round{Number: roundNum}
	for _, g := range result.Games {
		round.Pairings = append(round.Pairings, Pairing{White: g.White.ID, Black: g.Black.ID})
	}
	if result.Bye != nil {
		id := result.Bye.ID
		round.Bye = &id
	}
	for _, pair := range result.Repeats {
		round.Repeats = append(round.Repeats, Pairing{White: pair[0].ID, Black: pair[1].ID})
	}
	for _, p := range result.Floats {
		p.FloatHistory = append(p.FloatHistory, roundNum)
	}
	return round, nil
}

func (t *Tournament) pairRoundRobin(roundNum int) (*Round, error) {
	if t.rr == nil {
		rr, err := NewRoundRobin(t.ActivePlayers())
		if err != nil {
			return nil, err
		}
		t.rr = rr
		if t.NumRounds != rr.NumRounds() {
			log.Printf("tournament: adjusting rounds from %d to %d for round robin",
				t.NumRounds, rr.NumRounds())
			t.NumRounds = rr.NumRounds()
		}
	}
	games, bye, err := t.rr.RoundPairings(roundNum)
	if err != nil {
		return nil, err
	}

	round := &Round{Number: roundNum}
	for _, g := range games {
		round.Pairings = append(round.Pairings, Pairing{White: g[0].ID, Black: g[1].ID})
	}
	if bye != nil {
		id := bye.ID
		round.Bye = &id
	}
	return round, nil
}

// RoundPairings resolves a recorded round's pairings to players.
func (t *Tournament) RoundPairings(roundNum int) ([]Game, *Player, error) {
	if roundNum < 1 || roundNum > len(t.rounds) {
		return nil, nil, validationErrorf("no round %d; %d rounds paired",
			roundNum, len(t.rounds))
	}
	round := t.rounds[roundNum-1]
	games := make([]Game, 0, len(round.Pairings))
	for _, pairing := range round.Pairings {
		white, ok := t.players[pairing.White]
		if !ok {
			return nil, nil, validationErrorf("round %d references unknown player %s",
				roundNum, pairing.White)
		}
		black, ok := t.players[pairing.Black]
		if !ok {
			return nil, nil, validationErrorf("round %d references unknown player %s",
				roundNum, pairing.Black)
		}
		games = append(games, Game{White: white, Black: black})
	}
	var bye *Player
	if round.Bye != nil {
		bye = t.players[*round.Bye]
	}
	return games, bye, nil
}

// AdjustPairing swaps one player's opponent on the latest pending round.
// The new opponent must be playing this round or be the bye player; the
// displaced opponents are paired with each other (or take over the bye).
func (t *Tournament) AdjustPairing(playerID, newOppID string) error {
	round := t.CurrentRound()
	if round == nil {
		return stateErrorf("no round has been paired")
	}
	if round.Completed {
		return stateErrorf("round %d results are already recorded", round.Number)
	}
	if playerID == newOppID {
		return validationErrorf("a player cannot be paired against themselves")
	}
	player, ok := t.players[playerID]
	if !ok {
		return validationErrorf("no player with id %s", playerID)
	}
	newOpp, ok := t.players[newOppID]
	if !ok {
		return validationErrorf("no player with id %s", newOppID)
	}

	pIdx, pWhite := findPairing(round, playerID)
	if pIdx < 0 {
		return validationErrorf("%s is not paired in round %d (bye players cannot be re-paired directly)",
			player.Name, round.Number)
	}
	oldOppID := round.Pairings[pIdx].Black
	if !pWhite {
		oldOppID = round.Pairings[pIdx].White
	}
	if oldOppID == newOppID {
		return nil
	}

	oIdx, oWhite := findPairing(round, newOppID)
	switch {
	case oIdx == pIdx:
		// Same board: a color swap, not an opponent change.
		round.Pairings[pIdx] = Pairing{White: round.Pairings[pIdx].Black,
			Black: round.Pairings[pIdx].White}
	case oIdx >= 0:
		displaced := round.Pairings[oIdx].Black
		if !oWhite {
			displaced = round.Pairings[oIdx].White
		}
		if pWhite {
			round.Pairings[pIdx] = Pairing{White: playerID, Black: newOppID}
		} else {
			round.Pairings[pIdx] = Pairing{White: newOppID, Black: playerID}
		}
		// The two displaced opponents now play each other, keeping the
		// color slots they already held.
		if oWhite {
			round.Pairings[oIdx] = Pairing{White: displaced, Black: oldOppID}
		} else {
			round.Pairings[oIdx] = Pairing{White: oldOppID, Black: displaced}
		}
	case round.Bye != nil && *round.Bye == newOppID:
		if pWhite {
			round.Pairings[pIdx] = Pairing{White: playerID, Black: newOppID}
		} else {
			round.Pairings[pIdx] = Pairing{White: newOppID, Black: playerID}
		}
		bye := oldOppID
		round.Bye = &bye
	default:
		return validationErrorf("%s is neither paired nor the bye in round %d",
			newOpp.Name, round.Number)
	}

	log.Printf("tournament: round %d manually re-paired %s vs %s",
		round.Number, player.Name, newOpp.Name)
	return nil
}

func findPairing(round *Round, playerID string) (idx int, isWhite bool) {
	for i, pairing := range round.Pairings {
		if pairing.White == playerID {
			return i, true
		}
		if pairing.Black == playerID {
			return i, false
		}
	}
	return -1, false
}

// SubmitResults records the outcome of the latest pending round: every
// board must be covered exactly once with a score of 1, 0.5, or 0 for
// white, and black receives the complement. The bye player is credited
// the bye score (0 if withdrawn after pairing). State is only mutated
// after all results validate.
func (t *Tournament) SubmitResults(roundNum int, results []GameResult) error {
	if roundNum < 1 || roundNum > len(t.rounds) {
		return validationErrorf("no round %d; %d rounds paired", roundNum, len(t.rounds))
	}
	round := t.rounds[roundNum-1]
	if round.Completed {
		return stateErrorf("round %d results are already recorded", roundNum)
	}
	if roundNum != len(t.rounds) {
		return stateErrorf("round %d is not the latest round", roundNum)
	}

	byBoard := make(map[Pairing]float64, len(results))
	for _, res := range results {
		if res.WhiteScore != WinScore && res.WhiteScore != DrawScore &&
			res.WhiteScore != LossScore {
			return validationErrorf("score %v for %s is not 1, 0.5, or 0",
				res.WhiteScore, res.White)
		}
		key := Pairing{White: res.White, Black: res.Black}
		if _, dup := byBoard[key]; dup {
			return validationErrorf("duplicate result for %s vs %s", res.White, res.Black)
		}
		byBoard[key] = res.WhiteScore
	}
	for _, pairing := range round.Pairings {
		if _, ok := byBoard[pairing]; !ok {
			return validationErrorf("missing result for %s vs %s",
				t.players[pairing.White].Name, t.players[pairing.Black].Name)
		}
	}
	if len(byBoard) != len(round.Pairings) {
		return validationErrorf("got %d results for %d boards",
			len(byBoard), len(round.Pairings))
	}

	for _, pairing := range round.Pairings {
		white := t.players[pairing.White]
		black := t.players[pairing.Black]
		score := byBoard[pairing]
		white.RecordResult(black, score, White)
		black.RecordResult(white, WinScore-score, Black)
	}
	if round.Bye != nil {
		bye := t.players[*round.Bye]
		value := t.ByeValue
		if !bye.Active {
			// A withdrawal after pairing still burns the bye slot but
			// earns no point.
			value = 0.0
		}
		bye.RecordResult(nil, value, NoColor)
	}
	round.Completed = true
	return nil
}

// UndoLastRound removes the most recent round, reversing every player's
// last history entry and score delta when results had been recorded. It
// is the exact inverse of PairNextRound+SubmitResults.
func (t *Tournament) UndoLastRound() error {
	round := t.CurrentRound()
	if round == nil {
		return stateErrorf("no rounds to undo")
	}
	if round.Completed {
		for _, pairing := range round.Pairings {
			if err := t.players[pairing.White].UndoLastResult(); err != nil {
				return fmt.Errorf("undo round %d: %w", round.Number, err)
			}
			if err := t.players[pairing.Black].UndoLastResult(); err != nil {
				return fmt.Errorf("undo round %d: %w", round.Number, err)
			}
		}
		if round.Bye != nil {
			if err := t.players[*round.Bye].UndoLastResult(); err != nil {
				return fmt.Errorf("undo round %d: %w", round.Number, err)
			}
		}
	}
	for _, p := range t.players {
		for i, r := range p.FloatHistory {
			if r == round.Number {
				p.FloatHistory = append(p.FloatHistory[:i], p.FloatHistory[i+1:]...)
				break
			}
		}
	}
	t.rounds = t.rounds[:len(t.rounds)-1]
	if t.Format == FormatRoundRobin && len(t.rounds) == 0 {
		// Reopen the roster; the schedule is regenerated at next pairing.
		t.rr = nil
	}
	log.Printf("tournament: rolled back round %d", round.Number)
	return nil
}

// Standings ranks every player, active and withdrawn, by score then the
// configured tiebreaks.
func (t *Tournament) Standings() []Standing {
	return BuildStandings(t.players, t.TiebreakOrder, t.NumRounds)
}
