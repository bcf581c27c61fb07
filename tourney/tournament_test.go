/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import (
	"errors"
	"fmt"
	"testing"
)

func newSwissTournament(t *testing.T, numPlayers, numRounds int) *Tournament {
	trn, err := NewTournament("Test Open", numRounds, FormatSwiss)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < numPlayers; i++ {
		name := fmt.Sprintf("Player%d", i+1)
		if _, err := trn.AddPlayer(name, 1800-50*i, nil); err != nil {
			t.Fatalf("unexpected error adding %s: %v", name, err)
		}
	}
	return trn
}

// whiteWins reports every board as a white win.
func whiteWins(round *Round) []GameResult {
	var results []GameResult
	for _, pairing := range round.Pairings {
		results = append(results, GameResult{White: pairing.White,
			Black: pairing.Black, WhiteScore: WinScore})
	}
	return results
}

func TestNewTournamentValidation(t *testing.T) {
	if _, err := NewTournament("", 4, FormatSwiss); err == nil {
		t.Errorf("expected error for empty name")
	}
	if _, err := NewTournament("Open", 0, FormatSwiss); err == nil {
		t.Errorf("expected error for zero rounds")
	}
}

func TestPairBeforeResultsRejected(t *testing.T) {
	trn := newSwissTournament(t, 4, 3)
	if _, err := trn.PairNextRound(); err != nil {
		t.Fatalf("round 1 pairing failed: %v", err)
	}

	var stateErr *StateError
	_, err := trn.PairNextRound()
	if !errors.As(err, &stateErr) {
		t.Errorf("expected StateError pairing over a pending round, got %v", err)
	}
}

func TestScoreConservation(t *testing.T) {
	trn := newSwissTournament(t, 5, 3)

	for rnd := 1; rnd <= 3; rnd++ {
		before := 0.0
		for _, p := range trn.Players() {
			before += p.Score
		}

		round, err := trn.PairNextRound()
		if err != nil {
			t.Fatalf("round %d pairing failed: %v", rnd, err)
		}
		if err := trn.SubmitResults(rnd, whiteWins(round)); err != nil {
			t.Fatalf("round %d results failed: %v", rnd, err)
		}

		after := 0.0
		for _, p := range trn.Players() {
			after += p.Score
		}
		byes := 0
		if round.Bye != nil {
			byes = 1
		}
		expected := float64(len(round.Pairings) + byes)
		if after-before != expected {
			t.Errorf("round %d: score delta %v, expected %v", rnd,
				after-before, expected)
		}
	}
}

func TestByeInvariant(t *testing.T) {
	trn := newSwissTournament(t, 5, 3)

	byeCounts := make(map[string]int)
	for rnd := 1; rnd <= 3; rnd++ {
		round, err := trn.PairNextRound()
		if err != nil {
			t.Fatalf("round %d pairing failed: %v", rnd, err)
		}
		if round.Bye == nil {
			t.Fatalf("round %d: expected a bye with 5 players", rnd)
		}
		byePlayer, _ := trn.Player(*round.Bye)
		scoreBefore := byePlayer.Score
		if err := trn.SubmitResults(rnd, whiteWins(round)); err != nil {
			t.Fatalf("round %d results failed: %v", rnd, err)
		}
		if byePlayer.Score != scoreBefore+ByeScore {
			t.Errorf("round %d: bye score delta %v, expected %v", rnd,
				byePlayer.Score-scoreBefore, ByeScore)
		}
		byeCounts[*round.Bye]++
	}

	// Three rounds, five players: three distinct bye recipients.
	if len(byeCounts) != 3 {
		t.Errorf("expected 3 distinct bye recipients, got %d", len(byeCounts))
	}
}

func TestSubmitResultsValidation(t *testing.T) {
	trn := newSwissTournament(t, 4, 3)
	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("pairing failed: %v", err)
	}

	if err := trn.SubmitResults(2, nil); err == nil {
		t.Errorf("expected error for unknown round")
	}
	if err := trn.SubmitResults(1, nil); err == nil {
		t.Errorf("expected error for missing results")
	}

	bad := whiteWins(round)
	bad[0].WhiteScore = 0.75
	if err := trn.SubmitResults(1, bad); err == nil {
		t.Errorf("expected error for invalid score")
	}

	dup := whiteWins(round)
	dup = append(dup, dup[0])
	if err := trn.SubmitResults(1, dup); err == nil {
		t.Errorf("expected error for duplicate result")
	}

	good := whiteWins(round)
	if err := trn.SubmitResults(1, good); err != nil {
		t.Fatalf("valid results rejected: %v", err)
	}
	if err := trn.SubmitResults(1, good); err == nil {
		t.Errorf("expected error resubmitting a completed round")
	}
}

func TestDrawResultsSplitPoint(t *testing.T) {
	trn := newSwissTournament(t, 2, 1)
	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("pairing failed: %v", err)
	}

	results := []GameResult{{White: round.Pairings[0].White,
		Black: round.Pairings[0].Black, WhiteScore: DrawScore}}
	if err := trn.SubmitResults(1, results); err != nil {
		t.Fatalf("results failed: %v", err)
	}

	for _, p := range trn.Players() {
		if p.Score != DrawScore {
			t.Errorf("%s: expected %v after the draw, got %v", p.Name,
				DrawScore, p.Score)
		}
	}
}

type playerSnapshot struct {
	score  float64
	rounds int
	blacks int
	hasBye bool
	floats int
}

func snapshot(trn *Tournament) map[string]playerSnapshot {
	snaps := make(map[string]playerSnapshot)
	for _, p := range trn.Players() {
		snaps[p.ID] = playerSnapshot{
			score:  p.Score,
			rounds: p.RoundsPlayed(),
			blacks: p.NumBlackGames,
			hasBye: p.HasReceivedBye,
			floats: len(p.FloatHistory),
		}
	}
	return snaps
}

func TestUndoIsExactInverse(t *testing.T) {
	trn := newSwissTournament(t, 5, 3)

	// Play two rounds to get nontrivial state.
	for rnd := 1; rnd <= 2; rnd++ {
		round, err := trn.PairNextRound()
		if err != nil {
			t.Fatalf("round %d pairing failed: %v", rnd, err)
		}
		if err := trn.SubmitResults(rnd, whiteWins(round)); err != nil {
			t.Fatalf("round %d results failed: %v", rnd, err)
		}
	}

	before := snapshot(trn)
	roundsBefore := len(trn.Rounds())

	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("round 3 pairing failed: %v", err)
	}
	if err := trn.SubmitResults(3, whiteWins(round)); err != nil {
		t.Fatalf("round 3 results failed: %v", err)
	}
	if err := trn.UndoLastRound(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	after := snapshot(trn)
	if len(trn.Rounds()) != roundsBefore {
		t.Errorf("expected %d rounds after undo, got %d", roundsBefore,
			len(trn.Rounds()))
	}
	for id, b := range before {
		if after[id] != b {
			t.Errorf("player %s state not restored: %+v vs %+v", id, b,
				after[id])
		}
	}
}

func TestUndoPendingRound(t *testing.T) {
	trn := newSwissTournament(t, 4, 3)
	if _, err := trn.PairNextRound(); err != nil {
		t.Fatalf("pairing failed: %v", err)
	}
	if err := trn.UndoLastRound(); err != nil {
		t.Fatalf("undo of pending round failed: %v", err)
	}
	if len(trn.Rounds()) != 0 {
		t.Errorf("expected no rounds after undo")
	}
	if err := trn.UndoLastRound(); err == nil {
		t.Errorf("expected error undoing with no rounds")
	}
}

func TestWithdrawExcludesFromPairing(t *testing.T) {
	trn := newSwissTournament(t, 5, 3)
	players := trn.Players()
	if err := trn.DeactivatePlayer(players[4].ID); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("pairing failed: %v", err)
	}
	if round.Bye != nil {
		t.Errorf("expected no bye after a withdrawal evens the field")
	}
	for _, pairing := range round.Pairings {
		if pairing.White == players[4].ID || pairing.Black == players[4].ID {
			t.Errorf("withdrawn player was paired")
		}
	}

	if err := trn.ReactivatePlayer(players[4].ID); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	if err := trn.DeactivatePlayer("player_unknown"); err == nil {
		t.Errorf("expected error withdrawing unknown player")
	}
}

func TestWithdrawnByeScoresZero(t *testing.T) {
	trn := newSwissTournament(t, 5, 3)
	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("pairing failed: %v", err)
	}
	// The bye recipient withdraws after pairing but before results.
	byePlayer, _ := trn.Player(*round.Bye)
	if err := trn.DeactivatePlayer(byePlayer.ID); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if err := trn.SubmitResults(1, whiteWins(round)); err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if byePlayer.Score != 0.0 {
		t.Errorf("expected withdrawn bye to score 0, got %v", byePlayer.Score)
	}
	if !byePlayer.HasReceivedBye {
		t.Errorf("expected the bye slot to be recorded regardless")
	}
}

func TestAdjustPairingSwapsOpponents(t *testing.T) {
	trn := newSwissTournament(t, 4, 3)
	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("pairing failed: %v", err)
	}

	p0 := round.Pairings[0]
	p1 := round.Pairings[1]
	if err := trn.AdjustPairing(p0.White, p1.White); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}

	adjusted := trn.CurrentRound()
	if adjusted.Pairings[0].White != p0.White ||
		adjusted.Pairings[0].Black != p1.White {
		t.Errorf("expected %s vs %s, got %+v", p0.White, p1.White,
			adjusted.Pairings[0])
	}
	// The two displaced opponents now face each other.
	displaced := adjusted.Pairings[1]
	ok := (displaced.White == p0.Black && displaced.Black == p1.Black) ||
		(displaced.White == p1.Black && displaced.Black == p0.Black)
	if !ok {
		t.Errorf("displaced players not re-paired: %+v", displaced)
	}
}

func TestAdjustPairingWithBye(t *testing.T) {
	trn := newSwissTournament(t, 5, 3)
	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("pairing failed: %v", err)
	}

	target := round.Pairings[0].White
	oldOpp := round.Pairings[0].Black
	byeID := *round.Bye
	if err := trn.AdjustPairing(target, byeID); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}

	adjusted := trn.CurrentRound()
	if adjusted.Pairings[0].Black != byeID {
		t.Errorf("expected former bye player paired, got %+v",
			adjusted.Pairings[0])
	}
	if adjusted.Bye == nil || *adjusted.Bye != oldOpp {
		t.Errorf("expected displaced opponent to take the bye")
	}
}

func TestAdjustPairingRejectsCompletedRound(t *testing.T) {
	trn := newSwissTournament(t, 4, 3)
	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("pairing failed: %v", err)
	}
	if err := trn.SubmitResults(1, whiteWins(round)); err != nil {
		t.Fatalf("results failed: %v", err)
	}

	var stateErr *StateError
	err = trn.AdjustPairing(round.Pairings[0].White, round.Pairings[1].White)
	if !errors.As(err, &stateErr) {
		t.Errorf("expected StateError adjusting a completed round, got %v", err)
	}
}

func TestTournamentEndsAfterConfiguredRounds(t *testing.T) {
	trn := newSwissTournament(t, 4, 1)
	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("pairing failed: %v", err)
	}
	if err := trn.SubmitResults(1, whiteWins(round)); err != nil {
		t.Fatalf("results failed: %v", err)
	}

	var stateErr *StateError
	_, err = trn.PairNextRound()
	if !errors.As(err, &stateErr) {
		t.Errorf("expected StateError past the final round, got %v", err)
	}
}

func TestRoundRobinTournamentFlow(t *testing.T) {
	trn, err := NewTournament("Quad", 1, FormatRoundRobin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := trn.AddPlayer(fmt.Sprintf("P%d", i+1), 1500+10*i, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for rnd := 1; rnd <= 3; rnd++ {
		round, err := trn.PairNextRound()
		if err != nil {
			t.Fatalf("round %d pairing failed: %v", rnd, err)
		}
		if rnd == 1 && trn.NumRounds != 3 {
			t.Errorf("expected rounds adjusted to 3, got %d", trn.NumRounds)
		}
		if err := trn.SubmitResults(rnd, whiteWins(round)); err != nil {
			t.Fatalf("round %d results failed: %v", rnd, err)
		}
	}

	// Roster is closed once the schedule exists.
	if _, err := trn.AddPlayer("Latecomer", 1400, nil); err == nil {
		t.Errorf("expected error adding to a closed round robin roster")
	}

	var stateErr *StateError
	if _, err := trn.PairNextRound(); !errors.As(err, &stateErr) {
		t.Errorf("expected StateError after the schedule finished, got %v", err)
	}

	// Every player played three games.
	for _, p := range trn.Players() {
		if p.RoundsPlayed() != 3 {
			t.Errorf("%s: expected 3 rounds, got %d", p.Name, p.RoundsPlayed())
		}
	}
}

func TestRoundRobinUndoReopensRoster(t *testing.T) {
	trn, err := NewTournament("Quad", 1, FormatRoundRobin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := trn.AddPlayer(fmt.Sprintf("P%d", i+1), 1500, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if _, err := trn.PairNextRound(); err != nil {
		t.Fatalf("pairing failed: %v", err)
	}
	if err := trn.UndoLastRound(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if _, err := trn.AddPlayer("P4", 1500, nil); err != nil {
		t.Errorf("expected roster reopened after undoing round 1: %v", err)
	}
}

// higherRatedWins awards every board to the higher rated player.
func higherRatedWins(trn *Tournament, round *Round) []GameResult {
	var results []GameResult
	for _, pairing := range round.Pairings {
		white, _ := trn.Player(pairing.White)
		black, _ := trn.Player(pairing.Black)
		score := WinScore
		if black.Rating > white.Rating {
			score = LossScore
		}
		results = append(results, GameResult{White: pairing.White,
			Black: pairing.Black, WhiteScore: score})
	}
	return results
}

// TestSixPlayerEventReplay plays a full six player three round event with
// the higher rated player winning every board and checks the properties
// that must hold regardless of how individual boards were matched.
func TestSixPlayerEventReplay(t *testing.T) {
	trn := newSwissTournament(t, 6, 3)

	met := make(map[Pairing]int)
	for rnd := 1; rnd <= 3; rnd++ {
		round, err := trn.PairNextRound()
		if err != nil {
			t.Fatalf("round %d pairing failed: %v", rnd, err)
		}
		if len(round.Pairings) != 3 {
			t.Fatalf("round %d: expected 3 boards, got %d", rnd,
				len(round.Pairings))
		}
		if round.Bye != nil {
			t.Errorf("round %d: unexpected bye with an even field", rnd)
		}
		if len(round.Repeats) != 0 {
			t.Errorf("round %d: unexpected forced rematch", rnd)
		}
		for _, pairing := range round.Pairings {
			a, b := pairing.White, pairing.Black
			if a > b {
				a, b = b, a
			}
			met[Pairing{White: a, Black: b}]++
		}
		if err := trn.SubmitResults(rnd, higherRatedWins(trn, round)); err != nil {
			t.Fatalf("round %d results failed: %v", rnd, err)
		}
	}

	for pairing, count := range met {
		if count > 1 {
			t.Errorf("%v vs %v met %d times", pairing.White, pairing.Black,
				count)
		}
	}

	total := 0.0
	for _, p := range trn.Players() {
		total += p.Score
		if got := len(p.Results); got != 3 {
			t.Errorf("%v played %d games, expected 3", p.Name, got)
		}
	}
	if total != 9.0 {
		t.Errorf("expected 9.0 total points after 3 rounds, got %v", total)
	}

	// only the top seed can win every game when rating decides each board
	standings := trn.Standings()
	if standings[0].Player.Rating != 1800 || standings[0].Score != 3.0 {
		t.Errorf("expected the 1800 rated player on 3.0 at the top, got %v on %v",
			standings[0].Player.Name, standings[0].Score)
	}
	for _, s := range standings[1:] {
		if s.Score == 3.0 {
			t.Errorf("expected a sole perfect score, %v also has 3.0",
				s.Player.Name)
		}
	}
}
