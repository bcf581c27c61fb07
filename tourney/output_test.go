/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import (
	"strings"
	"testing"
)

func TestBuildPairingsOutput(t *testing.T) {
	trn := newSwissTournament(t, 5, 3)
	if _, err := trn.PairNextRound(); err != nil {
		t.Fatalf("pairing failed: %v", err)
	}

	out, err := BuildPairingsOutput(trn, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Round 1 Pairings", "Board", "White",
		"Black", "BYE(1)", "Player1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := BuildPairingsOutput(trn, 2); err == nil {
		t.Errorf("expected error for an unpaired round")
	}
}

func TestBuildStandingsOutput(t *testing.T) {
	trn := newSwissTournament(t, 4, 3)
	round, err := trn.PairNextRound()
	if err != nil {
		t.Fatalf("pairing failed: %v", err)
	}
	if err := trn.SubmitResults(1, whiteWins(round)); err != nil {
		t.Fatalf("results failed: %v", err)
	}

	out := BuildStandingsOutput(trn)
	for _, want := range []string{"Standings after Round 1", "Place", "Name",
		"Score", "Median", "1.", "Player1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildScheduleOutput(t *testing.T) {
	trn, err := NewTournament("Quad", 1, FormatRoundRobin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var first *Player
	for i, name := range []string{"Ann", "Ben", "Cal"} {
		p, err := trn.AddPlayer(name, 1500+10*i, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first == nil {
			first = p
		}
	}

	if _, err := BuildScheduleOutput(trn, first.ID); err == nil {
		t.Errorf("expected error before the schedule exists")
	}

	if _, err := trn.PairNextRound(); err != nil {
		t.Fatalf("pairing failed: %v", err)
	}
	out, err := BuildScheduleOutput(trn, first.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Schedule for Ann", "Round", "Opponent",
		"BYE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
