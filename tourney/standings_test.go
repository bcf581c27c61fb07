/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import (
	"testing"
)

func TestBuildStandingsOrdering(t *testing.T) {
	a, b, c, players := twoRoundScenario()

	standings := BuildStandings(players, DefaultTiebreakOrder, 4)
	if len(standings) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(standings))
	}
	if standings[0].Player != a {
		t.Errorf("expected %v first, got %v", a.Name, standings[0].Player.Name)
	}
	// Bob and Carol are tied at 1.0; cumulative (Carol 2.0 vs Bob 1.0
	// after the identical earlier tiebreaks) separates them.
	if standings[1].Player != c || standings[2].Player != b {
		t.Errorf("expected Carol then Bob, got %v then %v",
			standings[1].Player.Name, standings[2].Player.Name)
	}
	for i, s := range standings {
		if s.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, s.Rank)
		}
	}
}

func TestBuildStandingsTotalOrder(t *testing.T) {
	// Four players with identical (empty) histories; only the
	// registration fallback separates them.
	players := make(map[string]*Player)
	var expected []string
	for i, name := range []string{"P1", "P2", "P3", "P4"} {
		p := newTestPlayer(name, 1500, i+1)
		players[p.ID] = p
		expected = append(expected, name)
	}

	standings := BuildStandings(players, DefaultTiebreakOrder, 4)
	for i, s := range standings {
		if s.Player.Name != expected[i] {
			t.Errorf("position %d: expected %v, got %v", i, expected[i],
				s.Player.Name)
		}
	}

	// Repeated calls must return the identical order.
	again := BuildStandings(players, DefaultTiebreakOrder, 4)
	for i := range standings {
		if standings[i].Player != again[i].Player {
			t.Errorf("standings order not deterministic at position %d", i)
		}
	}
}

func TestBuildStandingsIncludesInactive(t *testing.T) {
	a, b, _, players := twoRoundScenario()
	b.Active = false

	standings := BuildStandings(players, DefaultTiebreakOrder, 4)
	if len(standings) != 3 {
		t.Fatalf("expected withdrawn players to stay ranked, got %d rows",
			len(standings))
	}
	if standings[0].Player != a {
		t.Errorf("expected %v first", a.Name)
	}
}

func TestBuildStandingsEmptyOrderUsesDefault(t *testing.T) {
	_, _, _, players := twoRoundScenario()

	withDefault := BuildStandings(players, nil, 4)
	explicit := BuildStandings(players, DefaultTiebreakOrder, 4)
	for i := range withDefault {
		if withDefault[i].Player != explicit[i].Player {
			t.Errorf("nil tiebreak order diverged at position %d", i)
		}
	}
}
