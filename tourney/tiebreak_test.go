/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import (
	"reflect"
	"testing"
)

// twoRoundScenario builds three players: Alice beats Bob in round 1 (Carol
// byes), then Alice beats Carol in round 2 (Bob byes).
func twoRoundScenario() (a, b, c *Player, players map[string]*Player) {
	a = newTestPlayer("Alice", 1800, 1)
	b = newTestPlayer("Bob", 1600, 2)
	c = newTestPlayer("Carol", 1400, 3)
	players = map[string]*Player{a.ID: a, b.ID: b, c.ID: c}

	a.RecordResult(b, WinScore, White)
	b.RecordResult(a, LossScore, Black)
	c.RecordResult(nil, ByeScore, NoColor)

	a.RecordResult(c, WinScore, Black)
	c.RecordResult(a, LossScore, White)
	b.RecordResult(nil, ByeScore, NoColor)

	return a, b, c, players
}

func TestComputeTiebreaks(t *testing.T) {
	a, b, c, players := twoRoundScenario()

	testCases := []struct {
		player   *Player
		expected map[string]float64
	}{
		{a, map[string]float64{
			TBMedian:          0.0, // only 2 opponents, both dropped
			TBSolkoff:         2.0,
			TBCumulative:      3.0,
			TBCumulativeOpp:   3.0,
			TBSonnebornBerger: 2.0,
			TBMostBlacks:      1.0,
		}},
		{b, map[string]float64{
			TBMedian:          0.0,
			TBSolkoff:         2.0,
			TBCumulative:      1.0,
			TBCumulativeOpp:   3.0,
			TBSonnebornBerger: 1.0, // loss counts 0, bye credits own score
			TBMostBlacks:      1.0,
		}},
		{c, map[string]float64{
			TBMedian:          0.0,
			TBSolkoff:         2.0,
			TBCumulative:      2.0,
			TBCumulativeOpp:   3.0,
			TBSonnebornBerger: 1.0,
			TBMostBlacks:      0.0,
		}},
	}

	for _, tc := range testCases {
		got := ComputeTiebreaks(tc.player, players, 4)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("%s: expected %v, got %v", tc.player.Name, tc.expected, got)
		}
	}
}

func TestMedianDropsExtremes(t *testing.T) {
	p := newTestPlayer("Pat", 1500, 1)
	players := map[string]*Player{p.ID: p}
	for i, score := range []float64{3.0, 2.0, 1.0} {
		opp := newTestPlayer("Opp", 1500, i+2)
		opp.Score = score
		players[opp.ID] = opp
		p.RecordResult(opp, DrawScore, White)
	}

	if got := medianTiebreak(p, players, 4); got != 2.0 {
		t.Errorf("expected median 2.0 after dropping 3.0 and 1.0, got %v", got)
	}
	// A 9+ round event drops two from each end; with only 3 opponents
	// everything is dropped.
	if got := medianTiebreak(p, players, 9); got != 0.0 {
		t.Errorf("expected median 0 with 2 drops per end, got %v", got)
	}
}

func TestTiebreakZeroGames(t *testing.T) {
	p := newTestPlayer("Fresh", 1500, 1)
	players := map[string]*Player{p.ID: p}

	got := ComputeTiebreaks(p, players, 4)
	for key, val := range got {
		if val != 0.0 {
			t.Errorf("%s: expected 0 for a player with no games, got %v", key, val)
		}
	}
}

func TestTiebreakIdempotence(t *testing.T) {
	a, _, _, players := twoRoundScenario()

	first := ComputeTiebreaks(a, players, 4)
	second := ComputeTiebreaks(a, players, 4)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("tiebreaks changed on unchanged history: %v vs %v", first,
			second)
	}
}

func TestKnownTiebreak(t *testing.T) {
	for _, key := range DefaultTiebreakOrder {
		if !KnownTiebreak(key) {
			t.Errorf("default order key %q not recognized", key)
		}
	}
	if KnownTiebreak("head_to_head") {
		t.Errorf("unexpected tiebreak key accepted")
	}
}
