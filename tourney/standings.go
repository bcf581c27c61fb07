/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import "sort"

// Standing is one row of the ranked standings table.
type Standing struct {
	Rank      int
	Player    *Player
	Score     float64
	Tiebreaks map[string]float64
}

// BuildStandings ranks the given players: score descending, then each
// configured tiebreak descending, then registration order as the final
// deterministic fallback. The result is a strict total order; no two
// distinct players compare equal on every key. Tiebreaks are recomputed
// from current history on every call, never cached.
func BuildStandings(players map[string]*Player, tiebreakOrder []string, numRounds int) []Standing {
	if len(tiebreakOrder) == 0 {
		tiebreakOrder = DefaultTiebreakOrder
	}

	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{
			Player:    p,
			Score:     p.Score,
			Tiebreaks: ComputeTiebreaks(p, players, numRounds),
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		for _, key := range tiebreakOrder {
			ta, tb := a.Tiebreaks[key], b.Tiebreaks[key]
			if ta != tb {
				return ta > tb
			}
		}
		return a.Player.Seq < b.Player.Seq
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
