/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import (
	"log"
	"sort"
)

// Game is one board: white against black.
type Game struct {
	White *Player
	Black *Player
}

// SwissPairings is the outcome of pairing one Swiss round.
type SwissPairings struct {
	Games []Game
	Bye   *Player

	// Floats lists players who were paired below their own score group.
	Floats []*Player

	// Repeats lists pairs meeting for a second time because their score
	// group had no legal pairing without relaxing the no-rematch rule.
	Repeats [][2]*Player
}

// PairSwissRound produces pairings for the given 1-based round number over
// the active players. played reports whether two players already met in a
// prior round. The function reads player histories but mutates nothing;
// the caller applies float markers and records results.
//
// Round 1 seeds by rating: the top half plays the bottom half with colors
// alternating down the boards. Later rounds partition players into score
// groups and match within each group, honoring color preferences and
// avoiding rematches, floating unpaired players down, and relaxing the
// no-rematch rule only when the lowest group cannot otherwise be paired.
func PairSwissRound(active []*Player, roundNum int, played func(a, b *Player) bool) (*SwissPairings, error) {
	if roundNum < 1 {
		return nil, pairingErrorf(roundNum, "round numbers start at 1")
	}
	if len(active) < 2 {
		return nil, pairingErrorf(roundNum,
			"need at least 2 active players, have %d", len(active))
	}

	ranked := make([]*Player, len(active))
	copy(ranked, active)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Seq < b.Seq
	})

	result := &SwissPairings{}
	if len(ranked)%2 == 1 {
		result.Bye = selectByePlayer(ranked)
		ranked = removePlayer(ranked, result.Bye)
		log.Printf("swiss.pair: round %d bye to %s", roundNum, result.Bye.Name)
	}

	if roundNum == 1 {
		result.Games = pairFirstRound(ranked)
		return result, nil
	}

	groups := scoreGroups(ranked)
	var carry []*Player
	for gi, group := range groups {
		floatSet := make(map[string]bool, len(carry))
		for _, p := range carry {
			floatSet[p.ID] = true
		}
		pool := append(append([]*Player(nil), carry...), group.players...)
		carry = nil

		canPair := func(a, b *Player) bool { return !played(a, b) }
		pairs, left := searchPairs(pool, canPair, floatSet)

		last := gi == len(groups)-1
		if last && len(left) > 0 {
			// The bottom group cannot float anyone further down; relax
			// the no-rematch rule and flag the repeats.
			anyPair := func(a, b *Player) bool { return true }
			pairs, left = searchPairs(pool, anyPair, floatSet)
			if len(left) > 0 {
				return nil, pairingErrorf(roundNum,
					"score group %.1f is unpairable even allowing rematches",
					group.score)
			}
			for _, pair := range pairs {
				if played(pair[0], pair[1]) {
					result.Repeats = append(result.Repeats, pair)
					log.Printf("swiss.pair: round %d forced rematch %s vs %s",
						roundNum, pair[0].Name, pair[1].Name)
				}
			}
		}

		for _, pair := range pairs {
			white, black := assignColors(pair[0], pair[1])
			result.Games = append(result.Games, Game{White: white, Black: black})
		}
		if !last {
			for _, p := range left {
				log.Printf("swiss.pair: round %d floating %s down from group %.1f",
					roundNum, p.Name, group.score)
			}
			result.Floats = append(result.Floats, left...)
			carry = left
		}
	}

	return result, nil
}

// pairFirstRound pairs by rating: the highest rated plays the (n/2+1)-th
// highest, and so on, with the top-half player taking white on every other
// board starting from board 1.
func pairFirstRound(players []*Player) []Game {
	byRating := make([]*Player, len(players))
	copy(byRating, players)
	sort.Slice(byRating, func(i, j int) bool {
		if byRating[i].Rating != byRating[j].Rating {
			return byRating[i].Rating > byRating[j].Rating
		}
		return byRating[i].Seq < byRating[j].Seq
	})

	half := len(byRating) / 2
	games := make([]Game, 0, half)
	for i := 0; i < half; i++ {
		top, bottom := byRating[i], byRating[half+i]
		if i%2 == 0 {
			games = append(games, Game{White: top, Black: bottom})
		} else {
			games = append(games, Game{White: bottom, Black: top})
		}
	}
	return games
}

// selectByePlayer picks the bye recipient: the player with the lowest
// score, then lowest rating, who has not yet had a bye. If everyone has
// had one, the lowest-ranked player takes a second bye as a last resort.
func selectByePlayer(players []*Player) *Player {
	candidates := make([]*Player, 0, len(players))
	for _, p := range players {
		if !p.HasReceivedBye {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		log.Printf("swiss.pair: all players have had a bye; assigning a second one")
		candidates = append(candidates, players...)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if a.Rating != b.Rating {
			return a.Rating < b.Rating
		}
		return a.Seq > b.Seq
	})
	return candidates[0]
}

type scoreGroup struct {
	score   float64
	players []*Player
}

// scoreGroups splits ranked players into runs of equal score, highest
// group first. ranked must already be sorted by score descending.
func scoreGroups(ranked []*Player) []scoreGroup {
	var groups []scoreGroup
	for _, p := range ranked {
		if len(groups) == 0 || groups[len(groups)-1].score != p.Score {
			groups = append(groups, scoreGroup{score: p.Score})
		}
		groups[len(groups)-1].players = append(groups[len(groups)-1].players, p)
	}
	return groups
}

// searchPairs finds a pairing of pool that minimizes the number of
// unpaired players under canPair, backtracking over candidate opponents in
// preference order. Pool order matters: earlier (higher ranked) players
// pick first, so leftovers gravitate to the bottom of the group. floatSet
// marks players carried down from a higher group; their candidate ordering
// prefers opponents who themselves floated down in earlier rounds, giving
// past down-floaters a soft chance to play up.
func searchPairs(pool []*Player, canPair func(a, b *Player) bool, floatSet map[string]bool) ([][2]*Player, []*Player) {
	if len(pool) < 2 {
		return nil, append([]*Player(nil), pool...)
	}
	first := pool[0]
	rest := pool[1:]

	var bestPairs [][2]*Player
	var bestLeft []*Player
	haveBest := false
	minLeft := len(pool) % 2

	for _, cand := range orderCandidates(first, rest, floatSet) {
		if !canPair(first, cand) {
			continue
		}
		sub := removePlayer(rest, cand)
		subPairs, subLeft := searchPairs(sub, canPair, floatSet)
		if !haveBest || len(subLeft) < len(bestLeft) {
			bestPairs = append([][2]*Player{{first, cand}}, subPairs...)
			bestLeft = subLeft
			haveBest = true
		}
		if haveBest && len(bestLeft) == minLeft {
			return bestPairs, bestLeft
		}
	}

	// Leave first unpaired; it floats unless a later pass relaxes rules.
	subPairs, subLeft := searchPairs(rest, canPair, floatSet)
	if !haveBest || len(subLeft)+1 < len(bestLeft) {
		bestPairs = subPairs
		bestLeft = append([]*Player{first}, subLeft...)
	}
	return bestPairs, bestLeft
}

// orderCandidates sorts prospective opponents for p: color-compatible
// opponents first, and for down-floaters, opponents owed a float up.
func orderCandidates(p *Player, candidates []*Player, floatSet map[string]bool) []*Player {
	ordered := make([]*Player, len(candidates))
	copy(ordered, candidates)
	weights := make(map[string]int, len(candidates))
	for _, c := range ordered {
		weights[c.ID] = candidateWeight(p, c, floatSet)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return weights[ordered[i].ID] < weights[ordered[j].ID]
	})
	return ordered
}

func candidateWeight(p, cand *Player, floatSet map[string]bool) int {
	weight := 0
	prefP, absP := p.ColorPreference()
	prefC, absC := cand.ColorPreference()
	if prefP != NoColor && prefP == prefC {
		// Both due the same color; one of them will be disappointed.
		weight += 2
		if absP && absC {
			// Pairing them would violate an absolute rule outright.
			weight += 2
		}
	}
	if floatSet[p.ID] && len(cand.FloatHistory) > 0 {
		weight--
	}
	return weight
}

// assignColors decides who plays white. Opposite or one-sided preferences
// are honored directly. When both players are due the same color, an
// absolute preference beats a soft one, then the larger color imbalance
// wins; with no preferences at all, the player with fewer whites gets
// white and ties go to the higher-ranked player (a).
func assignColors(a, b *Player) (white, black *Player) {
	prefA, absA := a.ColorPreference()
	prefB, absB := b.ColorPreference()

	if prefA != prefB {
		if prefA == White || prefB == Black {
			return a, b
		}
		return b, a
	}

	switch prefA {
	case NoColor:
		if a.colorImbalance() <= b.colorImbalance() {
			return a, b
		}
		return b, a
	case White:
		if absA && !absB {
			return a, b
		}
		if absB && !absA {
			return b, a
		}
		// More blacks played means the stronger claim to white.
		if b.colorImbalance() < a.colorImbalance() {
			return b, a
		}
		return a, b
	default: // both due black
		if absA && !absB {
			return b, a
		}
		if absB && !absA {
			return a, b
		}
		if b.colorImbalance() > a.colorImbalance() {
			return a, b
		}
		return b, a
	}
}

func removePlayer(players []*Player, target *Player) []*Player {
	out := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.ID != target.ID {
			out = append(out, p)
		}
	}
	return out
}
