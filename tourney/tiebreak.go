/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import "sort"

// Result score constants.
const (
	WinScore  = 1.0
	DrawScore = 0.5
	LossScore = 0.0
	ByeScore  = 1.0
)

// Tiebreak method keys. All methods order higher-is-better.
const (
	TBMedian          = "median"
	TBSolkoff         = "solkoff"
	TBCumulative      = "cumulative"
	TBCumulativeOpp   = "cumulative_opp"
	TBSonnebornBerger = "sb"
	TBMostBlacks      = "most_blacks"
)

// DefaultTiebreakOrder is the sort order used when a tournament does not
// configure its own.
var DefaultTiebreakOrder = []string{
	TBMedian,
	TBSolkoff,
	TBCumulative,
	TBCumulativeOpp,
	TBSonnebornBerger,
	TBMostBlacks,
}

// TiebreakNames maps method keys to display names.
var TiebreakNames = map[string]string{
	TBMedian:          "Median",
	TBSolkoff:         "Solkoff",
	TBCumulative:      "Cumulative",
	TBCumulativeOpp:   "Cumulative Opp",
	TBSonnebornBerger: "Sonneborn-Berger",
	TBMostBlacks:      "Most Blacks",
}

// KnownTiebreak reports whether key names a supported tiebreak method.
func KnownTiebreak(key string) bool {
	_, ok := TiebreakNames[key]
	return ok
}

// ComputeTiebreaks evaluates every supported tiebreak for one player. All
// methods are pure functions of the players' histories; calling twice on
// unchanged state yields identical values. numRounds is the configured
// tournament length, which picks the median drop count. A player with no
// games has every value 0; bye rounds contribute 0 to opponent-dependent
// sums.
func ComputeTiebreaks(p *Player, players map[string]*Player, numRounds int) map[string]float64 {
	return map[string]float64{
		TBMedian:          medianTiebreak(p, players, numRounds),
		TBSolkoff:         solkoffTiebreak(p, players),
		TBCumulative:      cumulativeTiebreak(p),
		TBCumulativeOpp:   cumulativeOppTiebreak(p, players),
		TBSonnebornBerger: sonnebornBergerTiebreak(p, players),
		TBMostBlacks:      float64(p.NumBlackGames),
	}
}

// opponentScores returns the final scores of opponents actually faced,
// skipping byes and opponents missing from the player set.
func opponentScores(p *Player, players map[string]*Player) []float64 {
	var scores []float64
	for _, opp := range p.Opponents(players) {
		if opp != nil {
			scores = append(scores, opp.Score)
		}
	}
	return scores
}

// medianTiebreak (Harkness) sums opponents' final scores after dropping
// extremes from both ends: one each for events up to 8 rounds, two each
// for longer events.
func medianTiebreak(p *Player, players map[string]*Player, numRounds int) float64 {
	drops := 1
	if numRounds >= 9 {
		drops = 2
	}
	scores := opponentScores(p, players)
	if len(scores) <= 2*drops {
		return 0.0
	}
	sort.Float64s(scores)
	total := 0.0
	for _, s := range scores[drops : len(scores)-drops] {
		total += s
	}
	return total
}

// solkoffTiebreak sums opponents' final scores with no dropping.
func solkoffTiebreak(p *Player, players map[string]*Player) float64 {
	total := 0.0
	for _, s := range opponentScores(p, players) {
		total += s
	}
	return total
}

// cumulativeTiebreak sums the player's own running score snapshots,
// rewarding early wins.
func cumulativeTiebreak(p *Player) float64 {
	total := 0.0
	for _, s := range p.RunningScores {
		total += s
	}
	return total
}

// cumulativeOppTiebreak sums each faced opponent's cumulative value.
func cumulativeOppTiebreak(p *Player, players map[string]*Player) float64 {
	total := 0.0
	for _, opp := range p.Opponents(players) {
		if opp != nil {
			total += cumulativeTiebreak(opp)
		}
	}
	return total
}

// sonnebornBergerTiebreak sums opponents' final scores weighted by the
// result: full for a win, half for a draw, nothing for a loss. A bye
// credits the player's own final score at full weight; see the package
// docs for the caveat on that rule.
func sonnebornBergerTiebreak(p *Player, players map[string]*Player) float64 {
	total := 0.0
	opps := p.Opponents(players)
	for i, opp := range opps {
		if i >= len(p.Results) {
			break
		}
		if p.OpponentIDs[i] == nil {
			total += p.Score
			continue
		}
		if opp == nil {
			continue
		}
		switch p.Results[i] {
		case WinScore:
			total += opp.Score
		case DrawScore:
			total += 0.5 * opp.Score
		}
	}
	return total
}
