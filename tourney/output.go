/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import (
	"fmt"
	"strings"

	"github.com/mikeb26/swisspairing-tdbot/internal"
)

// BuildPairingsOutput formats a round's pairings into aligned string output
func BuildPairingsOutput(t *Tournament, roundNum int) (string, error) {
	games, bye, err := t.RoundPairings(roundNum)
	if err != nil {
		return "", err
	}
	round := t.rounds[roundNum-1]

	var sb strings.Builder
	if round.Completed {
		sb.WriteString(fmt.Sprintf("Round %v Pairings (completed):\n\n", roundNum))
	} else {
		sb.WriteString(fmt.Sprintf("Round %v Pairings:\n\n", roundNum))
	}

	type row struct{ board, white, black string }
	var rows []row
	for idx, g := range games {
		r := row{
			board: fmt.Sprintf("%d.", idx+1),
			white: fmt.Sprintf("%s(%d %v)", g.White.Name, g.White.Rating,
				internal.ScoreToString(g.White.Score)),
			black: fmt.Sprintf("%s(%d %v)", g.Black.Name, g.Black.Rating,
				internal.ScoreToString(g.Black.Score)),
		}
		rows = append(rows, r)
	}
	if bye != nil {
		r := row{
			board: "n/a",
			white: fmt.Sprintf("%s(%d %v)", bye.Name, bye.Rating,
				internal.ScoreToString(bye.Score)),
			black: fmt.Sprintf("BYE(%v)", internal.ScoreToString(t.ByeValue)),
		}
		rows = append(rows, r)
	}

	// Compute column widths
	maxB, maxW, maxBl := len("Board"), len("White"), len("Black")
	for _, r := range rows {
		if l := len(r.board); l > maxB {
			maxB = l
		}
		if l := len(r.white); l > maxW {
			maxW = l
		}
		if l := len(r.black); l > maxBl {
			maxBl = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxB, "Board", maxW,
		"White", maxBl, "Black"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxB, r.board,
			maxW, r.white, maxBl, r.black))
	}

	return sb.String(), nil
}

// BuildStandingsOutput formats current standings into aligned string output
func BuildStandingsOutput(t *Tournament) string {
	standings := t.Standings()
	if len(standings) == 0 {
		return "No players registered"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Standings after Round %v:\n\n",
		t.CompletedRounds()))

	type row struct {
		rank, player, score string
		tbs                 []string
	}
	var rows []row
	priorScore := -1.0
	for idx, s := range standings {
		var rank string
		if idx != 0 && s.Score == priorScore &&
			sameTiebreaks(standings[idx-1], s, t.TiebreakOrder) {
			rank = ""
		} else {
			rank = fmt.Sprintf("%v.", s.Rank)
			priorScore = s.Score
		}
		name := s.Player.Name
		if !s.Player.Active {
			name += " (wd)"
		}
		r := row{
			rank:   rank,
			player: name,
			score:  internal.ScoreToString(s.Score),
		}
		for _, key := range t.TiebreakOrder {
			r.tbs = append(r.tbs, fmt.Sprintf("%.1f", s.Tiebreaks[key]))
		}
		rows = append(rows, r)
	}

	// Compute column widths
	maxP, maxN, maxS := len("Place"), len("Name"), len("Score")
	tbWidths := make([]int, len(t.TiebreakOrder))
	for i, key := range t.TiebreakOrder {
		tbWidths[i] = len(TiebreakNames[key])
	}
	for _, r := range rows {
		if l := len(r.rank); l > maxP {
			maxP = l
		}
		if l := len(r.player); l > maxN {
			maxN = l
		}
		if l := len(r.score); l > maxS {
			maxS = l
		}
		for i, tb := range r.tbs {
			if l := len(tb); l > tbWidths[i] {
				tbWidths[i] = l
			}
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s", maxP, "Place", maxN,
		"Name", maxS, "Score"))
	for i, key := range t.TiebreakOrder {
		sb.WriteString(fmt.Sprintf("  %-*s", tbWidths[i], TiebreakNames[key]))
	}
	sb.WriteString("\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s", maxP, r.rank,
			maxN, r.player, maxS, r.score))
		for i, tb := range r.tbs {
			sb.WriteString(fmt.Sprintf("  %-*s", tbWidths[i], tb))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func sameTiebreaks(a, b Standing, order []string) bool {
	for _, key := range order {
		if a.Tiebreaks[key] != b.Tiebreaks[key] {
			return false
		}
	}
	return true
}

// BuildScheduleOutput lists one player's full round robin schedule.
func BuildScheduleOutput(t *Tournament, playerID string) (string, error) {
	if t.rr == nil {
		return "", stateErrorf("no round robin schedule has been generated")
	}
	p, ok := t.players[playerID]
	if !ok {
		return "", validationErrorf("no player with id %s", playerID)
	}
	sched, err := t.rr.PlayerSchedule(p)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Schedule for %s:\n\n", p.Name))

	type row struct{ round, opp string }
	var rows []row
	for rnd, opp := range sched {
		r := row{round: fmt.Sprintf("%d.", rnd+1)}
		if opp == nil {
			r.opp = "BYE"
		} else {
			r.opp = fmt.Sprintf("%s(%d)", opp.Name, opp.Rating)
		}
		rows = append(rows, r)
	}

	maxR, maxO := len("Round"), len("Opponent")
	for _, r := range rows {
		if l := len(r.round); l > maxR {
			maxR = l
		}
		if l := len(r.opp); l > maxO {
			maxO = l
		}
	}
	sb.WriteString(fmt.Sprintf("%-*s  %-*s\n", maxR, "Round", maxO, "Opponent"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s\n", maxR, r.round, maxO, r.opp))
	}

	return sb.String(), nil
}
