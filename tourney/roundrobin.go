/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import "log"

// FIDE Berger tables, 0-indexed. Keyed by bracket size (the smallest even
// player count the table serves). For an odd player count the highest index
// is a phantom; its opponent each round receives the bye.
var bergerTables = map[int][][][2]int{
	4: {
		{{0, 3}, {1, 2}},
		{{3, 2}, {0, 1}},
		{{1, 3}, {2, 0}},
	},
	6: {
		{{0, 5}, {1, 4}, {2, 3}},
		{{5, 3}, {4, 2}, {0, 1}},
		{{1, 5}, {2, 0}, {3, 4}},
		{{5, 4}, {0, 3}, {1, 2}},
		{{2, 5}, {3, 1}, {4, 0}},
	},
	8: {
		{{0, 7}, {1, 6}, {2, 5}, {3, 4}},
		{{7, 4}, {5, 3}, {6, 2}, {0, 1}},
		{{1, 7}, {2, 0}, {3, 6}, {4, 5}},
		{{7, 5}, {6, 4}, {0, 3}, {1, 2}},
		{{2, 7}, {3, 1}, {4, 0}, {5, 6}},
		{{7, 6}, {0, 5}, {1, 4}, {2, 3}},
		{{3, 7}, {4, 2}, {5, 1}, {6, 0}},
	},
	10: {
		{{0, 9}, {1, 8}, {2, 7}, {3, 6}, {4, 5}},
		{{9, 5}, {6, 4}, {7, 3}, {8, 2}, {0, 1}},
		{{1, 9}, {2, 0}, {3, 8}, {4, 7}, {5, 6}},
		{{9, 6}, {7, 5}, {8, 4}, {0, 3}, {1, 2}},
		{{2, 9}, {3, 1}, {4, 0}, {5, 8}, {6, 7}},
		{{9, 7}, {8, 6}, {0, 5}, {1, 4}, {2, 3}},
		{{3, 9}, {4, 2}, {5, 1}, {6, 0}, {7, 8}},
		{{9, 8}, {0, 7}, {1, 6}, {2, 5}, {3, 4}},
		{{4, 9}, {5, 3}, {6, 2}, {7, 1}, {8, 0}},
	},
	12: {
		{{0, 11}, {1, 10}, {2, 9}, {3, 8}, {4, 7}, {5, 6}},
		{{11, 6}, {7, 5}, {8, 4}, {9, 3}, {10, 2}, {0, 1}},
		{{1, 11}, {2, 0}, {3, 10}, {4, 9}, {5, 8}, {6, 7}},
		{{11, 7}, {8, 6}, {9, 5}, {10, 4}, {0, 3}, {1, 2}},
		{{2, 11}, {3, 1}, {4, 0}, {5, 10}, {6, 9}, {7, 8}},
		{{11, 8}, {9, 7}, {10, 6}, {0, 5}, {1, 4}, {2, 3}},
		{{3, 11}, {4, 2}, {5, 1}, {6, 0}, {7, 10}, {8, 9}},
		{{11, 9}, {10, 8}, {0, 7}, {1, 6}, {2, 5}, {3, 4}},
		{{4, 11}, {5, 3}, {6, 2}, {7, 1}, {8, 0}, {9, 10}},
		{{11, 10}, {0, 9}, {1, 8}, {2, 7}, {3, 6}, {4, 5}},
		{{5, 11}, {6, 4}, {7, 3}, {8, 2}, {9, 1}, {10, 0}},
	},
	14: {
		{{0, 13}, {1, 12}, {2, 11}, {3, 10}, {4, 9}, {5, 8}, {6, 7}},
		{{13, 7}, {8, 6}, {9, 5}, {10, 4}, {11, 3}, {12, 2}, {0, 1}},
		{{1, 13}, {2, 0}, {3, 12}, {4, 11}, {5, 10}, {6, 9}, {7, 8}},
		{{13, 8}, {9, 7}, {10, 6}, {11, 5}, {12, 4}, {0, 3}, {1, 2}},
		{{2, 13}, {3, 1}, {4, 0}, {5, 12}, {6, 11}, {7, 10}, {8, 9}},
		{{13, 9}, {10, 8}, {11, 7}, {12, 6}, {0, 5}, {1, 4}, {2, 3}},
		{{3, 13}, {4, 2}, {5, 1}, {6, 0}, {7, 12}, {8, 11}, {9, 10}},
		{{13, 10}, {11, 9}, {12, 8}, {0, 7}, {1, 6}, {2, 5}, {3, 4}},
		{{4, 13}, {5, 3}, {6, 2}, {7, 1}, {8, 0}, {9, 12}, {10, 11}},
		{{13, 11}, {12, 10}, {0, 9}, {1, 8}, {2, 7}, {3, 6}, {4, 5}},
		{{5, 13}, {6, 4}, {7, 3}, {8, 2}, {9, 1}, {10, 0}, {11, 12}},
		{{13, 12}, {0, 11}, {1, 10}, {2, 9}, {3, 8}, {4, 7}, {5, 6}},
		{{6, 13}, {7, 5}, {8, 4}, {9, 3}, {10, 2}, {11, 1}, {12, 0}},
	},
	16: {
		{{0, 15}, {1, 14}, {2, 13}, {3, 12}, {4, 11}, {5, 10}, {6, 9}, {7, 8}},
		{{15, 8}, {9, 7}, {10, 6}, {11, 5}, {12, 4}, {13, 3}, {14, 2}, {0, 1}},
		{{1, 15}, {2, 0}, {3, 14}, {4, 13}, {5, 12}, {6, 11}, {7, 10}, {8, 9}},
		{{15, 9}, {10, 8}, {11, 7}, {12, 6}, {13, 5}, {14, 4}, {0, 3}, {1, 2}},
		{{2, 15}, {3, 1}, {4, 0}, {5, 14}, {6, 13}, {7, 12}, {8, 11}, {9, 10}},
		{{15, 10}, {11, 9}, {12, 8}, {13, 7}, {14, 6}, {0, 5}, {1, 4}, {2, 3}},
		{{3, 15}, {4, 2}, {5, 1}, {6, 0}, {7, 14}, {8, 13}, {9, 12}, {10, 11}},
		{{15, 11}, {12, 10}, {13, 9}, {14, 8}, {0, 7}, {1, 6}, {2, 5}, {3, 4}},
		{{4, 15}, {5, 3}, {6, 2}, {7, 1}, {8, 0}, {9, 14}, {10, 13}, {11, 12}},
		{{15, 12}, {13, 11}, {14, 10}, {0, 9}, {1, 8}, {2, 7}, {3, 6}, {4, 5}},
		{{5, 15}, {6, 4}, {7, 3}, {8, 2}, {9, 1}, {10, 0}, {11, 14}, {12, 13}},
		{{15, 13}, {14, 12}, {0, 11}, {1, 10}, {2, 9}, {3, 8}, {4, 7}, {5, 6}},
		{{6, 15}, {7, 5}, {8, 4}, {9, 3}, {10, 2}, {11, 1}, {12, 0}, {13, 14}},
		{{15, 14}, {0, 13}, {1, 12}, {2, 11}, {3, 10}, {4, 9}, {5, 8}, {6, 7}},
		{{7, 15}, {8, 6}, {9, 5}, {10, 4}, {11, 3}, {12, 2}, {13, 1}, {14, 0}},
	},
}

// MinRoundRobinPlayers and MaxRoundRobinPlayers bound the supported
// round-robin field size.
const (
	MinRoundRobinPlayers = 3
	MaxRoundRobinPlayers = 16
)

// RoundRobin is a precomputed, immutable Berger schedule over a closed
// player list. Player order is positional and must never be re-sorted; the
// table's correctness depends on the indices, not on rating or score.
type RoundRobin struct {
	players []*Player
	byeIdx  int // phantom index when the field is odd, -1 otherwise
	rounds  []rrRound
}

type rrRound struct {
	games [][2]*Player
	bye   *Player
}

// NewRoundRobin builds the full schedule eagerly from the fixed player
// order. The bracket is the smallest even size holding the field.
func NewRoundRobin(players []*Player) (*RoundRobin, error) {
	n := len(players)
	if n < MinRoundRobinPlayers || n > MaxRoundRobinPlayers {
		return nil, pairingErrorf(0,
			"round robin supports %d-%d players, got %d",
			MinRoundRobinPlayers, MaxRoundRobinPlayers, n)
	}

	bracket := n
	if n%2 == 1 {
		bracket = n + 1
	}
	table := bergerTables[bracket]

	rr := &RoundRobin{
		players: append([]*Player(nil), players...),
		byeIdx:  -1,
	}
	if n%2 == 1 {
		rr.byeIdx = bracket - 1
	}
	log.Printf("roundrobin: %d players using %d-player Berger table (%d rounds)",
		n, bracket, len(table))

	for _, tableRound := range table {
		var round rrRound
		for _, pair := range tableRound {
			a, b := pair[0], pair[1]
			if rr.byeIdx >= 0 && (a == rr.byeIdx || b == rr.byeIdx) {
				real := a
				if a == rr.byeIdx {
					real = b
				}
				round.bye = rr.players[real]
				continue
			}
			round.games = append(round.games, [2]*Player{rr.players[a], rr.players[b]})
		}
		rr.rounds = append(rr.rounds, round)
	}
	return rr, nil
}

// NumRounds returns the schedule length: bracket size minus one.
func (rr *RoundRobin) NumRounds() int {
	return len(rr.rounds)
}

// Players returns the fixed player order the schedule was built over.
func (rr *RoundRobin) Players() []*Player {
	return append([]*Player(nil), rr.players...)
}

// RoundPairings returns the precomputed games for a 1-based round number,
// white listed first in each game, plus the bye player if any.
func (rr *RoundRobin) RoundPairings(roundNum int) ([][2]*Player, *Player, error) {
	if roundNum < 1 || roundNum > len(rr.rounds) {
		return nil, nil, pairingErrorf(roundNum,
			"round robin schedule has rounds 1-%d", len(rr.rounds))
	}
	round := rr.rounds[roundNum-1]
	games := append([][2]*Player(nil), round.games...)
	return games, round.bye, nil
}

// PlayerSchedule lists (round number, opponent) for one player, nil
// opponent marking the bye round.
func (rr *RoundRobin) PlayerSchedule(p *Player) ([]*Player, error) {
	found := false
	for _, q := range rr.players {
		if q.ID == p.ID {
			found = true
			break
		}
	}
	if !found {
		return nil, validationErrorf("player %s is not in this schedule", p.Name)
	}

	schedule := make([]*Player, len(rr.rounds))
	for i, round := range rr.rounds {
		for _, game := range round.games {
			if game[0].ID == p.ID {
				schedule[i] = game[1]
				break
			}
			if game[1].ID == p.ID {
				schedule[i] = game[0]
				break
			}
		}
	}
	return schedule, nil
}
