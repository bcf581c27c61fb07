/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// DefaultRating is assigned to unrated players.
const DefaultRating = 1000

// Color identifies which pieces a player had in a game. NoColor marks a
// bye round.
type Color int

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	}
	return "None"
}

// Other returns the opposite color; NoColor maps to itself.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

// Colors serialize as "W", "B", or "" so saved files remain readable and
// older files using the same letters load unchanged.
func (c Color) MarshalJSON() ([]byte, error) {
	switch c {
	case White:
		return []byte(`"W"`), nil
	case Black:
		return []byte(`"B"`), nil
	}
	return []byte(`""`), nil
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unable to parse color: %w", err)
	}
	switch s {
	case "W", "White":
		*c = White
	case "B", "Black":
		*c = Black
	case "", "None":
		*c = NoColor
	default:
		return &ValidationError{Msg: fmt.Sprintf("unknown color %q", s)}
	}
	return nil
}

// FederationInfo carries optional federation metadata. It is display-only;
// nothing in the pairing logic reads it.
type FederationInfo struct {
	Federation string `json:"federation,omitempty"`
	FideID     int    `json:"fideId,omitempty"`
	FideTitle  string `json:"fideTitle,omitempty"`
	BirthYear  int    `json:"birthYear,omitempty"`
}

// Player represents one competitor: identity, rating, and the full
// per-round history. The four history slices are parallel; every round
// played (byes included) appends exactly one entry to each.
type Player struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Rating int             `json:"rating"`
	Fed    *FederationInfo `json:"federation,omitempty"`

	// Seq is the registration order, assigned by the tournament. It is
	// the final standings tie fallback so the sort is a total order.
	Seq int `json:"seq"`

	Score  float64 `json:"score"`
	Active bool    `json:"active"`

	ColorHistory  []Color   `json:"colorHistory"`
	OpponentIDs   []*string `json:"opponentIds"`
	Results       []float64 `json:"results"`
	RunningScores []float64 `json:"runningScores"`

	// FloatHistory records the 1-based round numbers in which this player
	// floated down to a lower score group.
	FloatHistory []int `json:"floatHistory,omitempty"`

	HasReceivedBye bool `json:"hasReceivedBye"`
	NumBlackGames  int  `json:"numBlackGames"`
}

// NewPlayer creates a player with a fresh id. A rating of 0 means unrated
// and is replaced by DefaultRating.
func NewPlayer(name string, rating int) *Player {
	if rating == 0 {
		rating = DefaultRating
	}
	return &Player{
		ID:     newPlayerID(),
		Name:   name,
		Rating: rating,
		Active: true,
	}
}

func newPlayerID() string {
	return "player_" + uuid.NewString()
}

// RoundsPlayed returns the number of rounds recorded for this player.
func (p *Player) RoundsPlayed() int {
	return len(p.Results)
}

// RecordResult appends one round to every history list. A nil opponent
// marks a bye; color must then be NoColor. This is the only operation that
// grows the histories, so their lengths always stay aligned.
func (p *Player) RecordResult(opp *Player, result float64, color Color) {
	var oppID *string
	if opp != nil {
		id := opp.ID
		oppID = &id
	}
	p.OpponentIDs = append(p.OpponentIDs, oppID)
	p.Results = append(p.Results, result)
	p.Score += result
	p.RunningScores = append(p.RunningScores, p.Score)
	p.ColorHistory = append(p.ColorHistory, color)
	if color == Black {
		p.NumBlackGames++
	}
	if opp == nil {
		p.HasReceivedBye = true
	}
}

// UndoLastResult removes the most recent round from every history list and
// reverses the score delta. It is the exact inverse of RecordResult.
func (p *Player) UndoLastResult() error {
	n := len(p.Results)
	if n == 0 {
		return &StateError{Msg: fmt.Sprintf("player %s has no results to undo", p.Name)}
	}
	p.Score -= p.Results[n-1]
	if p.ColorHistory[n-1] == Black {
		p.NumBlackGames--
	}
	p.OpponentIDs = p.OpponentIDs[:n-1]
	p.Results = p.Results[:n-1]
	p.RunningScores = p.RunningScores[:n-1]
	p.ColorHistory = p.ColorHistory[:n-1]

	p.HasReceivedBye = false
	for _, id := range p.OpponentIDs {
		if id == nil {
			p.HasReceivedBye = true
			break
		}
	}
	return nil
}

// playedColors returns the colors of actual games, skipping byes.
func (p *Player) playedColors() []Color {
	colors := make([]Color, 0, len(p.ColorHistory))
	for _, c := range p.ColorHistory {
		if c != NoColor {
			colors = append(colors, c)
		}
	}
	return colors
}

// LastTwoColors returns the most recent and second most recent non-bye
// colors, NoColor standing in when fewer games were played.
func (p *Player) LastTwoColors() (Color, Color) {
	colors := p.playedColors()
	switch len(colors) {
	case 0:
		return NoColor, NoColor
	case 1:
		return colors[0], NoColor
	}
	return colors[len(colors)-1], colors[len(colors)-2]
}

// ColorPreference determines the color this player is due per FIDE/USCF
// practice. The returned bool reports an absolute preference: the last two
// played games had the same color, so the opposite is mandatory. Otherwise
// the preference balances total whites against blacks and is soft; a
// perfectly balanced history yields NoColor.
func (p *Player) ColorPreference() (Color, bool) {
	last, secondLast := p.LastTwoColors()
	if last != NoColor && last == secondLast {
		return last.Other(), true
	}

	whites, blacks := 0, 0
	for _, c := range p.playedColors() {
		if c == White {
			whites++
		} else {
			blacks++
		}
	}
	if whites > blacks {
		return Black, false
	}
	if blacks > whites {
		return White, false
	}
	return NoColor, false
}

// colorImbalance is whites minus blacks over played games.
func (p *Player) colorImbalance() int {
	imbalance := 0
	for _, c := range p.playedColors() {
		if c == White {
			imbalance++
		} else {
			imbalance--
		}
	}
	return imbalance
}

// HasPlayed reports whether the player already faced the given opponent id.
func (p *Player) HasPlayed(oppID string) bool {
	for _, id := range p.OpponentIDs {
		if id != nil && *id == oppID {
			return true
		}
	}
	return false
}

// Opponents resolves the opponent id history against the given player set.
// Bye rounds yield nil entries. The slice is rebuilt on every call so there
// is no cache to invalidate on mutation.
func (p *Player) Opponents(players map[string]*Player) []*Player {
	opps := make([]*Player, len(p.OpponentIDs))
	for i, id := range p.OpponentIDs {
		if id != nil {
			opps[i] = players[*id]
		}
	}
	return opps
}

// FloatedDownIn reports whether the player floated down in the given round.
func (p *Player) FloatedDownIn(roundNum int) bool {
	for _, r := range p.FloatHistory {
		if r == roundNum {
			return true
		}
	}
	return false
}

// checkHistories verifies the parallel-history invariant.
func (p *Player) checkHistories() error {
	n := len(p.Results)
	if len(p.ColorHistory) != n || len(p.OpponentIDs) != n ||
		len(p.RunningScores) != n {
		return &ValidationError{Msg: fmt.Sprintf(
			"player %s has inconsistent histories: colors=%d opponents=%d results=%d running=%d",
			p.Name, len(p.ColorHistory), len(p.OpponentIDs), n,
			len(p.RunningScores))}
	}
	return nil
}

func (p *Player) String() string {
	status := ""
	if !p.Active {
		status = " (Inactive)"
	}
	return fmt.Sprintf("%s (%d)%s", p.Name, p.Rating, status)
}
