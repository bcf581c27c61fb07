/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// CurrentFileVersion is written to every saved tournament. Older files
// are migrated forward on load; files from the future are rejected.
const CurrentFileVersion = 2

type playerRecord struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Rating        int             `json:"rating"`
	Fed           *FederationInfo `json:"fed,omitempty"`
	Seq           int             `json:"seq"`
	Score         float64         `json:"score"`
	Active        bool            `json:"active"`
	ColorHistory  []Color         `json:"color_history"`
	OpponentIDs   []*string       `json:"opponent_ids"`
	Results       []float64       `json:"results"`
	RunningScores []float64       `json:"running_scores"`
	FloatHistory  []int           `json:"float_history,omitempty"`

	// Absent from version 1 files; derived during migration.
	HasReceivedBye *bool `json:"has_received_bye,omitempty"`
	NumBlackGames  *int  `json:"num_black_games,omitempty"`
}

type tournamentFile struct {
	Version       int            `json:"version"`
	Name          string         `json:"name"`
	StartDate     time.Time      `json:"start_date,omitempty"`
	NumRounds     int            `json:"num_rounds"`
	TiebreakOrder []string       `json:"tiebreak_order"`
	Format        string         `json:"format"`
	ByeValue      float64        `json:"bye_value"`
	Players       []playerRecord `json:"players"`
	Rounds        []*Round       `json:"rounds"`

	// Player ids in schedule order, present only for round robin events
	// that have been paired; lets the schedule rebuild identically.
	RoundRobinOrder []string `json:"round_robin_order,omitempty"`
}

// Encode serializes the tournament to indented JSON at the current file
// version.
func (t *Tournament) Encode() ([]byte, error) {
	file := tournamentFile{
		Version:       CurrentFileVersion,
		Name:          t.Name,
		StartDate:     t.StartDate,
		NumRounds:     t.NumRounds,
		TiebreakOrder: t.TiebreakOrder,
		Format:        t.Format.String(),
		ByeValue:      t.ByeValue,
		Rounds:        t.rounds,
	}
	for _, p := range t.Players() {
		hasBye := p.HasReceivedBye
		numBlack := p.NumBlackGames
		file.Players = append(file.Players, playerRecord{
			ID:             p.ID,
			Name:           p.Name,
			Rating:         p.Rating,
			Fed:            p.Fed,
			Seq:            p.Seq,
			Score:          p.Score,
			Active:         p.Active,
			ColorHistory:   p.ColorHistory,
			OpponentIDs:    p.OpponentIDs,
			Results:        p.Results,
			RunningScores:  p.RunningScores,
			FloatHistory:   p.FloatHistory,
			HasReceivedBye: &hasBye,
			NumBlackGames:  &numBlack,
		})
	}
	if t.rr != nil {
		for _, p := range t.rr.Players() {
			file.RoundRobinOrder = append(file.RoundRobinOrder, p.ID)
		}
	}
	return json.MarshalIndent(&file, "", "  ")
}

// Decode loads a tournament from JSON, migrating older file versions
// forward and validating history consistency.
func Decode(data []byte) (*Tournament, error) {
	var file tournamentFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("cannot parse tournament file: %w", err)
	}
	if file.Version > CurrentFileVersion {
		return nil, validationErrorf("file version %d is newer than supported version %d",
			file.Version, CurrentFileVersion)
	}
	if file.Version < CurrentFileVersion {
		log.Printf("tourney.decode: migrating file from version %d to %d",
			file.Version, CurrentFileVersion)
	}

	format, err := ParseFormat(file.Format)
	if err != nil {
		return nil, err
	}
	if file.Name == "" {
		return nil, validationErrorf("tournament file has no name")
	}

	t := &Tournament{
		Name:          file.Name,
		StartDate:     file.StartDate,
		NumRounds:     file.NumRounds,
		TiebreakOrder: file.TiebreakOrder,
		Format:        format,
		ByeValue:      file.ByeValue,
		players:       make(map[string]*Player, len(file.Players)),
		nextSeq:       1,
		rounds:        file.Rounds,
	}
	if len(t.TiebreakOrder) == 0 {
		t.TiebreakOrder = append([]string(nil), DefaultTiebreakOrder...)
	}
	if t.ByeValue == 0 {
		t.ByeValue = ByeScore
	}

	for _, rec := range file.Players {
		p, err := decodePlayer(rec)
		if err != nil {
			return nil, err
		}
		if _, dup := t.players[p.ID]; dup {
			return nil, validationErrorf("duplicate player id %s", p.ID)
		}
		t.players[p.ID] = p
		if p.Seq >= t.nextSeq {
			t.nextSeq = p.Seq + 1
		}
	}

	for _, r := range t.rounds {
		for _, pairing := range r.Pairings {
			if _, ok := t.players[pairing.White]; !ok {
				return nil, validationErrorf("round %d references unknown player %s",
					r.Number, pairing.White)
			}
			if _, ok := t.players[pairing.Black]; !ok {
				return nil, validationErrorf("round %d references unknown player %s",
					r.Number, pairing.Black)
			}
		}
		if r.Bye != nil {
			if _, ok := t.players[*r.Bye]; !ok {
				return nil, validationErrorf("round %d bye references unknown player %s",
					r.Number, *r.Bye)
			}
		}
	}

	if format == FormatRoundRobin && len(file.RoundRobinOrder) > 0 {
		ordered := make([]*Player, 0, len(file.RoundRobinOrder))
		for _, id := range file.RoundRobinOrder {
			p, ok := t.players[id]
			if !ok {
				return nil, validationErrorf("round robin order references unknown player %s", id)
			}
			ordered = append(ordered, p)
		}
		rr, err := NewRoundRobin(ordered)
		if err != nil {
			return nil, fmt.Errorf("cannot rebuild round robin schedule: %w", err)
		}
		t.rr = rr
	}
	return t, nil
}

func decodePlayer(rec playerRecord) (*Player, error) {
	if rec.ID == "" || rec.Name == "" {
		return nil, validationErrorf("player record missing id or name")
	}
	p := &Player{
		ID:            rec.ID,
		Name:          rec.Name,
		Rating:        rec.Rating,
		Fed:           rec.Fed,
		Seq:           rec.Seq,
		Score:         rec.Score,
		Active:        rec.Active,
		ColorHistory:  rec.ColorHistory,
		OpponentIDs:   rec.OpponentIDs,
		Results:       rec.Results,
		RunningScores: rec.RunningScores,
		FloatHistory:  rec.FloatHistory,
	}
	if err := p.checkHistories(); err != nil {
		return nil, fmt.Errorf("player %s: %w", p.Name, err)
	}

	// Version 1 files predate these fields; rebuild them from history.
	if rec.HasReceivedBye != nil {
		p.HasReceivedBye = *rec.HasReceivedBye
	} else {
		for _, opp := range p.OpponentIDs {
			if opp == nil {
				p.HasReceivedBye = true
				break
			}
		}
	}
	if rec.NumBlackGames != nil {
		p.NumBlackGames = *rec.NumBlackGames
	} else {
		for _, c := range p.ColorHistory {
			if c == Black {
				p.NumBlackGames++
			}
		}
	}
	return p, nil
}
