/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses roster entries from CSV. The first record must be a
// header naming at least a "name" column; "rating", "federation",
// "fide_id", "title", and "birth_year" columns are optional and may
// appear in any order.
func ReadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("roster.csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("roster.csv: cannot read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	nameIdx, ok := cols["name"]
	if !ok {
		return nil, fmt.Errorf("roster.csv: header has no name column")
	}

	field := func(rec []string, key string) string {
		idx, ok := cols[key]
		if !ok || idx >= len(rec) {
			return ""
		}
		return rec[idx]
	}

	var entries []Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("roster.csv: line %d: %w", line, err)
		}
		name := normalizeName(rec[nameIdx])
		if name == "" {
			continue
		}
		entries = append(entries, Entry{
			Name:       name,
			Rating:     strRatingToInt(field(rec, "rating")),
			Federation: strings.TrimSpace(field(rec, "federation")),
			FideID:     strToIntOrZero(field(rec, "fide_id")),
			FideTitle:  strings.TrimSpace(field(rec, "title")),
			BirthYear:  strToIntOrZero(field(rec, "birth_year")),
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("roster.csv: no entries found")
	}
	return entries, nil
}
