/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roster imports player entries from registration web pages and
// CSV files.
package roster

import (
	"strconv"
	"strings"
)

// Entry is one imported registration line, not yet attached to a
// tournament.
type Entry struct {
	Name       string
	Rating     int
	Federation string
	FideID     int
	FideTitle  string
	BirthYear  int
}

func strRatingToInt(rating string) int {
	r := 0
	if rating != "" {
		// handle formats like "1559/24"
		if idx := strings.Index(rating, "/"); idx != -1 {
			rating = rating[:idx]
		}
		if v, err := strconv.Atoi(strings.TrimSpace(rating)); err == nil {
			r = v
		}
	}

	return r
}

func strToIntOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
