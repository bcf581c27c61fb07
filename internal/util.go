/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// ScoreToString renders a chess score with the conventional half-point
// glyph, e.g. 0.5 -> "½", 2.5 -> "2½", 3.0 -> "3".
func ScoreToString(score float64) string {
	whole := math.Floor(score)
	frac := score - whole
	switch {
	case frac == 0.5 && whole == 0:
		return "½"
	case frac == 0.5:
		return fmt.Sprintf("%v½", int(whole))
	default:
		return fmt.Sprintf("%v", int(whole))
	}
}
