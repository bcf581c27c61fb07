/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tourney

import "fmt"

// PairingError indicates that no legal pairing could be produced: an
// unpairable score group, an out-of-sequence round request, or a player
// count a schedule cannot accommodate. Prior tournament state is always
// left untouched when one is returned.
type PairingError struct {
	Round int
	Msg   string
}

func (e *PairingError) Error() string {
	if e.Round > 0 {
		return fmt.Sprintf("pairing round %d: %s", e.Round, e.Msg)
	}
	return "pairing: " + e.Msg
}

func pairingErrorf(round int, format string, args ...any) *PairingError {
	return &PairingError{Round: round, Msg: fmt.Sprintf(format, args...)}
}

// ValidationError indicates malformed input data: a bad player record, an
// unknown tiebreak key, or an inconsistent saved file.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "invalid: " + e.Msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StateError indicates an operation attempted out of sequence, such as
// pairing before the prior round's results are in or undoing a round that
// is not the latest.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string {
	return "state: " + e.Msg
}

func stateErrorf(format string, args ...any) *StateError {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}
