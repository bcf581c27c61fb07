/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store persists tournament state as JSON documents, either on
// the local filesystem or in Amazon S3.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mikeb26/swisspairing-tdbot/tourney"
)

// ErrNotFound is returned when no tournament exists under the given name.
var ErrNotFound = errors.New("tournament not found")

// Store reads and writes tournaments by name.
type Store interface {
	Load(ctx context.Context, name string) (*tourney.Tournament, error)
	Save(ctx context.Context, name string, t *tourney.Tournament) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// Open selects a backend from a location string: "s3://bucket/prefix"
// for S3, anything else is treated as a local directory.
func Open(ctx context.Context, location string) (Store, error) {
	if strings.HasPrefix(location, "s3://") {
		trimmed := strings.TrimPrefix(location, "s3://")
		bucket, prefix, _ := strings.Cut(trimmed, "/")
		if bucket == "" {
			return nil, fmt.Errorf("store.open: missing bucket in %q", location)
		}
		return NewS3Store(ctx, bucket, prefix)
	}
	return NewFileStore(location)
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("store: tournament name must not be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("store: tournament name %q must not contain path separators", name)
	}
	return nil
}
