/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package config loads process configuration for the CLI and the
// discord bot by layering defaults, an optional YAML file, and
// SWISSTD_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mikeb26/swisspairing-tdbot/tourney"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// Store locates tournament state: a local directory or s3://bucket/prefix.
	Store string `koanf:"store"`

	// DefaultRounds is used when creating a tournament without -rounds.
	DefaultRounds int `koanf:"default_rounds"`

	// Tiebreaks orders the tiebreak keys applied to standings.
	Tiebreaks []string `koanf:"tiebreaks"`

	// CacheTTLMinutes bounds how long fetched roster pages are reused.
	CacheTTLMinutes int `koanf:"cache_ttl_min"`

	// DiscordToken authenticates the announcement bot.
	DiscordToken string `koanf:"discord_token"`
}

func defaults() *Config {
	return &Config{
		Store:           defaultStoreDir(),
		DefaultRounds:   5,
		Tiebreaks:       append([]string(nil), tourney.DefaultTiebreakOrder...),
		CacheTTLMinutes: 60,
	}
}

func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".swisstd"
	}
	return home + "/.swisstd"
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults
//  2. file (YAML) if SWISSTD_CONFIG is set
//  3. env (prefix SWISSTD_)
func Load() (*Config, error) {
	base := defaults()

	k := koanf.New(".")

	if path := os.Getenv("SWISSTD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: cannot load %s: %w", path, err)
		}
	}

	// Environment variables: SWISSTD_STORE, SWISSTD_DEFAULT_ROUNDS, ...
	// Map env keys like SWISSTD_DEFAULT_ROUNDS -> default_rounds (flat keys).
	envProvider := env.Provider("SWISSTD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "swisstd_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: cannot load environment: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.DefaultRounds < 1 {
		return nil, fmt.Errorf("config: default_rounds must be positive, got %d",
			cfg.DefaultRounds)
	}
	for _, key := range cfg.Tiebreaks {
		if !tourney.KnownTiebreak(key) {
			return nil, fmt.Errorf("config: unknown tiebreak key %q", key)
		}
	}
	return &cfg, nil
}
