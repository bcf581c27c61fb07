/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mikeb26/swisspairing-tdbot/config"
	"github.com/mikeb26/swisspairing-tdbot/internal"
	"github.com/mikeb26/swisspairing-tdbot/roster"
)

// this program exists just to seed the http cache with registration
// pages so later swisstd import runs hit the cache instead of the
// origin servers

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %v <url> [<url> ...]\n", os.Args[0])
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	client := internal.NewCachedHttpClient(ctx,
		time.Duration(cfg.CacheTTLMinutes)*time.Minute)

	for _, url := range os.Args[1:] {
		entries, err := roster.FetchEntries(ctx, client, url)
		time.Sleep(2 * time.Second) // avoid pegging registration servers
		if err != nil {
			// best effort
			continue
		}

		fmt.Printf("seeded %v (%v entries)\n", url, len(entries))
	}
}
