/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/swisspairing-tdbot/internal"
)

// FetchEntries downloads a registration page and extracts its player
// table. The page must contain a table whose header row names a "name"
// column; "rating", "fed", "fide id", "title", and "born"/"birth year"
// columns are picked up when present.
func FetchEntries(ctx context.Context, client *http.Client, url string) ([]Entry, error) {
	doc, err := fetchDoc(ctx, client, url)
	if err != nil {
		return nil, fmt.Errorf("roster.fetch: failed to retrieve %v: %w", url, err)
	}
	entries := extractEntries(doc)
	if len(entries) == 0 {
		return nil, fmt.Errorf("roster.fetch: no player table found at %v", url)
	}
	return entries, nil
}

// FetchAll downloads several registration pages concurrently and merges
// their entries, deduplicating by normalized name. Order is name-sorted
// so repeated imports are stable.
func FetchAll(ctx context.Context, client *http.Client, urls []string) ([]Entry, error) {
	var mu sync.Mutex
	byName := make(map[string]Entry)

	g, ctx := errgroup.WithContext(ctx)
	for _, u := range urls {
		url := u
		g.Go(func() error {
			entries, err := FetchEntries(ctx, client, url)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, e := range entries {
				if _, dup := byName[e.Name]; !dup {
					byName[e.Name] = e
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]Entry, 0, len(byName))
	for _, e := range byName {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Name < merged[j].Name
	})
	return merged, nil
}

// fetchDoc gets the HTML document at the given URL using the configured User-Agent.
func fetchDoc(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

type columnMap struct {
	name, rating, fed, fideID, title, born int
}

func extractEntries(doc *goquery.Document) []Entry {
	var entries []Entry

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols, ok := headerColumns(table)
		if !ok {
			return true
		}

		table.Find("tbody tr, tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= cols.name {
				return
			}
			name := normalizeName(cells.Eq(cols.name).Text())
			if name == "" {
				return
			}
			e := Entry{Name: name}
			if cols.rating >= 0 && cells.Length() > cols.rating {
				e.Rating = strRatingToInt(cells.Eq(cols.rating).Text())
			}
			if cols.fed >= 0 && cells.Length() > cols.fed {
				e.Federation = strings.TrimSpace(cells.Eq(cols.fed).Text())
			}
			if cols.fideID >= 0 && cells.Length() > cols.fideID {
				e.FideID = strToIntOrZero(cells.Eq(cols.fideID).Text())
			}
			if cols.title >= 0 && cells.Length() > cols.title {
				e.FideTitle = strings.TrimSpace(cells.Eq(cols.title).Text())
			}
			if cols.born >= 0 && cells.Length() > cols.born {
				e.BirthYear = strToIntOrZero(cells.Eq(cols.born).Text())
			}
			entries = append(entries, e)
		})
		return false
	})

	return entries
}

func headerColumns(table *goquery.Selection) (columnMap, bool) {
	cols := columnMap{name: -1, rating: -1, fed: -1, fideID: -1,
		title: -1, born: -1}

	header := table.Find("thead tr").First()
	if header.Length() == 0 {
		header = table.Find("tr").First()
	}
	header.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		switch strings.ToLower(strings.TrimSpace(cell.Text())) {
		case "name", "player", "player name":
			cols.name = i
		case "rating", "elo":
			cols.rating = i
		case "fed", "federation":
			cols.fed = i
		case "fide id", "fide-id", "id":
			cols.fideID = i
		case "title":
			cols.title = i
		case "born", "birth year", "yob":
			cols.born = i
		}
	})

	return cols, cols.name >= 0
}
