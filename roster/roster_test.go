/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registrationPage = `<html><body>
<h1>Spring Open Registration</h1>
<table id="entries">
  <thead>
    <tr><th>Name</th><th>Rating</th><th>Fed</th><th>FIDE ID</th><th>Title</th></tr>
  </thead>
  <tbody>
    <tr><td>Alice  Anders</td><td>1990</td><td>USA</td><td>12345</td><td>WFM</td></tr>
    <tr><td>Bob Briggs</td><td>1815/12</td><td>GER</td><td>67890</td><td></td></tr>
    <tr><td>Carol Chen</td><td></td><td></td><td></td><td></td></tr>
  </tbody>
</table>
</body></html>`

func TestFetchEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(registrationPage))
		}))
	defer srv.Close()

	entries, err := FetchEntries(context.Background(), nil, srv.URL)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Name: "Alice Anders", Rating: 1990,
		Federation: "USA", FideID: 12345, FideTitle: "WFM"}, entries[0])
	assert.Equal(t, "Bob Briggs", entries[1].Name)
	assert.Equal(t, 1815, entries[1].Rating)
	assert.Equal(t, 0, entries[2].Rating)
}

func TestFetchEntriesNoTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
		}))
	defer srv.Close()

	_, err := FetchEntries(context.Background(), nil, srv.URL)
	assert.Error(t, err)
}

func TestFetchEntriesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
	defer srv.Close()

	_, err := FetchEntries(context.Background(), nil, srv.URL)
	assert.Error(t, err)
}

func TestFetchAllMergesAndDedups(t *testing.T) {
	page2 := strings.Replace(registrationPage, "Carol Chen", "Dan Drake", 1)
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "two") {
				w.Write([]byte(page2))
				return
			}
			w.Write([]byte(registrationPage))
		}))
	defer srv.Close()

	entries, err := FetchAll(context.Background(), nil,
		[]string{srv.URL + "/one", srv.URL + "/two"})
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Alice Anders", "Bob Briggs", "Carol Chen",
		"Dan Drake"}, names)
}

func TestReadCSV(t *testing.T) {
	input := `name,rating,federation,fide_id,title,birth_year
Alice Anders,1990,USA,12345,WFM,1995
Bob Briggs,1815,GER,67890,,2001
Carol Chen,,,,,
`
	entries, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Name: "Alice Anders", Rating: 1990,
		Federation: "USA", FideID: 12345, FideTitle: "WFM",
		BirthYear: 1995}, entries[0])
	assert.Equal(t, 0, entries[2].Rating)
}

func TestReadCSVColumnOrder(t *testing.T) {
	input := "rating,name\n1440,Erin Ellis\n"
	entries, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Erin Ellis", entries[0].Name)
	assert.Equal(t, 1440, entries[0].Rating)
}

func TestReadCSVErrors(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
	}{
		{"empty input", ""},
		{"no name column", "rating,federation\n1500,USA\n"},
		{"header only", "name,rating\n"},
	}
	for _, tc := range testCases {
		_, err := ReadCSV(strings.NewReader(tc.input))
		assert.Error(t, err, tc.desc)
	}
}

func TestStrRatingToInt(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"1559", 1559},
		{"1559/24", 1559},
		{" 1820 ", 1820},
		{"unrated", 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, strRatingToInt(tc.input), tc.input)
	}
}
