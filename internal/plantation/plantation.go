// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

/*
Package plantation implements the plantation data dashboard core.

It loads a tabular CSV file of daily plantation records (date, planted,
cut), aggregates them into monthly sums, and answers exact-date queries
with summary totals. The package is a read-only pipeline over an in-memory
table: the file is parsed once at startup and never written.

# Architecture

  - Entry: one CSV row, parsed and typed.
  - Aggregation: pure functions over []Entry (monthly sums, date filter).
  - Transport: a chi handler set in http.go renders the results as JSON.
*/
package plantation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// # Domain Entities

// Entry is a single daily plantation record.
type Entry struct {
	Date    time.Time `json:"date"`
	Planted int       `json:"planted"`
	Cut     int       `json:"cut"`
}

// MonthlyTotal is the aggregate of all entries within one calendar month.
type MonthlyTotal struct {
	Month   string `json:"month"` // YYYY-MM
	Planted int    `json:"planted"`
	Cut     int    `json:"cut"`
}

// Summary holds the totals for a filtered set of entries.
type Summary struct {
	TotalPlanted int `json:"total_planted"`
	TotalCut     int `json:"total_cut"`
	Count        int `json:"count"`
}

// entryDateLayouts are the accepted date shapes in the CSV, tried in order.
var entryDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// # CSV Loading

/*
Load parses the plantation CSV at path.

Description: The file must carry a header naming at least the columns
date, planted, and cut (any order, case-insensitive). Malformed rows are
rejected with positional errors rather than skipped, so a bad file is
caught at startup instead of silently producing wrong aggregates.

Returns:
  - []Entry: All rows, in file order
  - error: Open, header, or row parse failures
*/
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("plantation: open %s: %w", path, err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads CSV content from r. Split from [Load] so tests can feed
// in-memory data.
func Parse(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("plantation: read header: %w", err)
	}

	dateCol, plantedCol, cutCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "planted":
			plantedCol = i
		case "cut":
			cutCol = i
		}
	}
	if dateCol < 0 || plantedCol < 0 || cutCol < 0 {
		return nil, fmt.Errorf("plantation: header must contain date, planted, cut columns, got %v", header)
	}

	entries := []Entry{}
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("plantation: row %d: %w", row, err)
		}

		date, err := parseEntryDate(fields[dateCol])
		if err != nil {
			return nil, fmt.Errorf("plantation: row %d: %w", row, err)
		}

		planted, err := strconv.Atoi(strings.TrimSpace(fields[plantedCol]))
		if err != nil {
			return nil, fmt.Errorf("plantation: row %d: planted %q is not a number", row, fields[plantedCol])
		}

		cut, err := strconv.Atoi(strings.TrimSpace(fields[cutCol]))
		if err != nil {
			return nil, fmt.Errorf("plantation: row %d: cut %q is not a number", row, fields[cutCol])
		}

		entries = append(entries, Entry{Date: date, Planted: planted, Cut: cut})
	}

	return entries, nil
}

func parseEntryDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not a recognized date", raw)
}

// # Aggregation

// MonthlyTotals sums planted and cut per calendar month over the full
// dataset, sorted by month ascending.
func MonthlyTotals(entries []Entry) []MonthlyTotal {
	byMonth := map[string]*MonthlyTotal{}
	for _, entry := range entries {
		month := entry.Date.Format("2006-01")
		total, exists := byMonth[month]
		if !exists {
			total = &MonthlyTotal{Month: month}
			byMonth[month] = total
		}
		total.Planted += entry.Planted
		total.Cut += entry.Cut
	}

	totals := make([]MonthlyTotal, 0, len(byMonth))
	for _, total := range byMonth {
		totals = append(totals, *total)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Month < totals[j].Month
	})
	return totals
}

// ByDate returns the entries whose calendar date matches day exactly,
// ignoring any time-of-day component.
func ByDate(entries []Entry, day time.Time) []Entry {
	y, m, d := day.Date()

	matched := []Entry{}
	for _, entry := range entries {
		ey, em, ed := entry.Date.Date()
		if ey == y && em == m && ed == d {
			matched = append(matched, entry)
		}
	}
	return matched
}

// Summarize computes the totals block for a (typically date-filtered) set
// of entries.
func Summarize(entries []Entry) Summary {
	summary := Summary{Count: len(entries)}
	for _, entry := range entries {
		summary.TotalPlanted += entry.Planted
		summary.TotalCut += entry.Cut
	}
	return summary
}
