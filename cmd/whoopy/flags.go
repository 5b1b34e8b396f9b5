package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/whoopy/internal/client/whoop"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", time.DateOnly}

// parseTime accepts RFC 3339 timestamps and local dates or minutes.
func parseTime(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
}

func parseKind(s string, allowUser bool) (whoop.Kind, error) {
	kind, ok := whoop.ParseKind(s)
	if !ok || (kind == whoop.KindUser && !allowUser) {
		return "", fmt.Errorf("unknown kind %q: want one of %v", s, whoop.Kinds())
	}
	return kind, nil
}

// rangeFlags are the collection filters shared by list and export.
type rangeFlags struct {
	start string
	end   string
	since time.Duration
	limit int
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.start, "start", "", "earliest record start, inclusive")
	flags.StringVar(&f.end, "end", "", "latest record start, exclusive")
	flags.DurationVar(&f.since, "since", 0, "shorthand for --start now minus the duration")
	flags.IntVar(&f.limit, "limit", 0, fmt.Sprintf("page size, at most %d", whoop.MaxLimit))
}

func (f *rangeFlags) params(now time.Time) (whoop.ListParams, error) {
	params := whoop.ListParams{Limit: f.limit}

	switch {
	case f.start != "" && f.since != 0:
		return params, fmt.Errorf("--start and --since are mutually exclusive")
	case f.start != "":
		start, err := parseTime(f.start)
		if err != nil {
			return params, err
		}
		params.Start = &start
	case f.since != 0:
		start := now.Add(-f.since)
		params.Start = &start
	}

	if f.end != "" {
		end, err := parseTime(f.end)
		if err != nil {
			return params, err
		}
		params.End = &end
	}
	return params, nil
}
