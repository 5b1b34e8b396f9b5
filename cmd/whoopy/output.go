package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/whoopy/internal/client/whoop"
	"github.com/garrettladley/whoopy/internal/theme"
)

const timeLayout = "2006-01-02 15:04"

func printJSON(w io.Writer, v any) error {
	data, err := go_json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func span(start time.Time, end *time.Time) string {
	s := start.Local().Format(timeLayout) + " → "
	if end == nil {
		return s + "now"
	}
	return s + end.Local().Format(timeLayout)
}

func scored(state whoop.ScoreState, score func() string) string {
	if state != whoop.ScoreStateScored {
		return string(state)
	}
	return score()
}

func cycleLine(t theme.Theme, c whoop.Cycle) string {
	value := scored(c.ScoreState, func() string {
		if c.Score == nil {
			return "-"
		}
		return fmt.Sprintf("strain %.1f  %.0f kJ", c.Score.Strain, c.Score.Kilojoule)
	})
	return fmt.Sprintf("%s  %s  %s",
		t.Colored(theme.KindColor(string(whoop.KindCycle)), strconv.FormatInt(c.ID, 10)),
		span(c.Start, c.End),
		value,
	)
}

func sleepLine(t theme.Theme, s whoop.Sleep) string {
	value := scored(s.ScoreState, func() string {
		if s.Score == nil {
			return "-"
		}
		return fmt.Sprintf("performance %.0f%%  efficiency %.0f%%",
			s.Score.SleepPerformancePercentage, s.Score.SleepEfficiencyPercentage)
	})
	label := "sleep"
	if s.Nap {
		label = "nap"
	}
	end := s.End
	return fmt.Sprintf("%s  %-5s  %s  %s",
		t.Colored(theme.KindColor(string(whoop.KindSleep)), s.ID.String()),
		label,
		span(s.Start, &end),
		value,
	)
}

func recoveryLine(t theme.Theme, r whoop.Recovery) string {
	value := scored(r.ScoreState, func() string {
		if r.Score == nil {
			return "-"
		}
		return t.Colored(theme.RecoveryColor(r.Score.RecoveryScore), fmt.Sprintf("%.0f%%", r.Score.RecoveryScore)) +
			fmt.Sprintf("  rhr %.0f  hrv %.1f ms", r.Score.RestingHeartRate, r.Score.HRVRmssdMilli)
	})
	return fmt.Sprintf("%s  %s",
		t.Colored(theme.KindColor(string(whoop.KindRecovery)), strconv.FormatInt(r.CycleID, 10)),
		value,
	)
}

func workoutLine(t theme.Theme, w whoop.Workout) string {
	value := scored(w.ScoreState, func() string {
		if w.Score == nil {
			return "-"
		}
		return fmt.Sprintf("strain %.1f  avg hr %d", w.Score.Strain, w.Score.AverageHeartRate)
	})
	end := w.End
	return fmt.Sprintf("%s  %s  %s  %s",
		t.Colored(theme.KindColor(string(whoop.KindWorkout)), w.ID.String()),
		w.SportName,
		span(w.Start, &end),
		value,
	)
}
