package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/whoopy/internal/client/whoop"
	"github.com/garrettladley/whoopy/internal/theme"
)

type summary struct {
	Cycle    *whoop.Cycle    `json:"cycle"`
	Recovery *whoop.Recovery `json:"recovery,omitempty"`
	Sleep    *whoop.Sleep    `json:"sleep,omitempty"`
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show recovery, strain and sleep for the current cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				client, err := a.client(ctx)
				if err != nil {
					return err
				}
				s, err := fetchSummary(ctx, a, client)
				if err != nil {
					return err
				}
				if a.json {
					return printJSON(a.out, s)
				}
				fmt.Fprintln(a.out, a.theme.Title("Cycle "+span(s.Cycle.Start, s.Cycle.End)))
				fmt.Fprintln(a.out, theme.Gauges(summaryGauges(s)...))
				return nil
			})
		},
	}
}

// fetchSummary reads the latest cycle, then its recovery and sleep
// concurrently. A cycle without either yet is not an error.
func fetchSummary(ctx context.Context, a *app, client *whoop.Client) (*summary, error) {
	var s summary
	if err := withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
		var err error
		s.Cycle, err = client.Cycle.Latest(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
			r, err := client.Cycle.GetRecovery(ctx, s.Cycle.ID)
			if err == nil {
				s.Recovery = r
			}
			return ignoreNotFound(err)
		})
	})
	g.Go(func() error {
		return withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
			sl, err := client.Cycle.GetSleep(ctx, s.Cycle.ID)
			if err == nil {
				s.Sleep = sl
			}
			return ignoreNotFound(err)
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

func ignoreNotFound(err error) error {
	var nf *whoop.NotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	return err
}

func summaryGauges(s *summary) []theme.Gauge {
	recovery := theme.Gauge{Max: 100, Label: "Recovery", Color: theme.ColorRecoveryBlue}
	if s.Recovery != nil && s.Recovery.Score != nil {
		v := s.Recovery.Score.RecoveryScore
		recovery.Value, recovery.Color = &v, theme.RecoveryColor(v)
	}

	strain := theme.Gauge{Max: 21, Label: "Strain", Color: theme.ColorStrain}
	if s.Cycle.Score != nil {
		v := s.Cycle.Score.Strain
		strain.Value = &v
	}

	sleep := theme.Gauge{Max: 100, Label: "Sleep", Color: theme.ColorSleep}
	if s.Sleep != nil && s.Sleep.Score != nil {
		v := s.Sleep.Score.SleepPerformancePercentage
		sleep.Value = &v
	}

	return []theme.Gauge{recovery, strain, sleep}
}
