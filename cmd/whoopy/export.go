package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/whoopy/internal/client/whoop"
	"github.com/garrettladley/whoopy/internal/xslog"
)

const defaultExportWorkers = 2

func exportCmd() *cobra.Command {
	var (
		rf      rangeFlags
		dir     string
		kinds   []string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record of each kind to <dir>/<kind>.json",
		Long:  "Fetches the full collection of each kind and writes it as a JSON array. A kind whose fetch fails part way still gets the records read before the failure.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := rf.params(time.Now())
			if err != nil {
				return err
			}
			selected := whoop.Kinds()
			if len(kinds) > 0 {
				selected = selected[:0]
				for _, k := range kinds {
					kind, err := parseKind(k, false)
					if err != nil {
						return err
					}
					selected = append(selected, kind)
				}
			}

			return run(cmd, func(ctx context.Context, a *app) error {
				client, err := a.client(ctx)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(dir, 0o700); err != nil {
					return fmt.Errorf("failed to create export directory: %w", err)
				}

				results, err := exportAll(ctx, a, client, selected, params, dir, workers)
				for _, r := range results {
					status := "ok"
					if r.err != nil {
						status = a.theme.Error(r.err.Error())
					}
					fmt.Fprintln(a.out, a.theme.Field(string(r.kind), fmt.Sprintf("%d records  %s", r.count, status)))
				}
				return err
			})
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "o", "whoop-export", "output directory")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "kinds to export, all when empty")
	cmd.Flags().IntVar(&workers, "workers", defaultExportWorkers, "kinds fetched concurrently")
	return cmd
}

type exportResult struct {
	kind  whoop.Kind
	count int
	err   error
}

// exportAll fetches every kind with at most workers in flight. Each kind
// fails independently; the joined errors are returned with all results.
func exportAll(ctx context.Context, a *app, client *whoop.Client, kinds []whoop.Kind, params whoop.ListParams, dir string, workers int) ([]exportResult, error) {
	var (
		mu      sync.Mutex
		results = make([]exportResult, len(kinds))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, kind := range kinds {
		g.Go(func() error {
			var (
				count int
				err   error
			)
			path := filepath.Join(dir, string(kind)+".json")
			switch kind {
			case whoop.KindCycle:
				count, err = exportKind[whoop.Cycle](ctx, a, client.Cycle, params, path)
			case whoop.KindSleep:
				count, err = exportKind[whoop.Sleep](ctx, a, client.Sleep, params, path)
			case whoop.KindRecovery:
				count, err = exportKind[whoop.Recovery](ctx, a, client.Recovery, params, path)
			default:
				count, err = exportKind[whoop.Workout](ctx, a, client.Workout, params, path)
			}

			mu.Lock()
			results[i] = exportResult{kind: kind, count: count, err: err}
			mu.Unlock()

			// authentication failures affect every kind
			var authErr *whoop.AuthenticationError
			if errors.As(err, &authErr) {
				return err
			}
			return nil
		})
	}

	waitErr := g.Wait()

	errs := []error{waitErr}
	for _, r := range results {
		if r.err != nil && !errors.Is(waitErr, r.err) {
			errs = append(errs, fmt.Errorf("%s: %w", r.kind, r.err))
		}
	}
	return results, errors.Join(errs...)
}

func exportKind[T any](ctx context.Context, a *app, l whoop.Lister[T], params whoop.ListParams, path string) (int, error) {
	var records []T
	err := withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
		var err error
		records, err = l.All(ctx, params)
		return err
	})

	var fetchErr *whoop.CollectionFetchError[T]
	switch {
	case errors.As(err, &fetchErr) && len(fetchErr.Records) > 0:
		records = fetchErr.Records
	case err != nil:
		return 0, err
	}

	if records == nil {
		records = []T{}
	}
	if werr := writeJSONFile(path, records); werr != nil {
		return 0, werr
	}

	xslog.FromContext(ctx).InfoContext(ctx, "exported",
		xslog.Resource(string(l.Kind())),
		xslog.Count(len(records)),
	)
	return len(records), err
}

func writeJSONFile(path string, v any) error {
	data, err := go_json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
