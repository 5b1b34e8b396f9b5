package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/garrettladley/whoopy/internal/client/whoop"
	"github.com/garrettladley/whoopy/internal/theme"
)

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the user profile and body measurements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				client, err := a.client(ctx)
				if err != nil {
					return err
				}

				var (
					profile *whoop.UserProfile
					body    *whoop.BodyMeasurement
				)
				if err := withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
					profile, err = client.User.GetProfile(ctx)
					return err
				}); err != nil {
					return err
				}
				if err := withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
					body, err = client.User.GetBodyMeasurement(ctx)
					return err
				}); err != nil {
					return err
				}

				if a.json {
					return printJSON(a.out, map[string]any{"profile": profile, "body_measurement": body})
				}
				fmt.Fprintln(a.out, a.theme.Title(profile.FirstName+" "+profile.LastName))
				fmt.Fprintln(a.out, a.theme.Field("user id", strconv.FormatInt(profile.UserID, 10)))
				fmt.Fprintln(a.out, a.theme.Field("email", profile.Email))
				fmt.Fprintln(a.out, a.theme.Field("height", fmt.Sprintf("%.2f m", body.HeightMeter)))
				fmt.Fprintln(a.out, a.theme.Field("weight", fmt.Sprintf("%.1f kg", body.WeightKilogram)))
				fmt.Fprintln(a.out, a.theme.Field("max heart rate", strconv.Itoa(body.MaxHeartRate)))
				return nil
			})
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Fetch one record",
		Long:  "Fetches one cycle, sleep, workout, or the recovery of a cycle. Cycles and recoveries take a cycle id, sleeps and workouts a UUID.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0], false)
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, a *app) error {
				client, err := a.client(ctx)
				if err != nil {
					return err
				}

				var record any
				var line string
				err = withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
					record, line, err = getRecord(ctx, a.theme, client, kind, args[1])
					return err
				})
				if err != nil {
					return err
				}
				if a.json {
					return printJSON(a.out, record)
				}
				fmt.Fprintln(a.out, line)
				return nil
			})
		},
	}
}

func getRecord(ctx context.Context, t theme.Theme, client *whoop.Client, kind whoop.Kind, id string) (any, string, error) {
	switch kind {
	case whoop.KindCycle, whoop.KindRecovery:
		cycleID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cycle id %q", id)
		}
		if kind == whoop.KindCycle {
			c, err := client.Cycle.Get(ctx, cycleID)
			if err != nil {
				return nil, "", err
			}
			return c, cycleLine(t, *c), nil
		}
		r, err := client.Recovery.Get(ctx, cycleID)
		if err != nil {
			return nil, "", err
		}
		return r, recoveryLine(t, *r), nil
	default:
		recordID, err := uuid.Parse(id)
		if err != nil {
			return nil, "", fmt.Errorf("invalid %s id %q: %w", kind, id, err)
		}
		if kind == whoop.KindSleep {
			s, err := client.Sleep.Get(ctx, recordID)
			if err != nil {
				return nil, "", err
			}
			return s, sleepLine(t, *s), nil
		}
		w, err := client.Workout.Get(ctx, recordID)
		if err != nil {
			return nil, "", err
		}
		return w, workoutLine(t, *w), nil
	}
}

func listCmd() *cobra.Command {
	var (
		rf        rangeFlags
		all       bool
		nextToken string
	)
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List records of one kind, newest first",
		Long:  "Lists cycles, sleeps, recoveries or workouts. One page is fetched unless --all is given; the cursor for the next page is printed last.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0], false)
			if err != nil {
				return err
			}
			params, err := rf.params(time.Now())
			if err != nil {
				return err
			}
			if nextToken != "" {
				if all {
					return errors.New("--next-token and --all are mutually exclusive")
				}
				params.NextToken = &nextToken
			}

			return run(cmd, func(ctx context.Context, a *app) error {
				client, err := a.client(ctx)
				if err != nil {
					return err
				}
				switch kind {
				case whoop.KindCycle:
					return listKind[whoop.Cycle](ctx, a, client.Cycle, params, all, cycleLine)
				case whoop.KindSleep:
					return listKind[whoop.Sleep](ctx, a, client.Sleep, params, all, sleepLine)
				case whoop.KindRecovery:
					return listKind[whoop.Recovery](ctx, a, client.Recovery, params, all, recoveryLine)
				default:
					return listKind[whoop.Workout](ctx, a, client.Workout, params, all, workoutLine)
				}
			})
		},
	}
	rf.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "follow cursors until every page is fetched")
	cmd.Flags().StringVar(&nextToken, "next-token", "", "cursor returned by a previous page")
	return cmd
}

type listOutput[T any] struct {
	Records   []T     `json:"records"`
	NextToken *string `json:"next_token,omitempty"`
}

func listKind[T any](ctx context.Context, a *app, l whoop.Lister[T], params whoop.ListParams, all bool, line func(theme.Theme, T) string) error {
	var (
		records []T
		next    *string
	)
	err := withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
		var err error
		records, next, err = l.Collection(ctx, params, all)
		return err
	})

	var fetchErr *whoop.CollectionFetchError[T]
	if errors.As(err, &fetchErr) {
		// print what arrived before the failing page
		records = fetchErr.Records
	} else if err != nil {
		return err
	}

	if a.json {
		if perr := printJSON(a.out, listOutput[T]{Records: records, NextToken: next}); perr != nil {
			return perr
		}
		return err
	}

	for _, r := range records {
		fmt.Fprintln(a.out, line(a.theme, r))
	}
	if next != nil {
		fmt.Fprintln(a.out, a.theme.Muted("next token: "+*next))
	}
	return err
}

func latestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest <kind>",
		Short: "Show the most recent record of one kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0], false)
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, a *app) error {
				client, err := a.client(ctx)
				if err != nil {
					return err
				}
				switch kind {
				case whoop.KindCycle:
					return latestKind[whoop.Cycle](ctx, a, client.Cycle, cycleLine)
				case whoop.KindSleep:
					return latestKind[whoop.Sleep](ctx, a, client.Sleep, sleepLine)
				case whoop.KindRecovery:
					return latestKind[whoop.Recovery](ctx, a, client.Recovery, recoveryLine)
				default:
					return latestKind[whoop.Workout](ctx, a, client.Workout, workoutLine)
				}
			})
		},
	}
}

func latestKind[T any](ctx context.Context, a *app, l whoop.Lister[T], line func(theme.Theme, T) string) error {
	var record *T
	err := withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
		var err error
		record, err = l.Latest(ctx)
		return err
	})
	if err != nil {
		return err
	}
	if a.json {
		return printJSON(a.out, record)
	}
	fmt.Fprintln(a.out, line(a.theme, *record))
	return nil
}
