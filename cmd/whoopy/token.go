package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/whoopy/internal/storage"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect and manage the stored token",
	}
	cmd.AddCommand(tokenShowCmd(), tokenDeleteCmd(), tokenCopyCmd())
	return cmd
}

func tokenShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored token without revealing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				token, err := a.store.Load(ctx)
				if err != nil {
					return err
				}
				return printToken(a, token)
			})
		},
	}
}

func tokenDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				if err := a.store.Delete(ctx); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Token deleted")
				return nil
			})
		},
	}
}

func tokenCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <dsn>",
		Short: "Copy the stored token into another store",
		Long:  "Copies the token from the configured store into the store at <dsn>, for example sqlite:///var/lib/whoopy/token.db.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				token, err := a.store.Load(ctx)
				if err != nil {
					return err
				}

				dst, err := storage.Open(ctx, args[0])
				if err != nil {
					return err
				}
				defer func() { _ = dst.Close() }()

				if err := dst.Save(ctx, token); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Token copied")
				return nil
			})
		},
	}
}
