package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/whoopy/internal/client/whoop"
	"github.com/garrettladley/whoopy/internal/oauth"
	"github.com/garrettladley/whoopy/internal/xslog"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize whoopy with WHOOP",
	}
	cmd.AddCommand(authURLCmd(), authLoginCmd(), authExchangeCmd(), authRefreshCmd(), authRevokeCmd())
	return cmd
}

func authURLCmd() *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the consent URL",
		Long:  "Prints the consent URL and the state to expect on the redirect. Finish with `whoopy auth exchange <code>`.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(_ context.Context, a *app) error {
				flow, err := a.flow()
				if err != nil {
					return err
				}
				u, used, err := flow.AuthorizationURL(state)
				if err != nil {
					return err
				}
				if a.json {
					return printJSON(a.out, map[string]string{"url": u, "state": used})
				}
				fmt.Fprintln(a.out, u)
				fmt.Fprintln(a.out, a.theme.Field("state", used))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "state to embed, generated when empty")
	return cmd
}

func authLoginCmd() *cobra.Command {
	var noBrowser bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize in the browser and store the token",
		Long:  "Listens on the loopback redirect URL, opens the consent page and stores the granted token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				flow, err := a.flow()
				if err != nil {
					return err
				}

				callback := &oauth.LocalCallback{Flow: flow, Out: cmd.ErrOrStderr()}
				if noBrowser {
					callback.Open = func(u string) error {
						_, err := fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL to continue:\n%s\n", u)
						return err
					}
				}

				token, err := callback.Run(ctx)
				if err != nil {
					return fmt.Errorf("authorization failed: %w", err)
				}
				if err := a.store.Save(ctx, token); err != nil {
					return err
				}

				a.logger.InfoContext(ctx, "stored token", xslog.Expiry(token.ExpiresAt))
				return printToken(a, token)
			})
		},
	}
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the consent URL instead of opening it")
	return cmd
}

func authExchangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exchange <code>",
		Short: "Exchange an authorization code and store the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				flow, err := a.flow()
				if err != nil {
					return err
				}
				opts, err := a.clientOptions(ctx)
				if err != nil {
					return err
				}

				client, err := whoop.Authorize(ctx, flow, args[0], append(opts, whoop.WithStore(a.store))...)
				if err != nil {
					return fmt.Errorf("authorization failed: %w", err)
				}

				profile, err := client.User.GetProfile(ctx)
				if err != nil {
					a.logger.WarnContext(ctx, "authorized, but the profile could not be read", xslog.Error(err))
					return nil
				}
				fmt.Fprintf(a.out, "Authorized as %s %s (%s)\n", profile.FirstName, profile.LastName, profile.Email)
				return nil
			})
		},
	}
}

func authRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the stored token now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				flow, err := a.flow()
				if err != nil {
					return err
				}
				current, err := a.store.Load(ctx)
				if err != nil {
					return err
				}

				var next *oauth.Token
				err = withRetry(ctx, a.retries, retryBase, func(ctx context.Context) error {
					next, err = flow.Refresh(ctx, current)
					return err
				})
				if err != nil {
					return err
				}
				if err := a.store.Save(ctx, next); err != nil {
					return err
				}
				return printToken(a, next)
			})
		},
	}
}

func authRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke",
		Short: "Revoke access with WHOOP and delete the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				client, err := a.client(ctx)
				if err != nil {
					return err
				}
				if err := client.User.RevokeAccess(ctx); err != nil {
					return err
				}
				if err := a.store.Delete(ctx); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Access revoked")
				return nil
			})
		},
	}
}

func printToken(a *app, token *oauth.Token) error {
	if a.json {
		return printJSON(a.out, map[string]any{
			"expires_at":  token.ExpiresAt,
			"scopes":      token.Scopes,
			"renewable":   token.Renewable(),
			"stale":       token.StaleAt(time.Now(), a.cfg.Whoop.RefreshMargin),
			"token_type":  token.TokenType,
			"access_hint": mask(token.AccessToken),
		})
	}

	fmt.Fprintln(a.out, a.theme.Field("access token", mask(token.AccessToken)))
	fmt.Fprintln(a.out, a.theme.Field("expires", token.ExpiresAt.Local().Format(time.RFC1123)))
	fmt.Fprintln(a.out, a.theme.Field("renewable", fmt.Sprint(token.Renewable())))
	if token.StaleAt(time.Now(), a.cfg.Whoop.RefreshMargin) {
		fmt.Fprintln(a.out, a.theme.Field("status", a.theme.Error("stale")))
	} else {
		fmt.Fprintln(a.out, a.theme.Field("status", "valid"))
	}
	if len(token.Scopes) > 0 {
		fmt.Fprintln(a.out, a.theme.Field("scopes", fmt.Sprint(token.Scopes)))
	}
	return nil
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	const visible = 4
	if len(secret) <= visible {
		return "****"
	}
	return "****" + secret[len(secret)-visible:]
}
