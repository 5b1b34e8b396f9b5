package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/whoopy/internal/version"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "whoopy",
		Short:        "WHOOP data from the command line",
		Version:      version.Get(),
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.Bool(flagJSON, false, "print raw JSON")
	flags.String(flagLogLevel, "", "log level (debug, info, warn, error)")
	flags.String(flagTokenStore, "", "token store DSN, overrides TOKEN_STORE")
	flags.Uint64(flagRetries, defaultRetries, "retries for rate limited, 5xx and network failures")

	rootCmd.AddCommand(
		authCmd(),
		tokenCmd(),
		profileCmd(),
		getCmd(),
		listCmd(),
		latestCmd(),
		summaryCmd(),
		exportCmd(),
	)

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
