// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command expensa is the terminal front end of the Expensa client.
//
// Every subcommand except version runs against an [app.App] assembled from
// environment configuration before the command and closed after it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taibuivan/expensa/internal/app"
	"github.com/taibuivan/expensa/internal/platform/config"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/notify"
)

// annotationStandalone marks commands that run without an assembled client.
const annotationStandalone = "standalone"

var (
	application *app.App
	logger      *slog.Logger
	terminal    *notify.Terminal
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if application != nil {
		if closeErr := application.Close(); closeErr != nil {
			logger.Warn("app_close_failed", slog.Any("error", closeErr))
		}
	}

	if err != nil {
		var reported *shownError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "✖ %s\n", err)
		}
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   constants.AppName,
	Short: "Expense and advance tracking from the terminal",
	Long: `Expensa talks to the Expensa API: submit expenses and cash advances,
review them as an administrator, and inspect budgets and summaries.

Configuration comes from EXPENSA_* environment variables or a .env file.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationStandalone] == "true" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		level := slog.LevelWarn
		if cfg.Debug {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
			With(slog.String("app", constants.AppName))

		terminal = notify.NewTerminal(os.Stderr, logger)

		application, err = app.New(cmd.Context(), cfg, logger, app.Options{
			Notifier:  terminal,
			Navigator: terminal,
		})
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{annotationStandalone: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.AppName, constants.AppVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(expensesCmd, advancesCmd)
	rootCmd.AddCommand(usersCmd, projectsCmd, departmentsCmd)
	rootCmd.AddCommand(dashboardCmd)
}

// shownError is an error the notifier already put in front of the user.
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

// shown marks err as already reported.
func shown(err error) error {
	if err == nil {
		return nil
	}
	return &shownError{err: err}
}
