package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"GoToDo/internal/bootstrap"
	"GoToDo/internal/config"
	"GoToDo/internal/repo"
	"GoToDo/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:          "todoctl",
		Short:        "Administrative tool for the GoToDo database",
		Version:      fmt.Sprintf("%s (built %s)", version, buildDate),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "database DSN (overrides DATABASE_URI)")

	open := func() (*bootstrap.App, func() error, error) {
		cfg := config.FromEnv()
		if dsn != "" {
			cfg.DatabaseDSN = dsn
		}
		return bootstrap.Open(cfg, zap.NewNop().Sugar())
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, cleanup, err := open()
				if err != nil {
					return err
				}
				defer cleanup()
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Fill an empty database with demo data",
			RunE: func(cmd *cobra.Command, args []string) error {
				app, cleanup, err := open()
				if err != nil {
					return err
				}
				defer cleanup()
				seeded, err := service.SeedDemoData(cmd.Context(), app.Users, app.Lists, app.Items)
				if err != nil {
					return err
				}
				if !seeded {
					fmt.Fprintln(cmd.OutOrStdout(), "database already has users, nothing to do")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "demo user %s / %s created\n", service.DemoEmail, service.DemoPassword)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Print row counts",
			RunE: func(cmd *cobra.Command, args []string) error {
				app, cleanup, err := open()
				if err != nil {
					return err
				}
				defer cleanup()
				s, err := repo.CollectStats(cmd.Context(), app.DB)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "users:       %d\n", s.Users)
				fmt.Fprintf(out, "lists:       %d\n", s.Lists)
				fmt.Fprintf(out, "items:       %d (deleted %d)\n", s.Items, s.DeletedItems)
				fmt.Fprintf(out, "attachments: %d\n", s.Attachments)
				return nil
			},
		},
	)
	return root
}
