package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/forgeplanner/core/internal/application/services"
	"github.com/forgeplanner/core/internal/infrastructure/config"
	"github.com/forgeplanner/core/internal/infrastructure/database"
	"github.com/forgeplanner/core/internal/infrastructure/server"
	"github.com/forgeplanner/core/internal/ports"
)

// Version is stamped at build time with -ldflags.
var Version = "2.4.0"

// NewRootCommand builds the planner command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "planner",
		Short:         "Forge planner",
		Long:          `Forge keeps a task calendar with recurring tasks and quick notes, a brain health checklist, a money tracker and focus session stats.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, json or toml)")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewTaskCommand())
	rootCmd.AddCommand(NewNoteCommand())
	rootCmd.AddCommand(NewBrainCommand())
	rootCmd.AddCommand(NewMoneyCommand())
	rootCmd.AddCommand(NewFocusCommand())
	rootCmd.AddCommand(NewTokenCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Start the HTTP API server with all configured routes and middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cmd)
		},
	}
}

func runServer(ctx context.Context, cmd *cobra.Command) error {
	reg := prometheus.NewRegistry()
	a, err := bootstrap(ctx, cmd, reg)
	if err != nil {
		return err
	}
	defer a.Close()

	pinger, _ := a.store.(ports.Pinger)
	srv, err := server.New(a.cfg, server.Dependencies{
		Tasks:    a.tasks,
		Brain:    a.brain,
		Money:    a.money,
		Focus:    a.focus,
		Auth:     a.auth,
		Clock:    a.clock,
		Store:    pinger,
		Registry: reg,
	}, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	sweeper := services.NewSweeper(a.tasks, a.cfg.Tasks.SweepInterval, a.log)
	sweeper.Start()
	defer sweeper.Stop()

	go func() {
		for tasks := range a.tasks.Watch(ctx) {
			a.log.Debugw("Task collection changed", "count", len(tasks))
		}
	}()

	a.log.Infow("Starting Forge planner API",
		"port", a.cfg.Server.Port,
		"environment", a.cfg.App.Environment,
		"storage", a.cfg.Storage.Driver,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.log.Info("Server stopped")
	return nil
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the kv_store schema of the sqlite and postgres backends (up, down, version)",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return runMigration(cmd, "up", steps)
		},
	}
	upCmd.Flags().Int("steps", 0, "Number of migrations to apply (0 = all)")

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return runMigration(cmd, "down", steps)
		},
	}
	downCmd.Flags().Int("steps", 0, "Number of migrations to revert (0 = all)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(mg *database.Migrator) error {
				version, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
				return nil
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

func runMigration(cmd *cobra.Command, direction string, steps int) error {
	return withMigrator(cmd, func(mg *database.Migrator) error {
		var (
			changed bool
			err     error
		)
		if direction == "up" {
			changed, err = mg.Up(steps)
		} else {
			changed, err = mg.Down(steps)
		}
		if err != nil {
			return err
		}

		if !changed {
			fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
		}
		return nil
	})
}

func withMigrator(cmd *cobra.Command, fn func(*database.Migrator) error) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Storage)
	if err != nil {
		return err
	}
	defer db.Close()

	mg, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	defer mg.Close()

	return fn(mg)
}

// NewTokenCommand issues an API bearer token signed with the configured secret.
func NewTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				token, err := a.auth.IssueToken(subject)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
	tokenCmd.Flags().String("subject", "cli", "Token subject")
	return tokenCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the planner version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Forge planner v%s\n", Version)
		},
	}
}
