package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/forgeplanner/core/internal/adapters/repository"
	"github.com/forgeplanner/core/internal/adapters/storage"
	"github.com/forgeplanner/core/internal/application/services"
	"github.com/forgeplanner/core/internal/infrastructure/clock"
	"github.com/forgeplanner/core/internal/infrastructure/config"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// app is everything a command needs, wired from the loaded configuration.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	clock   ports.Clock
	backend *storage.Backend
	store   ports.KVStore

	tasks *services.TaskService
	brain *services.BrainHealthService
	money *services.MoneyService
	focus *services.FocusService
	auth  *services.AuthService
}

// bootstrap loads configuration, opens the store and builds the services. When reg is
// not nil the store is instrumented and its metrics registered there.
func bootstrap(ctx context.Context, cmd *cobra.Command, reg prometheus.Registerer) (*app, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	store := backend.Store
	if reg != nil {
		store = storage.Instrument(store, storage.NewMetrics(reg))
	}

	clk := clock.Real{}
	a := &app{
		cfg:     cfg,
		log:     appLogger,
		clock:   clk,
		backend: backend,
		store:   store,
		tasks:   services.NewTaskService(repository.NewTaskRepository(store, appLogger), clk, appLogger),
		brain:   services.NewBrainHealthService(repository.NewBrainHealthRepository(store, appLogger), clk, appLogger),
		money:   services.NewMoneyService(repository.NewMoneyRepository(store, appLogger), clk, appLogger),
		focus:   services.NewFocusService(repository.NewFocusStatsRepository(store, appLogger), appLogger),
		auth:    services.NewAuthService(cfg.JWT, clk, appLogger),
	}
	a.tasks.Load(ctx)
	return a, nil
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close storage")
	}
	_ = a.log.Close()
}

// withApp runs fn against a freshly bootstrapped app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bootstrap(ctx, cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
