package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/gas2go/internal/config"
	"github.com/udisondev/gas2go/internal/data"
	"github.com/udisondev/gas2go/internal/db"
	"github.com/udisondev/gas2go/internal/game/world"
)

const ConfigPath = "config/simserver.yaml"

// saveInterval is how often actor snapshots are flushed to the database.
const saveInterval = 30 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("GAS2GO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("gas2go simulation server starting",
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate)

	library, err := data.LoadFile(cfg.ContentFile)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	// Persistence is optional: without a database the simulation runs
	// in-memory only.
	var repo *db.ActorRepository
	if cfg.Database.Enabled() {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		repo = db.NewActorRepository(database.Pool())
	}

	w := world.New(true)
	srv := newServer(w, library, repo)
	if repo != nil {
		srv.saveEvery = int(saveInterval.Seconds() / cfg.TickInterval())
	}

	for _, name := range cfg.Actors {
		if srv.SpawnActor(ctx, name) == nil {
			slog.Warn("actor not spawned", "actor", name)
		}
	}
	slog.Info("world initialized", "actors", w.Len())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting simulation loop", "interval", cfg.TickInterval())
		if err := srv.runTickLoop(gctx, cfg.TickInterval()); err != nil {
			return fmt.Errorf("simulation loop: %w", err)
		}
		return nil
	})

	if repo != nil {
		g.Go(func() error {
			slog.Info("starting persistence loop", "interval", saveInterval)
			if err := srv.runSaveLoop(gctx); err != nil {
				return fmt.Errorf("persistence loop: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
