package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gridmesh-network/gridmesh/internal/api"
	"github.com/gridmesh-network/gridmesh/internal/app/consensus"
	"github.com/gridmesh-network/gridmesh/internal/app/escrow"
	"github.com/gridmesh-network/gridmesh/internal/app/lifecycle"
	"github.com/gridmesh-network/gridmesh/internal/app/registry"
	"github.com/gridmesh-network/gridmesh/internal/app/staking"
	"github.com/gridmesh-network/gridmesh/internal/health"
	_ "github.com/gridmesh-network/gridmesh/internal/infra/metrics" // Register Prometheus metrics
	"github.com/gridmesh-network/gridmesh/internal/infra/sqlite"
)

// Daemon is the core GridMesh runtime. It wires together all services.
type Daemon struct {
	Config    Config
	DB        *sqlite.DB
	Registry  *registry.Service
	Staking   *staking.Engine
	Lifecycle *lifecycle.Machine
	Consensus *consensus.Engine
	Ledger    *escrow.Ledger
	Server    *api.Server
	Health    *health.Checker
	cancel    context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Storage.Dir
	if dataDir == "" {
		dataDir = gridmeshHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &Daemon{
		Config:    cfg,
		DB:        db,
		Registry:  registry.NewService(db),
		Staking:   staking.NewEngine(db),
		Lifecycle: lifecycle.NewMachine(db),
		Consensus: consensus.NewEngine(db),
		Ledger:    escrow.NewLedger(db),
		Health:    health.NewChecker(db, dataDir),
	}

	srv := api.NewServer(d.Registry, d.Staking, d.Lifecycle, d.Consensus, d.Ledger, d.Health)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}
	d.Server = srv

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Health checker (always runs)
	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("GridMesh serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
