// Command fleetsim runs the fuel fleet delivery simulator: a fixed-interval
// engine ticking a small truck fleet through assignment, delivery, uplifting
// and back, with alerts, loss accounting and telemetry fan-out.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/fueltrace/fleetsim/internal/config"
	"github.com/fueltrace/fleetsim/internal/dispatcher"
	"github.com/fueltrace/fleetsim/internal/influx"
	"github.com/fueltrace/fleetsim/internal/logging"
	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/fueltrace/fleetsim/internal/monitor"
	"github.com/fueltrace/fleetsim/internal/rng"
	"github.com/fueltrace/fleetsim/internal/sim"
	"github.com/fueltrace/fleetsim/internal/storage"
)

// Version can be set at build time via ldflags.
var Version = "dev"

const appName = "fleetsim"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "zones" {
		printZones()
		return
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fleetsim:", err)
		os.Exit(1)
	}
}

func run() error {
	sessionStart := time.Now().UTC()

	configDir := "."
	if v := os.Getenv("FLEETSIM_CONFIG_DIR"); v != "" {
		configDir = v
	}
	if err := config.Load(configDir); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	logPath := logging.LogFilePath(logsDir, appName, sessionStart)
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	sess := newSession(sessionStart)
	session := &sess
	logManager := logging.NewSlogManager()
	logManager.Setup(logFile, config.GetString("logLevel"), func() []slog.Attr {
		return []slog.Attr{slog.String("sessionId", session.ID)}
	})
	logger := logManager.Logger()
	logger.Info("Starting fleetsim", "version", Version, "configDir", configDir)

	graylogAddr := ""
	if g := config.Graylog(); g.Enabled {
		graylogAddr = g.Address
	}
	opsLogger, err := logging.NewOpsLogger(logFile, config.GetString("logLevel"), graylogAddr)
	if err != nil {
		return fmt.Errorf("setting up ops logger: %w", err)
	}

	// Influx sink, optional
	var influxMgr *influx.Manager
	if config.Influx().Enabled {
		backupPath := logging.LogFilePath(logsDir, appName+".influx_backup", sessionStart) + ".gz"
		influxMgr = influx.NewManager(opsLogger, backupPath)
		if err := influxMgr.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable, continuing without metrics sink", "error", err)
			influxMgr = nil
		} else {
			defer influxMgr.Close()
		}
	}

	// Session recorder
	backend, err := storage.NewBackend(config.Storage())
	if err != nil {
		return fmt.Errorf("creating storage backend: %w", err)
	}
	if backend != nil {
		if err := backend.Init(); err != nil {
			return fmt.Errorf("initializing storage backend: %w", err)
		}
		defer backend.Close()
		if err := backend.StartSession(session); err != nil {
			return fmt.Errorf("starting session: %w", err)
		}
	}

	// Engine
	simCfg := config.Sim()
	params := sim.DefaultParams()
	if simCfg.TickIntervalMs > 0 {
		params.TickInterval = simCfg.TickInterval()
	}
	source := rng.Default()
	if simCfg.Seed != 0 {
		source = rng.New(simCfg.Seed)
	}
	var recorder sim.Recorder
	if backend != nil {
		recorder = backend
	}
	engine, err := sim.New(sim.Config{
		Params:     params,
		Rand:       source,
		Logger:     logger,
		Recorder:   recorder,
		FeedBuffer: simCfg.FeedBuffer,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	// Command surface
	disp, err := dispatcher.New(logging.NewDispatcherLogger(opsLogger))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	registerCommands(disp, engine)

	// Status monitor
	mon := monitor.NewService(monitor.Dependencies{
		Engine:     engine,
		LogManager: logManager,
		Influx:     influxMgr,
		StatusFile: config.GetString("statusFile"),
		Interval:   time.Second,
	})
	if err := mon.Start(); err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}
	defer mon.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine.Start(ctx)
	defer engine.Stop()

	// Alert fan-out to influx
	go pumpAlerts(ctx, engine, influxMgr, logger)
	// Periodic telemetry fan-out to influx
	go pumpTelemetry(ctx, engine, influxMgr)
	// Control commands from stdin
	go readCommands(ctx, disp, logger)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Shutting down", "signal", s.String())

	cancel()
	engine.Stop()
	mon.Stop()

	if backend != nil {
		if err := backend.EndSession(); err != nil {
			logger.Error("Session export failed", "error", err)
		} else if exp, ok := backend.(storage.Exportable); ok {
			logger.Info("Session exported", "path", exp.LastExportPath())
		}
	}
	return nil
}

// pumpAlerts forwards live alerts to the InfluxDB alerts bucket.
func pumpAlerts(ctx context.Context, engine *sim.Engine, mgr *influx.Manager, logger *slog.Logger) {
	feed := engine.AlertFeed()
	for {
		select {
		case <-ctx.Done():
			return
		case a, ok := <-feed:
			if !ok {
				return
			}
			if mgr == nil {
				continue
			}
			if err := mgr.WritePoint(ctx, influx.BucketAlerts, influx.AlertPoint(a)); err != nil {
				logger.Error("writing alert point", "error", err)
			}
		}
	}
}

// pumpTelemetry writes a telemetry point per truck every few seconds.
func pumpTelemetry(ctx context.Context, engine *sim.Engine, mgr *influx.Manager) {
	if mgr == nil {
		return
	}
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, t := range engine.Trucks() {
				_ = mgr.WritePoint(ctx, influx.BucketTelemetry, influx.TruckPoint(t))
			}
		}
	}
}

func newSession(start time.Time) model.Session {
	return model.Session{
		ID:        uuid.NewString(),
		Name:      appName,
		StartTime: start,
		Seed:      config.Sim().Seed,
	}
}
