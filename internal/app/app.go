package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jawji/dronedeck/internal/config"
	"github.com/jawji/dronedeck/internal/drone"
	"github.com/jawji/dronedeck/internal/logging"
	"github.com/jawji/dronedeck/internal/prefs"
	"github.com/jawji/dronedeck/internal/syncer"
	"github.com/jawji/dronedeck/internal/ui"
)

// Options configure the dronedeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/dronedeck/prefs.toml
	Endpoint   string        // overrides the configured controller endpoint
	Simulate   bool          // ignore any endpoint and run the simulator
	PollEvery  time.Duration // zero uses the configured interval
	LogLevel   string        // overrides the configured level
	Headless   bool          // poll and serve metrics without the dashboard
}

const metricsShutdownTimeout = 2 * time.Second

// Run boots dronedeck until the dashboard exits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	userPrefs := prefs.Load(opts.PrefsPath)

	logger, logCloser, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logCloser.Close()
	log := logger.WithField("component", "app")

	mode, err := syncer.ParseSyncMode(cfg.SyncMode)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	var metrics *syncer.Metrics
	if cfg.MetricsAddr != "" {
		metrics, err = syncer.NewMetrics(registry)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}

	s, err := syncer.New(syncer.Options{
		Initial:        InitialState(cfg, userPrefs),
		Endpoint:       cfg.Endpoint,
		SyncMode:       mode,
		RequestTimeout: cfg.RequestTimeout,
		PollInterval:   cfg.PollInterval,
		Logger:         logger,
		Metrics:        metrics,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	log.WithFields(logrus.Fields{
		"mode":     s.Mode(),
		"endpoint": cfg.Endpoint,
		"sync":     mode,
		"interval": cfg.PollInterval,
	}).Info("dronedeck starting")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.Start(runCtx); err != nil {
		return fmt.Errorf("start synchronizer: %w", err)
	}

	g, gctx := errgroup.WithContext(runCtx)

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           MetricsHandler(registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.WithField("addr", cfg.MetricsAddr).Info("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		// The dashboard exiting ends the run.
		defer cancel()
		if opts.Headless {
			<-gctx.Done()
			return nil
		}
		return ui.Run(ui.Options{
			Context:     gctx,
			Syncer:      s,
			LogPath:     cfg.LogFile,
			PrefsPath:   opts.PrefsPath,
			RefreshTick: uiRefresh(cfg.PollInterval),
		})
	})

	err = g.Wait()
	log.Info("dronedeck stopped")
	return err
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// InitialState seeds the drone snapshot from the configured identity and the
// saved dashboard preferences.
func InitialState(cfg config.Config, p prefs.Prefs) drone.State {
	st := drone.DefaultState()
	setString(&st.Status.ID, cfg.Drone.ID)
	setString(&st.Status.Name, cfg.Drone.Name)
	setString(&st.Status.Model, cfg.Drone.Model)
	setString(&st.Status.Firmware, cfg.Drone.Firmware)

	if theme := drone.Theme(p.Theme); theme.Valid() {
		st.UI.Theme = theme
	}
	st.UI.ShowGrid = p.ShowGrid
	st.UI.ShowMap = p.ShowMap
	st.UI.ShowJoystick = p.ShowJoystick
	st.UI.ShowTelemetry = p.ShowTelemetry
	return st
}

func applyOverrides(cfg *config.Config, opts Options) {
	if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if opts.Simulate {
		cfg.Endpoint = ""
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.LogLevel = level
	}
}

// uiRefresh redraws at least twice per poll so fresh data shows promptly.
func uiRefresh(poll time.Duration) time.Duration {
	if poll <= 0 {
		return ui.DefaultUIInterval
	}
	return min(poll/2, ui.DefaultUIInterval)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
