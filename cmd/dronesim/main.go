package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jawji/dronedeck/internal/drone"
	"github.com/jawji/dronedeck/internal/dronesim"
	"github.com/jawji/dronedeck/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:8000", "listen address")
	interval := flag.Duration("interval", time.Second, "simulation step interval")
	failEvery := flag.Int("fail-every", 0, "answer every Nth API request with 503 (0 disables)")
	seed := flag.Int64("seed", 0, "random seed (0 uses the clock)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	grounded := flag.Bool("grounded", false, "start disarmed on the ground")
	flag.Parse()

	logger, closer, err := logging.New(*logLevel, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "dronesim: %v\n", err)
		return 1
	}
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	initial := drone.DefaultState()
	initial.Controls.IsArmed = !*grounded
	sim := dronesim.New(dronesim.Options{
		Initial:   initial,
		Seed:      *seed,
		FailEvery: *failEvery,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           sim.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go sim.Run(ctx, *interval)

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":       *addr,
			"interval":   *interval,
			"fail_every": *failEvery,
		}).Info("drone simulator listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server failed")
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown failed")
		return 1
	}
	logger.Info("drone simulator stopped")
	return 0
}
