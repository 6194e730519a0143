package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jawji/dronedeck/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override dashboard prefs path (optional)")
	endpoint := flag.String("endpoint", "", "drone controller base URL, e.g. http://192.168.1.10:8000/api/drone")
	simulate := flag.Bool("simulate", false, "run against the built-in simulator, ignoring any endpoint")
	pollMillis := flag.Int("poll", 0, "poll interval in milliseconds (optional, defaults to 1000)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (optional)")
	headless := flag.Bool("headless", false, "poll and serve metrics without the dashboard")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Endpoint:   *endpoint,
		Simulate:   *simulate,
		LogLevel:   *logLevel,
		Headless:   *headless,
	}
	if poll := *pollMillis; poll > 0 {
		opts.PollEvery = time.Duration(poll) * time.Millisecond
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "dronedeck: %v\n", err)
		return 1
	}
	return 0
}
