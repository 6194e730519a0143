package app

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jawji/dronedeck/internal/config"
	"github.com/jawji/dronedeck/internal/drone"
	"github.com/jawji/dronedeck/internal/prefs"
	"github.com/jawji/dronedeck/internal/syncer"
)

func TestInitialState_UsesConfigAndPrefs(t *testing.T) {
	cfg := config.Default()
	cfg.Drone = config.Drone{ID: "jw-7", Name: "Scout"}
	p := prefs.Default()
	p.Theme = "light"
	p.ShowMap = false

	st := InitialState(cfg, p)
	if st.Status.ID != "jw-7" || st.Status.Name != "Scout" {
		t.Fatalf("Status = %+v, want id jw-7 name Scout", st.Status)
	}
	if st.Status.Model != drone.DefaultState().Status.Model {
		t.Fatalf("Model = %q, want default when unset", st.Status.Model)
	}
	if st.UI.Theme != drone.ThemeLight || st.UI.ShowMap || !st.UI.ShowGrid {
		t.Fatalf("UI = %+v, want light theme with map hidden", st.UI)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Endpoint = "http://drone.local/api/drone"

	applyOverrides(&cfg, Options{PollEvery: 250 * time.Millisecond, LogLevel: " debug "})
	if cfg.Endpoint != "http://drone.local/api/drone" {
		t.Fatalf("Endpoint = %q, want configured endpoint kept", cfg.Endpoint)
	}
	if cfg.PollInterval != 250*time.Millisecond || cfg.LogLevel != "debug" {
		t.Fatalf("cfg = %+v, want poll 250ms level debug", cfg)
	}

	applyOverrides(&cfg, Options{Endpoint: " http://10.0.0.9/api/drone "})
	if cfg.Endpoint != "http://10.0.0.9/api/drone" {
		t.Fatalf("Endpoint = %q, want flag override", cfg.Endpoint)
	}

	applyOverrides(&cfg, Options{Endpoint: "http://ignored", Simulate: true})
	if !cfg.Simulated() {
		t.Fatalf("Simulated() = false, want -simulate to win")
	}
}

func TestUIRefresh(t *testing.T) {
	if got := uiRefresh(0); got != 500*time.Millisecond {
		t.Fatalf("uiRefresh(0) = %v, want 500ms", got)
	}
	if got := uiRefresh(200 * time.Millisecond); got != 100*time.Millisecond {
		t.Fatalf("uiRefresh(200ms) = %v, want 100ms", got)
	}
	if got := uiRefresh(5 * time.Second); got != 500*time.Millisecond {
		t.Fatalf("uiRefresh(5s) = %v, want 500ms cap", got)
	}
}

func TestMetricsHandler_ServesSyncerMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := syncer.NewMetrics(registry)
	if err != nil {
		t.Fatalf("NewMetrics returned error: %v", err)
	}
	s, err := syncer.New(syncer.Options{Initial: drone.DefaultState(), Seed: 3, Metrics: metrics})
	if err != nil {
		t.Fatalf("syncer.New returned error: %v", err)
	}
	defer s.Close()
	if err := s.Poll(context.Background()); err != nil {
		t.Fatalf("Poll returned error: %v", err)
	}

	srv := httptest.NewServer(MetricsHandler(registry))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	for _, want := range []string{`dronedeck_polls_total{outcome="ok"} 1`, "dronedeck_battery_percent"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestRun_HeadlessStopsWithContext(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logPath := filepath.Join(home, "state", "dronedeck.log")
	configPath := filepath.Join(home, "config.toml")
	if err := os.WriteFile(configPath, []byte(`
poll_interval_ms = 20
log_file = "`+logPath+`"
log_level = "debug"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			ConfigPath: configPath,
			PrefsPath:  filepath.Join(home, "prefs.toml"),
			Simulate:   true,
			Headless:   true,
		})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"dronedeck starting", "mode=simulation", "dronedeck stopped"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("log missing %q:\n%s", want, data)
		}
	}
}

func TestRun_InvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`sync_mode = "carrier-pigeon"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	err := Run(context.Background(), Options{ConfigPath: path, Headless: true})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Run error = %v, want load config error", err)
	}
}
