package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/jawji/dronedeck/internal/drone"
)

func TestHumanizeAge(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"negative", -5 * time.Second, "just now"},
		{"fresh", time.Second, "just now"},
		{"seconds", 12 * time.Second, "12s ago"},
		{"minutes", 61 * time.Second, "1m ago"},
		{"hours", 2*time.Hour + 10*time.Minute, "2h ago"},
		{"days", 49 * time.Hour, "2d ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := humanizeAge(tc.in); got != tc.want {
				t.Fatalf("humanizeAge(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCompassPoint(t *testing.T) {
	cases := map[float64]string{
		0:     "N",
		22:    "N",
		23:    "NE",
		90:    "E",
		180:   "S",
		307:   "NW",
		359.9: "N",
	}
	for heading, want := range cases {
		if got := compassPoint(heading); got != want {
			t.Fatalf("compassPoint(%v) = %q, want %q", heading, got, want)
		}
	}
}

func TestGauge(t *testing.T) {
	if got := gauge(50, 10); got != "█████░░░░░" {
		t.Fatalf("gauge(50,10) = %q", got)
	}
	if got := gauge(150, 4); got != "████" {
		t.Fatalf("gauge(150,4) = %q, want full", got)
	}
	if got := gauge(-3, 4); got != "░░░░" {
		t.Fatalf("gauge(-3,4) = %q, want empty", got)
	}
	if got := gauge(50, 0); got != "" {
		t.Fatalf("gauge(50,0) = %q, want empty", got)
	}
}

func TestSignalBars(t *testing.T) {
	if got := signalBars(92); got != "▂▄▆█" {
		t.Fatalf("signalBars(92) = %q", got)
	}
	if got := signalBars(30); got != "▂▄  " {
		t.Fatalf("signalBars(30) = %q", got)
	}
	if got := signalBars(0); got != "    " {
		t.Fatalf("signalBars(0) = %q", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("/home/pilot/.local/state/dronedeck/dronedeck.log", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("truncateMiddle length = %d, want 20 (%q)", len([]rune(got)), got)
	}
	if !strings.HasPrefix(got, "/home") || !strings.HasSuffix(got, "ck.log") {
		t.Fatalf("truncateMiddle = %q, want both ends kept", got)
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("emergency_stop"); got != "Emergency Stop" {
		t.Fatalf("titleCase = %q, want Emergency Stop", got)
	}
	if got := titleCase(" "); got != "" {
		t.Fatalf("titleCase blank = %q, want empty", got)
	}
}

func TestAxisBar(t *testing.T) {
	if got := axisBar(nil); got != "·····|·····    0" {
		t.Fatalf("axisBar(nil) = %q", got)
	}
	if got := axisBar(drone.Ptr(100)); got != "·····|█████ +100" {
		t.Fatalf("axisBar(100) = %q", got)
	}
	if got := axisBar(drone.Ptr(-50)); got != "···██|·····  -50" {
		t.Fatalf("axisBar(-50) = %q", got)
	}
}

func TestViewfinder(t *testing.T) {
	plain := viewfinder(9, 5, false)
	if len(plain) != 5 {
		t.Fatalf("viewfinder rows = %d, want 5", len(plain))
	}
	if plain[0] != "┌───────┐" || plain[4] != "└───────┘" {
		t.Fatalf("viewfinder border = %q / %q", plain[0], plain[4])
	}
	if plain[2] != "│   +   │" {
		t.Fatalf("viewfinder crosshair row = %q", plain[2])
	}

	grid := strings.Join(viewfinder(12, 7, true), "\n")
	if strings.Contains(grid, "+") {
		t.Fatalf("grid viewfinder should not draw the crosshair:\n%s", grid)
	}
	if strings.Count(grid, "┼") != 4 {
		t.Fatalf("grid viewfinder intersections = %d, want 4:\n%s", strings.Count(grid, "┼"), grid)
	}
}
