package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jawji/dronedeck/internal/drone"
	"github.com/jawji/dronedeck/internal/droneapi"
	"github.com/jawji/dronedeck/internal/prefs"
	"github.com/jawji/dronedeck/internal/state"
	"github.com/jawji/dronedeck/internal/syncer"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestModel(t *testing.T, s Syncer) (Model, *testClock, string) {
	t.Helper()
	clock := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{Syncer: s, PrefsPath: prefsPath, Now: clock.now})
	m = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 60})
	return m, clock, prefsPath
}

func newSimSyncer(t *testing.T) *syncer.Synchronizer {
	t.Helper()
	s, err := syncer.New(syncer.Options{Initial: drone.DefaultState(), Seed: 7})
	if err != nil {
		t.Fatalf("syncer.New returned error: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func press(t *testing.T, m Model, keys string) (Model, tea.Cmd) {
	t.Helper()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// stubSyncer records calls and serves a fixed snapshot.
type stubSyncer struct {
	snap     state.Snapshot
	cmdErr   error
	pollErr  error
	commands []string
	sticks   []drone.JoystickInput
}

func (s *stubSyncer) Snapshot() state.Snapshot { return s.snap }

func (s *stubSyncer) Poll(context.Context) error { return s.pollErr }

func (s *stubSyncer) UpdateUISettings(u drone.UIUpdate) (state.Snapshot, error) {
	ui, err := u.Apply(s.snap.Drone.UI)
	if err != nil {
		return s.snap, err
	}
	s.snap.Drone.UI = ui
	return s.snap, nil
}

func (s *stubSyncer) UpdateMapSettings(u drone.MapUpdate) (state.Snapshot, error) {
	mp, err := u.Apply(s.snap.Drone.Map)
	if err != nil {
		return s.snap, err
	}
	s.snap.Drone.Map = mp
	return s.snap, nil
}

func (s *stubSyncer) UpdateControls(u drone.ControlsUpdate) (state.Snapshot, error) {
	c, err := u.Apply(s.snap.Drone.Controls)
	if err != nil {
		return s.snap, err
	}
	s.snap.Drone.Controls = c
	return s.snap, nil
}

func (s *stubSyncer) SendJoystickInput(in drone.JoystickInput) {
	s.sticks = append(s.sticks, in)
}

func (s *stubSyncer) SendCommand(_ context.Context, name string, _ map[string]any) (droneapi.CommandAck, error) {
	s.commands = append(s.commands, name)
	if s.cmdErr != nil {
		return droneapi.CommandAck{}, s.cmdErr
	}
	return droneapi.CommandAck{ID: "1", Command: name, Status: "accepted"}, nil
}

func TestView_LoadingUntilSized(t *testing.T) {
	m := New(Options{Syncer: newSimSyncer(t), PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() before size = %q, want Loading...", got)
	}
}

func TestView_SimulationBadges(t *testing.T) {
	m, _, _ := newTestModel(t, newSimSyncer(t))
	view := m.View()
	for _, want := range []string{"dronedeck", "SIMULATION", "CONNECTED", "Jawji One", "Flight", "Battery", "Telemetry", "Map", "Joystick"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q", want)
		}
	}
	if strings.Contains(view, "STALE") {
		t.Fatalf("View() shows STALE for a healthy simulation")
	}
}

func TestView_StaleAndDisconnected(t *testing.T) {
	st := drone.DefaultState()
	st.Status.IsConnected = false
	stub := &stubSyncer{snap: state.Snapshot{
		Drone:               st,
		Mode:                state.ModeRemote,
		LastError:           errors.New("fetch failed: connection refused"),
		ConsecutiveFailures: state.StaleAfterFailures,
	}}
	m, _, _ := newTestModel(t, stub)

	view := m.View()
	for _, want := range []string{"DISCONNECTED", "STALE", "connection refused"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q", want)
		}
	}
	if strings.Contains(view, "SIMULATION") {
		t.Fatalf("View() shows SIMULATION in remote mode")
	}
	// Last good values stay on screen.
	if !strings.Contains(view, "86.0 m") {
		t.Fatalf("View() dropped the last known altitude")
	}
}

func TestView_HiddenPanels(t *testing.T) {
	stub := &stubSyncer{snap: state.Snapshot{Drone: drone.DefaultState()}}
	stub.snap.Drone.UI.ShowMap = false
	stub.snap.Drone.UI.ShowTelemetry = false
	m, _, _ := newTestModel(t, stub)

	view := m.View()
	if strings.Contains(view, "No-fly") || strings.Contains(view, "LDIS") {
		t.Fatalf("View() renders hidden map or telemetry panel")
	}
}

func TestPanelToggle_PersistsPrefs(t *testing.T) {
	s := newSimSyncer(t)
	m, _, prefsPath := newTestModel(t, s)

	m, _ = press(t, m, "m")
	if s.Snapshot().Drone.UI.ShowMap {
		t.Fatalf("ShowMap = true after toggle, want false")
	}
	if m.snapshot.Drone.UI.ShowMap {
		t.Fatalf("model snapshot not refreshed after toggle")
	}
	got := prefs.Load(prefsPath)
	if got.ShowMap || !got.ShowGrid {
		t.Fatalf("prefs = %+v, want map hidden and grid shown", got)
	}
}

func TestCycleTheme_SavesTheme(t *testing.T) {
	s := newSimSyncer(t)
	m, _, prefsPath := newTestModel(t, s)

	m, _ = press(t, m, "T")
	if m.theme.Name != "light" {
		t.Fatalf("theme = %q, want light", m.theme.Name)
	}
	if got := s.Snapshot().Drone.UI.Theme; got != drone.ThemeLight {
		t.Fatalf("ui theme = %q, want light", got)
	}
	if got := prefs.Load(prefsPath).Theme; got != "light" {
		t.Fatalf("saved theme = %q, want light", got)
	}
}

func TestControlsAndMapKeys(t *testing.T) {
	s := newSimSyncer(t)
	m, _, _ := newTestModel(t, s)

	m, _ = press(t, m, "A")
	m, _ = press(t, m, "f")
	m, _ = press(t, m, "]")
	m, _ = press(t, m, "+")
	m, _ = press(t, m, "v")
	_, _ = press(t, m, "M")

	d := s.Snapshot().Drone
	if !d.Controls.IsArmed {
		t.Fatalf("IsArmed = false, want true")
	}
	if d.Controls.FlightMode != drone.FlightModeSport {
		t.Fatalf("FlightMode = %q, want sport", d.Controls.FlightMode)
	}
	if d.Controls.ReturnToHomeHeight != 110 {
		t.Fatalf("ReturnToHomeHeight = %v, want 110", d.Controls.ReturnToHomeHeight)
	}
	if d.Map.Zoom != 16 || d.Map.ViewStyle != drone.MapViewHybrid || d.Map.MapSize != drone.MapSizeLarge {
		t.Fatalf("Map = %+v, want zoom 16 hybrid large", d.Map)
	}
}

func TestJoystick_RequiresVisiblePanel(t *testing.T) {
	stub := &stubSyncer{snap: state.Snapshot{Drone: drone.DefaultState()}}
	m, _, _ := newTestModel(t, stub)

	m, _ = press(t, m, "J")
	m, _ = press(t, m, "w")
	if len(stub.sticks) != 0 {
		t.Fatalf("sent %d joystick samples with panel hidden, want 0", len(stub.sticks))
	}
	if f, ok := m.activeFlash(); !ok || !strings.Contains(f.text, "hidden") {
		t.Fatalf("flash = %+v, want hidden panel notice", m.flash)
	}

	m, _ = press(t, m, "J")
	m, _ = press(t, m, "w")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)

	if len(stub.sticks) != 2 {
		t.Fatalf("sent %d joystick samples, want 2", len(stub.sticks))
	}
	if got := stub.sticks[0].Throttle; got == nil || *got != stickStep {
		t.Fatalf("first sample throttle = %v, want %d", got, stickStep)
	}
	if got := stub.sticks[1].Roll; got == nil || *got != -stickStep {
		t.Fatalf("second sample roll = %v, want %d", got, -stickStep)
	}
	if m.stick.Roll == nil {
		t.Fatalf("model did not record the last stick sample")
	}
}

func TestEmergencyStop_NeedsConfirmation(t *testing.T) {
	stub := &stubSyncer{snap: state.Snapshot{Drone: drone.DefaultState()}}
	m, clock, _ := newTestModel(t, stub)

	m, cmd := press(t, m, "X")
	if cmd != nil {
		t.Fatalf("first X returned a command, want confirmation prompt")
	}

	// A second press after the window starts over.
	clock.t = clock.t.Add(EmergencyConfirmWindow + time.Second)
	m, cmd = press(t, m, "X")
	if cmd != nil {
		t.Fatalf("late second X returned a command, want a new prompt")
	}

	clock.t = clock.t.Add(time.Second)
	m, cmd = press(t, m, "X")
	if cmd == nil {
		t.Fatalf("confirmed X returned nil command")
	}
	msg := cmd()
	res, ok := msg.(commandResultMsg)
	if !ok {
		t.Fatalf("command produced %T, want commandResultMsg", msg)
	}
	if res.err != nil || res.name != drone.CommandEmergencyStop {
		t.Fatalf("result = %+v, want successful emergency_stop", res)
	}
	if len(stub.commands) != 1 || stub.commands[0] != drone.CommandEmergencyStop {
		t.Fatalf("commands = %v, want [emergency_stop]", stub.commands)
	}

	m = update(t, m, res)
	if f, ok := m.activeFlash(); !ok || f.level != flashSuccess || !strings.Contains(f.text, "Emergency Stop accepted") {
		t.Fatalf("flash = %+v, want success message", m.flash)
	}
}

func TestCommandFailure_Flashes(t *testing.T) {
	stub := &stubSyncer{
		snap:   state.Snapshot{Drone: drone.DefaultState()},
		cmdErr: &droneapi.CommandError{Command: drone.CommandTakeoff, ID: "x", Err: errors.New("status 500")},
	}
	m, _, _ := newTestModel(t, stub)

	m, cmd := press(t, m, "o")
	if cmd == nil {
		t.Fatalf("takeoff returned nil command")
	}
	m = update(t, m, cmd())

	f, ok := m.activeFlash()
	if !ok || f.level != flashDanger || !strings.Contains(f.text, "Takeoff failed") {
		t.Fatalf("flash = %+v, want takeoff failure", m.flash)
	}
}

func TestRecordAndCameraKeysPickCommand(t *testing.T) {
	stub := &stubSyncer{snap: state.Snapshot{Drone: drone.DefaultState()}}
	m, _, _ := newTestModel(t, stub)

	_, cmd := press(t, m, "R")
	cmd()
	stub.snap.Drone.Camera.IsRecording = true
	m = update(t, m, snapshotMsg(stub.snap))
	_, cmd = press(t, m, "R")
	cmd()
	_, cmd = press(t, m, "c")
	cmd()

	want := []string{drone.CommandStartRecording, drone.CommandStopRecording, drone.CommandSetCameraMode}
	if strings.Join(stub.commands, ",") != strings.Join(want, ",") {
		t.Fatalf("commands = %v, want %v", stub.commands, want)
	}
}

func TestFlashExpires(t *testing.T) {
	stub := &stubSyncer{snap: state.Snapshot{Drone: drone.DefaultState()}, pollErr: errors.New("boom")}
	m, clock, _ := newTestModel(t, stub)

	_, cmd := press(t, m, "p")
	m = update(t, m, cmd())
	if _, ok := m.activeFlash(); !ok {
		t.Fatalf("poll failure did not flash")
	}
	clock.t = clock.t.Add(FlashDuration + time.Second)
	if _, ok := m.activeFlash(); ok {
		t.Fatalf("flash still active after %v", FlashDuration)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t, newSimSyncer(t))

	m, _ = press(t, m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m, cmd := press(t, m, "q")
	if m.showHelp || cmd != nil {
		t.Fatalf("key in help should only close the overlay")
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, newSimSyncer(t))
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatalf("q returned nil command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestView_HeaderAndFooterFillWidth(t *testing.T) {
	m, _, _ := newTestModel(t, newSimSyncer(t))
	for name, out := range map[string]string{"header": m.renderHeader(), "footer": m.renderFooter()} {
		for _, line := range strings.Split(out, "\n") {
			if got := lipgloss.Width(line); got != m.width {
				t.Fatalf("%s line width = %d, want %d: %q", name, got, m.width, line)
			}
		}
	}
}
