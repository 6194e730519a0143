package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jawji/dronedeck/internal/drone"
	"github.com/jawji/dronedeck/internal/droneapi"
	"github.com/jawji/dronedeck/internal/logtail"
	"github.com/jawji/dronedeck/internal/prefs"
	"github.com/jawji/dronedeck/internal/state"
)

// Syncer is the part of the synchronizer the dashboard drives.
type Syncer interface {
	Snapshot() state.Snapshot
	Poll(ctx context.Context) error
	UpdateUISettings(u drone.UIUpdate) (state.Snapshot, error)
	UpdateMapSettings(u drone.MapUpdate) (state.Snapshot, error)
	UpdateControls(u drone.ControlsUpdate) (state.Snapshot, error)
	SendJoystickInput(input drone.JoystickInput)
	SendCommand(ctx context.Context, name string, params map[string]any) (droneapi.CommandAck, error)
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Syncer      Syncer
	LogPath     string // tailed into the event pane; empty hides it
	PrefsPath   string
	RefreshTick time.Duration
	Now         func() time.Time
}

type flashLevel int

const (
	flashInfo flashLevel = iota
	flashSuccess
	flashDanger
)

// flash is a transient footer message.
type flash struct {
	text  string
	level flashLevel
	at    time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	sync      Syncer
	keys      keyMap
	logPath   string
	prefsPath string
	refresh   time.Duration
	now       func() time.Time

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	flash    flash

	// Data state
	snapshot state.Snapshot
	events   []logtail.Entry

	// Control state
	stopArmedAt time.Time           // first emergency stop press
	stick       drone.JoystickInput // last sample sent
	stickAt     time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	refresh := opts.RefreshTick
	if refresh <= 0 {
		refresh = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		ctx:       ctx,
		sync:      opts.Syncer,
		keys:      DefaultKeyMap(),
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		refresh:   refresh,
		now:       now,
		theme:     GetTheme(string(drone.ThemeDark)),
	}
	if m.sync != nil {
		m.setSnapshot(m.sync.Snapshot())
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.refresh),
	}
	if m.sync != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.sync))
	}
	if m.logPath != "" {
		cmds = append(cmds, loadEventsCmd(m.logPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.setSnapshot(state.Snapshot(msg))
		return m, nil

	case commandResultMsg:
		if msg.err != nil {
			m.setFlash(flashDanger, fmt.Sprintf("%s failed: %v", titleCase(msg.name), msg.err))
		} else {
			m.setFlash(flashSuccess, fmt.Sprintf("%s %s", titleCase(msg.name), msg.ack.Status))
		}
		return m, fetchSnapshotCmd(m.sync)

	case pollResultMsg:
		if msg.err != nil {
			m.setFlash(flashDanger, fmt.Sprintf("Poll failed: %v", msg.err))
		} else {
			m.setFlash(flashInfo, "Polled")
		}
		return m, fetchSnapshotCmd(m.sync)

	case eventsMsg:
		m.events = []logtail.Entry(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.sync == nil {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	k := m.keys
	d := m.snapshot.Drone
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, k.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, k.PollNow):
		return m, pollCmd(m.ctx, m.sync)

	// Panels
	case key.Matches(msg, k.ToggleGrid):
		m.updateUI(drone.UIUpdate{ShowGrid: drone.Ptr(!d.UI.ShowGrid)})
	case key.Matches(msg, k.ToggleMap):
		m.updateUI(drone.UIUpdate{ShowMap: drone.Ptr(!d.UI.ShowMap)})
	case key.Matches(msg, k.ToggleJoystick):
		m.updateUI(drone.UIUpdate{ShowJoystick: drone.Ptr(!d.UI.ShowJoystick)})
	case key.Matches(msg, k.ToggleTelemetry):
		m.updateUI(drone.UIUpdate{ShowTelemetry: drone.Ptr(!d.UI.ShowTelemetry)})

	// Flight controls
	case key.Matches(msg, k.Arm):
		m.updateControls(drone.ControlsUpdate{IsArmed: drone.Ptr(!d.Controls.IsArmed)})
	case key.Matches(msg, k.CycleMode):
		m.updateControls(drone.ControlsUpdate{FlightMode: drone.Ptr(d.Controls.FlightMode.Next())})
	case key.Matches(msg, k.ToggleGPS):
		m.updateControls(drone.ControlsUpdate{GPSMode: drone.Ptr(!d.Controls.GPSMode)})
	case key.Matches(msg, k.ToggleAvoid):
		m.updateControls(drone.ControlsUpdate{ObstacleAvoidance: drone.Ptr(!d.Controls.ObstacleAvoidance)})
	case key.Matches(msg, k.RaiseRTHHeight):
		m.updateControls(drone.ControlsUpdate{ReturnToHomeHeight: drone.Ptr(d.Controls.ReturnToHomeHeight + 10)})
	case key.Matches(msg, k.LowerRTHHeight):
		m.updateControls(drone.ControlsUpdate{ReturnToHomeHeight: drone.Ptr(d.Controls.ReturnToHomeHeight - 10)})
	case key.Matches(msg, k.Takeoff):
		cmd = m.command(drone.CommandTakeoff, nil)
	case key.Matches(msg, k.Land):
		cmd = m.command(drone.CommandLand, nil)
	case key.Matches(msg, k.ReturnHome):
		cmd = m.command(drone.CommandReturnToHome, nil)
	case key.Matches(msg, k.EmergencyStop):
		cmd = m.emergencyStop()
	case key.Matches(msg, k.ToggleRecord):
		if d.Camera.IsRecording {
			cmd = m.command(drone.CommandStopRecording, nil)
		} else {
			cmd = m.command(drone.CommandStartRecording, nil)
		}
	case key.Matches(msg, k.ToggleCamera):
		mode := nextCameraMode(d.Camera.Mode)
		cmd = m.command(drone.CommandSetCameraMode, map[string]any{"mode": string(mode)})

	// Map
	case key.Matches(msg, k.CycleMapView):
		m.updateMap(drone.MapUpdate{ViewStyle: drone.Ptr(d.Map.ViewStyle.Next())})
	case key.Matches(msg, k.ZoomIn):
		m.updateMap(drone.MapUpdate{Zoom: drone.Ptr(d.Map.Zoom + 1)})
	case key.Matches(msg, k.ZoomOut):
		m.updateMap(drone.MapUpdate{Zoom: drone.Ptr(d.Map.Zoom - 1)})
	case key.Matches(msg, k.ToggleFlight):
		m.updateMap(drone.MapUpdate{ShowFlightPath: drone.Ptr(!d.Map.ShowFlightPath)})
	case key.Matches(msg, k.ToggleNoFly):
		m.updateMap(drone.MapUpdate{ShowNoFlyZones: drone.Ptr(!d.Map.ShowNoFlyZones)})
	case key.Matches(msg, k.CycleMapSize):
		m.updateMap(drone.MapUpdate{MapSize: drone.Ptr(nextMapSize(d.Map.MapSize))})

	// Joystick
	case key.Matches(msg, k.ThrottleUp):
		m.sendStick(drone.JoystickInput{Throttle: drone.Ptr(stickStep)})
	case key.Matches(msg, k.ThrottleDown):
		m.sendStick(drone.JoystickInput{Throttle: drone.Ptr(-stickStep)})
	case key.Matches(msg, k.YawLeft):
		m.sendStick(drone.JoystickInput{Yaw: drone.Ptr(-stickStep)})
	case key.Matches(msg, k.YawRight):
		m.sendStick(drone.JoystickInput{Yaw: drone.Ptr(stickStep)})
	case key.Matches(msg, k.PitchForward):
		m.sendStick(drone.JoystickInput{Pitch: drone.Ptr(stickStep)})
	case key.Matches(msg, k.PitchBack):
		m.sendStick(drone.JoystickInput{Pitch: drone.Ptr(-stickStep)})
	case key.Matches(msg, k.RollLeft):
		m.sendStick(drone.JoystickInput{Roll: drone.Ptr(-stickStep)})
	case key.Matches(msg, k.RollRight):
		m.sendStick(drone.JoystickInput{Roll: drone.Ptr(stickStep)})
	}

	return m, cmd
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.refresh)}
	if m.sync != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.sync))
	}
	if m.logPath != "" {
		cmds = append(cmds, loadEventsCmd(m.logPath))
	}
	if !m.stopArmedAt.IsZero() && m.now().Sub(m.stopArmedAt) > EmergencyConfirmWindow {
		m.stopArmedAt = time.Time{}
	}
	return m, tea.Batch(cmds...)
}

// setSnapshot stores snap and follows its theme.
func (m *Model) setSnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.theme = GetTheme(string(snap.Drone.UI.Theme))
}

func (m *Model) setFlash(level flashLevel, text string) {
	m.flash = flash{text: text, level: level, at: m.now()}
}

// activeFlash returns the footer message if it has not expired.
func (m Model) activeFlash() (flash, bool) {
	if m.flash.text == "" || m.now().Sub(m.flash.at) > FlashDuration {
		return flash{}, false
	}
	return m.flash, true
}

// cycleTheme switches to the next theme and persists the choice.
func (m *Model) cycleTheme() {
	next := NextTheme(m.theme.Name)
	if !m.updateUI(drone.UIUpdate{Theme: drone.Ptr(drone.Theme(next))}) {
		return
	}
	if err := prefs.SaveTheme(m.prefsPath, next); err != nil {
		m.setFlash(flashDanger, fmt.Sprintf("Save theme: %v", err))
	}
}

// updateUI applies a local display change and saves panel visibility.
// It reports whether the change was applied.
func (m *Model) updateUI(u drone.UIUpdate) bool {
	snap, err := m.sync.UpdateUISettings(u)
	if err != nil {
		m.setFlash(flashDanger, err.Error())
		return false
	}
	m.setSnapshot(snap)
	if u.Theme != nil {
		return true
	}
	if err := prefs.Save(m.prefsPath, prefsFromUI(snap.Drone.UI)); err != nil {
		m.setFlash(flashDanger, fmt.Sprintf("Save prefs: %v", err))
	}
	return true
}

func (m *Model) updateMap(u drone.MapUpdate) {
	snap, err := m.sync.UpdateMapSettings(u)
	if err != nil {
		m.setFlash(flashDanger, err.Error())
		return
	}
	m.setSnapshot(snap)
}

func (m *Model) updateControls(u drone.ControlsUpdate) {
	snap, err := m.sync.UpdateControls(u)
	if err != nil {
		m.setFlash(flashDanger, err.Error())
		return
	}
	m.setSnapshot(snap)
}

// sendStick forwards a joystick sample. Sticks are only live while the
// joystick panel is visible.
func (m *Model) sendStick(input drone.JoystickInput) {
	if !m.snapshot.Drone.UI.ShowJoystick {
		m.setFlash(flashInfo, "Joystick panel hidden (J to show)")
		return
	}
	m.sync.SendJoystickInput(input)
	m.stick = input
	m.stickAt = m.now()
}

// command flashes a pending message and dispatches name in the background.
func (m *Model) command(name string, params map[string]any) tea.Cmd {
	m.setFlash(flashInfo, fmt.Sprintf("Sending %s...", titleCase(name)))
	return sendCommandCmd(m.ctx, m.sync, name, params)
}

// emergencyStop requires two presses within EmergencyConfirmWindow.
func (m *Model) emergencyStop() tea.Cmd {
	now := m.now()
	if !m.stopArmedAt.IsZero() && now.Sub(m.stopArmedAt) <= EmergencyConfirmWindow {
		m.stopArmedAt = time.Time{}
		return m.command(drone.CommandEmergencyStop, nil)
	}
	m.stopArmedAt = now
	m.setFlash(flashDanger, "Press X again to confirm EMERGENCY STOP")
	return nil
}

func prefsFromUI(ui drone.UISettings) prefs.Prefs {
	return prefs.Prefs{
		Theme:         string(ui.Theme),
		ShowGrid:      ui.ShowGrid,
		ShowMap:       ui.ShowMap,
		ShowJoystick:  ui.ShowJoystick,
		ShowTelemetry: ui.ShowTelemetry,
	}
}

func nextMapSize(s drone.MapSize) drone.MapSize {
	switch s {
	case drone.MapSizeSmall:
		return drone.MapSizeMedium
	case drone.MapSizeMedium:
		return drone.MapSizeLarge
	default:
		return drone.MapSizeSmall
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type eventsMsg []logtail.Entry

type commandResultMsg struct {
	name string
	ack  droneapi.CommandAck
	err  error
}

type pollResultMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(s Syncer) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(s.Snapshot())
	}
}

func sendCommandCmd(ctx context.Context, s Syncer, name string, params map[string]any) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, CommandTimeout)
		defer cancel()
		ack, err := s.SendCommand(ctx, name, params)
		return commandResultMsg{name: name, ack: ack, err: err}
	}
}

func pollCmd(ctx context.Context, s Syncer) tea.Cmd {
	return func() tea.Msg {
		return pollResultMsg{err: s.Poll(ctx)}
	}
}

func loadEventsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Tail(path, EventTailLines)
		if err != nil {
			// Unreadable log files leave the pane empty
			return eventsMsg(nil)
		}
		return eventsMsg(entries)
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is done.
func Run(opts Options) error {
	m := New(opts)
	teaOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		teaOpts = append(teaOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, teaOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
