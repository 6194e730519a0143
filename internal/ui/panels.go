package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jawji/dronedeck/internal/drone"
)

// renderMain lays out header, panel grid, event pane and footer.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	body := lipgloss.NewStyle().
		Width(m.width).
		Height(max(bodyHeight, 0)).
		MaxHeight(max(bodyHeight, 0)).
		Render(m.renderBody(m.width))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderBody arranges the visible panels in one to three columns.
func (m Model) renderBody(width int) string {
	cols := 3
	switch {
	case width < LayoutCompactWidth:
		cols = 1
	case width < LayoutWideWidth:
		cols = 2
	}
	colWidth := max(width/cols, 24)

	ui := m.snapshot.Drone.UI
	panels := []string{
		m.flightPanel(colWidth),
		m.batteryPanel(colWidth),
		m.controlsPanel(colWidth),
		m.cameraPanel(colWidth),
		m.streamPanel(colWidth),
	}
	if ui.ShowTelemetry {
		panels = append(panels, m.telemetryPanel(colWidth))
	}
	if ui.ShowMap {
		panels = append(panels, m.mapPanel(colWidth))
	}
	if ui.ShowJoystick {
		panels = append(panels, m.joystickPanel(colWidth))
	}

	var rows []string
	for i := 0; i < len(panels); i += cols {
		end := min(i+cols, len(panels))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panels[i:end]...))
	}
	if m.logPath != "" {
		rows = append(rows, m.renderEvents(colWidth*cols))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// panel draws a bordered box of the given outer width.
func (m Model) panel(title string, width int, lines []string) string {
	styles := m.theme.Styles()
	style := styles.Panel
	if m.snapshot.Stale() {
		style = style.BorderForeground(lipgloss.Color(m.theme.BorderMuted))
	}
	content := styles.PanelTitle.Render(title) + "\n" + strings.Join(lines, "\n")
	return style.Width(max(width-2, 0)).Render(content)
}

// field renders a "label value" line with a fixed label column.
func (m Model) field(label, value string, valueStyle lipgloss.Style) string {
	styles := m.theme.Styles()
	return styles.MutedText.Render(padRight(label, 11)) + valueStyle.Render(value)
}

func (m Model) flightPanel(width int) string {
	styles := m.theme.Styles()
	f := m.snapshot.Drone.Flight
	return m.panel("Flight", width, []string{
		m.field("Altitude", fmt.Sprintf("%.1f m", f.Altitude), styles.Text.Bold(true)),
		m.field("Speed", fmt.Sprintf("%.1f km/h", f.Speed), styles.Text),
		m.field("Heading", fmt.Sprintf("%.0f° %s", f.Heading, compassPoint(f.Heading)), styles.Text),
		m.field("Distance", fmt.Sprintf("%.0f m", f.Distance), styles.Text),
		m.field("Flight time", f.FlightTime, styles.Text),
		m.field("Position", fmt.Sprintf("%.5f, %.5f", f.Coordinates.Latitude, f.Coordinates.Longitude), styles.MutedText),
	})
}

func (m Model) batteryPanel(width int) string {
	styles := m.theme.Styles()
	b := m.snapshot.Drone.Battery

	level := styles.SuccessText
	switch {
	case b.Percentage < 20:
		level = styles.DangerText
	case b.Percentage < 40:
		level = styles.WarningText
	}
	bar := gauge(b.Percentage, max(min(width-20, 20), 5))

	return m.panel("Battery", width, []string{
		m.field("Charge", fmt.Sprintf("%3.0f%% ", b.Percentage), level) + level.Render(bar),
		m.field("Voltage", fmt.Sprintf("%.1f V", b.Voltage), styles.Text),
		m.field("Temp", fmt.Sprintf("%.0f°C", b.Temperature), styles.Text),
		m.field("Cycles", fmt.Sprintf("%d", b.CycleCount), styles.Text),
		m.field("Remaining", fmt.Sprintf("%.0f min", b.EstimatedFlightTime), styles.Text),
	})
}

func (m Model) controlsPanel(width int) string {
	styles := m.theme.Styles()
	c := m.snapshot.Drone.Controls

	armed := m.field("State", "disarmed", styles.MutedText)
	if c.IsArmed {
		armed = m.field("State", "ARMED", styles.WarningText.Bold(true))
	}
	lines := []string{
		armed,
		m.field("Mode", titleCase(string(c.FlightMode)), styles.AccentText),
		m.field("GPS", onOff(c.GPSMode), styles.Text),
		m.field("Avoidance", onOff(c.ObstacleAvoidance), styles.Text),
		m.field("RTH height", fmt.Sprintf("%.0f m", c.ReturnToHomeHeight), styles.Text),
	}
	if !m.stopArmedAt.IsZero() {
		lines = append(lines, styles.DangerText.Render("EMERGENCY STOP ARMED"))
	}
	return m.panel("Controls", width, lines)
}

func (m Model) cameraPanel(width int) string {
	styles := m.theme.Styles()
	c := m.snapshot.Drone.Camera

	rec := m.field("Recording", "idle", styles.MutedText)
	if c.IsRecording {
		rec = m.field("Recording", "● "+c.RecordingTime, styles.DangerText)
	}
	return m.panel("Camera", width, []string{
		m.field("Mode", titleCase(string(c.Mode)), styles.AccentText),
		m.field("Format", fmt.Sprintf("%s @ %dfps", c.Resolution, c.FPS), styles.Text),
		m.field("ISO", fmt.Sprintf("%d", c.ISO), styles.Text),
		m.field("Shutter", fmt.Sprintf("1/%d", c.Shutter), styles.Text),
		rec,
		m.field("Storage", fmt.Sprintf("%.1f GB free", c.StorageRemaining), styles.Text),
	})
}

func (m Model) streamPanel(width int) string {
	styles := m.theme.Styles()
	ls := m.snapshot.Drone.LiveStream
	ui := m.snapshot.Drone.UI

	status := m.field("Feed", "offline", styles.MutedText)
	if ls.IsStreaming {
		status = m.field("Feed", "LIVE", styles.SuccessText)
	}
	lines := []string{
		status,
		m.field("Quality", string(ls.Quality), styles.Text),
		m.field("Latency", fmt.Sprintf("%d ms", ls.Latency), styles.Text),
		m.field("Bitrate", fmt.Sprintf("%.1f Mbps", float64(ls.Bitrate)/1000), styles.Text),
	}
	if ls.URL != "" {
		lines = append(lines, styles.FaintText.Render(truncateMiddle(ls.URL, max(width-6, 8))))
	}
	for _, row := range viewfinder(max(width-6, 9), 5, ui.ShowGrid) {
		lines = append(lines, styles.FaintText.Render(row))
	}
	return m.panel("Live Feed", width, lines)
}

func (m Model) telemetryPanel(width int) string {
	styles := m.theme.Styles()
	t := m.snapshot.Drone.Telemetry

	lines := []string{
		m.field("Signal", fmt.Sprintf("%s %.0f%%", signalBars(t.SignalStrength), t.SignalStrength), styles.InfoText),
		m.field("Speed", fmt.Sprintf("%.1f km/h", t.Speed), styles.Text),
		m.field("Height", fmt.Sprintf("%.1f m", t.Height), styles.Text),
		m.field("LDIS", fmt.Sprintf("%.1f m", t.LDIS), styles.Text),
		m.field("ISO/Shutter", fmt.Sprintf("%d  1/%d", t.ISO, t.Shutter), styles.Text),
		m.field("Temp", fmt.Sprintf("%.0f°C", t.Temperature), styles.Text),
	}
	for _, line := range t.FrameLines {
		lines = append(lines, styles.FaintText.Render(truncate(line, max(width-6, 8))))
	}
	return m.panel("Telemetry", width, lines)
}

func (m Model) mapPanel(width int) string {
	styles := m.theme.Styles()
	mp := m.snapshot.Drone.Map
	f := m.snapshot.Drone.Flight

	return m.panel("Map", width, []string{
		m.field("View", titleCase(string(mp.ViewStyle)), styles.AccentText),
		m.field("Zoom", fmt.Sprintf("%.0fx", mp.Zoom), styles.Text),
		m.field("Size", titleCase(string(mp.MapSize)), styles.Text),
		m.field("Flight path", onOff(mp.ShowFlightPath), styles.Text),
		m.field("No-fly", onOff(mp.ShowNoFlyZones), styles.Text),
		m.field("Home", fmt.Sprintf("%.0f m away", f.Distance), styles.Text),
		m.field("Home point", fmt.Sprintf("%.5f, %.5f", f.HomePoint.Latitude, f.HomePoint.Longitude), styles.MutedText),
	})
}

func (m Model) joystickPanel(width int) string {
	styles := m.theme.Styles()
	s := m.stick

	lines := []string{
		m.field("Throttle", axisBar(s.Throttle), styles.AccentText),
		m.field("Yaw", axisBar(s.Yaw), styles.AccentText),
		m.field("Pitch", axisBar(s.Pitch), styles.AccentText),
		m.field("Roll", axisBar(s.Roll), styles.AccentText),
	}
	if m.stickAt.IsZero() {
		lines = append(lines, styles.FaintText.Render("w/s a/d ←↑↓→ to fly"))
	} else {
		lines = append(lines, styles.FaintText.Render("last input "+humanizeAge(m.now().Sub(m.stickAt))))
	}
	return m.panel("Joystick", width, lines)
}

// axisBar draws a centered deflection meter for a stick axis.
func axisBar(v *int) string {
	const half = 5
	if v == nil {
		return strings.Repeat("·", half) + "|" + strings.Repeat("·", half) + "    0"
	}
	cells := min(max(*v, -100), 100) * half / 100
	left := strings.Repeat("·", half)
	right := strings.Repeat("·", half)
	if cells < 0 {
		left = strings.Repeat("·", half+cells) + strings.Repeat("█", -cells)
	} else if cells > 0 {
		right = strings.Repeat("█", cells) + strings.Repeat("·", half-cells)
	}
	return fmt.Sprintf("%s|%s %+4d", left, right, *v)
}

// viewfinder draws a camera frame. With grid it overlays rule-of-thirds
// lines, otherwise a center crosshair.
func viewfinder(width, height int, grid bool) []string {
	width = max(width, 9)
	height = max(height, 5)
	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", width))
		cells[y][0], cells[y][width-1] = '│', '│'
	}
	for x := range width {
		cells[0][x], cells[height-1][x] = '─', '─'
	}
	cells[0][0], cells[0][width-1] = '┌', '┐'
	cells[height-1][0], cells[height-1][width-1] = '└', '┘'

	if grid {
		xs := []int{width / 3, 2 * width / 3}
		ys := []int{height / 3, 2 * height / 3}
		for _, y := range ys {
			if y <= 0 || y >= height-1 {
				continue
			}
			for x := 1; x < width-1; x++ {
				cells[y][x] = '┄'
			}
		}
		for _, x := range xs {
			for y := 1; y < height-1; y++ {
				if cells[y][x] == '┄' {
					cells[y][x] = '┼'
				} else {
					cells[y][x] = '┆'
				}
			}
		}
	} else {
		cells[height/2][width/2] = '+'
	}

	out := make([]string, height)
	for y, row := range cells {
		out[y] = string(row)
	}
	return out
}

// nextCameraMode flips between photo and video.
func nextCameraMode(mode drone.CameraMode) drone.CameraMode {
	if mode == drone.CameraModePhoto {
		return drone.CameraModeVideo
	}
	return drone.CameraModePhoto
}
