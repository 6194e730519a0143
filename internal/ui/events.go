package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jawji/dronedeck/internal/logtail"
)

// renderEvents shows the newest log entries, most recent last.
func (m Model) renderEvents(width int) string {
	styles := m.theme.Styles()
	inner := max(width-6, 20)

	events := m.events
	if len(events) > EventDisplayLimit {
		events = events[len(events)-EventDisplayLimit:]
	}

	lines := make([]string, 0, EventDisplayLimit)
	if len(events) == 0 {
		lines = append(lines, styles.FaintText.Render("No events in "+truncateMiddle(m.logPath, inner-12)))
	}
	for _, e := range events {
		lines = append(lines, m.eventLine(e, inner))
	}
	return m.panel("Events", width, lines)
}

func (m Model) eventLine(e logtail.Entry, width int) string {
	styles := m.theme.Styles()

	stamp := "        "
	if !e.Time.IsZero() {
		stamp = e.Time.Format("15:04:05")
	}
	level := strings.ToUpper(e.Level)
	if level == "" {
		level = "-"
	}
	levelStyle := levelStyle(styles, e.Level)

	var extras []string
	for _, k := range []string{"command", "error", "outcome", "mode"} {
		if v, ok := e.Fields[k]; ok && v != "" {
			extras = append(extras, k+"="+v)
		}
	}
	msg := e.Message
	if len(extras) > 0 {
		msg += "  " + strings.Join(extras, " ")
	}
	msg = truncate(msg, max(width-15, 10))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.FaintText.Render(stamp+" "),
		levelStyle.Render(padRight(level, 6)),
		styles.Text.Render(msg),
	)
}

func levelStyle(styles Styles, level string) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn", "warning":
		return styles.WarningText
	case "info":
		return styles.InfoText
	default:
		return styles.FaintText
	}
}
