package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jawji/dronedeck/internal/state"
)

// renderHeader renders the status bar: identity, link badges and data age.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	snap := m.snapshot
	status := snap.Drone.Status

	parts := []string{bg.Render("dronedeck", styles.Logo)}

	if status.Name != "" {
		ident := bg.Render(status.Name, styles.Text.Bold(true))
		if status.Model != "" && !compact {
			ident += bg.Space() + bg.Render("("+status.Model+")", styles.MutedText)
		}
		parts = append(parts, ident)
	}

	parts = append(parts, bg.Join(m.badges(styles), " "))

	if !status.LastUpdated.IsZero() {
		age := humanizeAge(m.now().Sub(status.LastUpdated))
		parts = append(parts, bg.Pair("Updated", age, styles.FaintText, styles.MutedText))
	}

	if snap.LastError != nil && (snap.ConsecutiveFailures > 0 || !snap.Connected()) {
		limit := 60
		if compact {
			limit = 30
		}
		msg := fmt.Sprintf("%s (%d failed)", truncate(snap.LastError.Error(), limit), snap.ConsecutiveFailures)
		if snap.ConsecutiveFailures == 0 {
			msg = truncate(snap.LastError.Error(), limit)
		}
		parts = append(parts, bg.Render(msg, styles.DangerText))
	}

	return bg.FillLine(bg.Space()+bg.Join(parts, "  "), m.width)
}

// badges returns the link and flight status pills in display order.
func (m Model) badges(styles Styles) []string {
	snap := m.snapshot
	var out []string

	if snap.Mode == state.ModeSimulation {
		out = append(out, styles.BadgeStyle("simulation").Render("SIMULATION"))
	}
	if snap.Connected() {
		out = append(out, styles.BadgeStyle("connected").Render("CONNECTED"))
	} else {
		out = append(out, styles.BadgeStyle("disconnected").Render("DISCONNECTED"))
	}
	if snap.Stale() {
		out = append(out, styles.BadgeStyle("stale").Render("STALE"))
	}
	if snap.Drone.Controls.IsArmed {
		out = append(out, styles.BadgeStyle("armed").Render("ARMED"))
	} else {
		out = append(out, styles.BadgeStyle("disarmed").Render("DISARMED"))
	}
	if snap.Drone.Camera.IsRecording {
		out = append(out, styles.BadgeStyle("recording").Render("● REC "+snap.Drone.Camera.RecordingTime))
	}
	return out
}

// renderFooter shows the latest flash message or the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var content string
	if f, ok := m.activeFlash(); ok {
		style := styles.InfoText
		switch f.level {
		case flashSuccess:
			style = styles.SuccessText
		case flashDanger:
			style = styles.DangerText
		}
		content = bg.Render(f.text, style)
	} else {
		var hints []string
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			hints = append(hints, bg.Pair(h.Key, h.Desc, styles.WarningText, styles.MutedText))
		}
		content = bg.Join(hints, "  ")
	}

	return lipgloss.NewStyle().MaxHeight(1).Render(bg.FillLine(bg.Space()+content, m.width))
}
