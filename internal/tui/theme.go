package tui

import (
	"os"
	"strconv"
	"strings"

	"coursecraft-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The editor must stay readable on light and dark backgrounds, so colors are
// adaptive and faint styling is only used on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      = ac("240", "243")
	colorSurfaceFg  = ac("235", "252")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorAccent     = ac("27", "62")
	colorBorder     = ac("250", "240")
	colorError      = ac("160", "203")

	colorFactVerified   = ac("28", "42")
	colorFactModerate   = ac("136", "178")
	colorFactUnverified = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleHeading() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSurfaceFg).Bold(true)
}

func stylePane(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder)
	if focused {
		st = st.BorderForeground(colorAccent)
	}
	return st
}

func factStatusStyle(s model.FactStatus) lipgloss.Style {
	switch s {
	case model.FactVerified:
		return lipgloss.NewStyle().Foreground(colorFactVerified).Bold(true)
	case model.FactModerate:
		return lipgloss.NewStyle().Foreground(colorFactModerate).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorFactUnverified).Bold(true)
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the editor.
// Only NO_COLOR is honored; CLICOLOR-style variables are meant for plain CLI
// output and would otherwise strip colors from the TUI.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection:
// COURSECRAFT_TUI_THEME=light|dark first, then the COLORFGBG "fg;bg" heuristic.
func applyThemePreference() {
	switch darkPreference() {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// darkPreference returns "dark", "light" or "" when nothing in the
// environment says.
func darkPreference() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("COURSECRAFT_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			// Common xterm palette: 0-6 dark colors, 7-15 light colors.
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	return ""
}
