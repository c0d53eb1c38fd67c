package tui

import (
	"strings"
	"testing"
)

func TestResolveMarkdownStyle(t *testing.T) {
	t.Setenv("COLORFGBG", "")

	t.Setenv("COURSECRAFT_TUI_THEME", "light")
	if got := resolveMarkdownStyle(""); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
	if got := resolveMarkdownStyle("Dark"); got != "dark" {
		t.Fatalf("explicit style should win; got %q", got)
	}

	t.Setenv("COURSECRAFT_TUI_THEME", "")
	t.Setenv("COLORFGBG", "0;15")
	if got := resolveMarkdownStyle(""); got != "light" {
		t.Fatalf("expected light from COLORFGBG; got %q", got)
	}
	t.Setenv("COLORFGBG", "15;0")
	if got := resolveMarkdownStyle("unknown"); got != "dark" {
		t.Fatalf("expected dark from COLORFGBG; got %q", got)
	}
}

func TestRenderMarkdown_KeepsText(t *testing.T) {
	out := renderMarkdown("## Heading\n\nSome *body* text.", 40, "notty")
	if !strings.Contains(out, "Heading") || !strings.Contains(out, "body") {
		t.Fatalf("unexpected render:\n%s", out)
	}
	if renderMarkdown("   ", 40, "notty") != "" {
		t.Fatalf("blank input should render empty")
	}
}

func TestFitPane(t *testing.T) {
	got := fitPane("abcdef\nxy", 4, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "abc…" || lines[1] != "xy  " || lines[2] != "    " {
		t.Fatalf("unexpected lines %q", lines)
	}
}
