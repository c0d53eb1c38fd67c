package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width. WithAutoStyle can block on
	// terminal background queries, so a fixed style is always passed.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders node content for the preview pane. Generated content
// often carries headings, lists and LaTeX-ish math; glamour handles the first
// two and leaves the rest as text.
func renderMarkdown(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	style = resolveMarkdownStyle(style)
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		cfg := markdownStyleConfig(style)
		zero := uint(0)
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	switch style {
	case "light":
		cfg := styles.LightStyleConfig
		applyMarkdownPalette(&cfg, style)
		return cfg
	case "notty":
		return styles.NoTTYStyleConfig
	case "ascii":
		return styles.ASCIIStyleConfig
	default:
		cfg := styles.DarkStyleConfig
		applyMarkdownPalette(&cfg, "dark")
		return cfg
	}
}

// resolveMarkdownStyle maps the configured style to one the renderer knows,
// falling back to the terminal background when unset.
func resolveMarkdownStyle(style string) string {
	switch s := strings.ToLower(strings.TrimSpace(style)); s {
	case "light", "dark", "notty", "ascii":
		return s
	}
	if p := darkPreference(); p != "" {
		return p
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// applyMarkdownPalette keeps headings and body text on the editor's surface
// colors instead of glamour's bright defaults.
func applyMarkdownPalette(cfg *ansi.StyleConfig, style string) {
	heading := mdColor(colorSurfaceFg, style)
	cfg.Heading.Color = heading
	cfg.H1.Color = heading
	cfg.H2.Color = heading
	cfg.H3.Color = heading
	cfg.H4.Color = heading

	link := mdColor(colorAccent, style)
	cfg.Link.Color = link
	cfg.LinkText.Color = link

	cfg.Text.Color = mdColor(colorSurfaceFg, style)
	cfg.Code.Color = mdColor(colorSurfaceFg, style)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
}

func mdColor(c lipgloss.AdaptiveColor, style string) *string {
	if style == "light" {
		return &c.Light
	}
	return &c.Dark
}
