package tui

import (
	"context"

	"coursecraft-cli/internal/logger"
	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	// ExportDir is where the download key writes lesson Markdown.
	ExportDir string
	// MarkdownStyle is a glamour standard style; empty means detect.
	MarkdownStyle string
	Logger        *logger.Logger

	// GenerateLessons, when set, opens the editor on a course plan: nodes can
	// be reordered but not edited until "g" replaces the plan with the
	// lessons it returns.
	GenerateLessons func(ctx context.Context, plan model.Outline) (model.Outline, error)
}

// Run opens the outline editor on sess and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newEditorModel(ctx, sess, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
