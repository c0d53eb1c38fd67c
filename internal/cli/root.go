package cli

import (
	"fmt"
	"os"
	"strings"

	"coursecraft-cli/internal/config"
	"coursecraft-cli/internal/format"
	"coursecraft-cli/internal/genclient"
	"coursecraft-cli/internal/logger"

	"github.com/spf13/cobra"
)

type App struct {
	ServiceURL string
	LogMode    string
	PrettyJSON bool
	Format     string

	cfg config.Config
	log *logger.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "coursecraft",
		Short:        "Generate and edit course outlines",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Ask the service for a lesson plan, then generate the lessons
  coursecraft plan --name "Intro to AI" --lessons 3 --out plan.json
  coursecraft lessons --plan plan.json --out lessons.json

  # Edit interactively
  coursecraft edit lessons.json

  # Scriptable edits
  coursecraft move lessons.json 0.2 0.0 --write
  coursecraft ops run lessons.json 0.1:expand 0.1.0:shorten --write
  coursecraft export lessons.json --lesson 0 --to out/
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return writeErr(cmd, err)
		}
		if u := strings.TrimSpace(app.ServiceURL); u != "" {
			cfg.Service.BaseURL = strings.TrimRight(u, "/")
		}
		if strings.TrimSpace(app.LogMode) != "" {
			cfg.Log.Mode = app.LogMode
		}
		app.cfg = cfg

		// The editor owns the terminal; only log there when a file sink is set.
		mode := cfg.Log.Mode
		if cmd.Name() == "edit" && strings.TrimSpace(cfg.Log.File) == "" {
			mode = "nop"
		}
		l, err := logger.New(mode, cfg.Log.File)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = l
		return nil
	}

	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			app.log.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.ServiceURL, "service", envOr("COURSECRAFT_SERVICE", ""), "Content service base URL (overrides service.base_url)")
	cmd.PersistentFlags().StringVar(&app.LogMode, "log", envOr("COURSECRAFT_LOG", ""), "Log mode (dev|prod|nop)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("COURSECRAFT_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newPlanCmd(app))
	cmd.AddCommand(newLessonsCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newOpsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func (app *App) client() (*genclient.Client, error) {
	c, err := genclient.New(genclient.Options{
		BaseURL:    app.cfg.Service.BaseURL,
		Timeout:    app.cfg.Service.Timeout,
		MaxRetries: app.cfg.Service.MaxRetries,
		Logger:     app.log,
	})
	if err != nil {
		return nil, fmt.Errorf("content service: %w", err)
	}
	return c, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
