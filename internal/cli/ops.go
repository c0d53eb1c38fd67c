package cli

import (
	"fmt"
	"strings"

	"coursecraft-cli/internal/genclient"
	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type opSpec struct {
	Path model.Path
	Kind model.OpKind
}

// parseOpSpec parses "<path>:<kind>", e.g. "0.1:expand".
func parseOpSpec(s string) (opSpec, error) {
	pathPart, kindPart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return opSpec{}, fmt.Errorf("invalid operation %q (want <path>:<kind>)", s)
	}
	p, err := model.ParsePath(pathPart)
	if err != nil {
		return opSpec{}, err
	}
	k, err := model.ParseOpKind(kindPart)
	if err != nil {
		return opSpec{}, err
	}
	return opSpec{Path: p, Kind: k}, nil
}

type opResult struct {
	Node  string            `json:"node"`
	Kind  model.OpKind      `json:"kind"`
	Path  string            `json:"path"`
	OK    bool              `json:"ok"`
	Error string            `json:"error,omitempty"`
	Facts []model.FactCheck `json:"facts,omitempty"`
}

func newOpsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Run node operations (regenerate, expand, shorten, fact_check)",
	}

	var write bool
	var concurrency int
	runCmd := &cobra.Command{
		Use:   "run <lessons-file> <path>:<kind>...",
		Short: "Run operations concurrently and print the updated outline",
		Example: strings.TrimSpace(`
  coursecraft ops run lessons.json 0.1:expand 0.1.0:shorten 0.2:fact_check
`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := readOutline(args[0], cmd.InOrStdin())
			if err != nil {
				return writeErr(cmd, err)
			}
			targets := make([]opSpec, 0, len(args)-1)
			for _, a := range args[1:] {
				target, err := parseOpSpec(a)
				if err != nil {
					return writeErr(cmd, err)
				}
				targets = append(targets, target)
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := session.New(o, c, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}

			// Issue everything against the loaded snapshot first; paths are
			// only meaningful there.
			results := make([]opResult, len(targets))
			reqs := make([]*session.Request, len(targets))
			for i, target := range targets {
				results[i] = opResult{Kind: target.Kind, Path: target.Path.String()}
				req, err := s.Start(target.Path, target.Kind)
				if err != nil {
					results[i].Error = err.Error()
					continue
				}
				results[i].Node = req.Key.NodeID
				reqs[i] = &req
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			if concurrency > 0 {
				g.SetLimit(concurrency)
			}
			for i, req := range reqs {
				if req == nil {
					continue
				}
				i, req := i, req
				g.Go(func() error {
					res := s.Execute(ctx, *req)
					if err := s.Finish(res); err != nil {
						results[i].Error = err.Error()
						return nil
					}
					results[i].OK = true
					results[i].Facts = res.Facts
					return nil
				})
			}
			_ = g.Wait()

			docs := genclient.LessonsFromOutline(s.Snapshot())
			if write && args[0] != "-" {
				if err := writeDocFile(args[0], docs); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := writeOut(cmd, app, map[string]any{
				"data": docs,
				"meta": map[string]any{"results": results},
			}); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if !r.OK {
					failed++
				}
			}
			if failed > 0 {
				return writeErr(cmd, fmt.Errorf("%d of %d operations failed", failed, len(results)))
			}
			return nil
		},
	}
	runCmd.Flags().BoolVar(&write, "write", false, "Rewrite the lessons file in place")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 4, "Maximum concurrent requests (0 = unlimited)")

	cmd.AddCommand(runCmd)
	return cmd
}
