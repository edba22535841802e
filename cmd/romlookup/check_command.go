package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"romlookup/internal/preflight"
)

type checkResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the configured reference databases are present and readable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			checkCtx, cancel := ctx.queryContext(cmd, cfg)
			defer cancel()

			results := preflight.RunAll(checkCtx, cfg)
			if err := checkCtx.Err(); errors.Is(err, context.Canceled) {
				return err
			}

			if ctx.jsonOutput() {
				out := make([]checkResult, 0, len(results))
				for _, r := range results {
					out = append(out, checkResult(r))
				}
				if err := writeJSON(cmd, out); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				colorize := isTerminal(w)
				for _, line := range renderSectionHeader("Reference databases", colorize) {
					fmt.Fprintln(w, line)
				}
				for _, line := range checkLines(results, colorize) {
					fmt.Fprintln(w, line)
				}
			}

			if !preflight.AllPassed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}

func checkLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		kind := statusOK
		switch {
		case !r.Passed:
			kind = statusError
		case r.Detail == "Disabled":
			kind = statusInfo
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}
