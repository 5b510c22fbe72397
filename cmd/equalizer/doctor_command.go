package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"equalizer/internal/launch"
	"equalizer/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check local paths and the host installation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			workfilePath, err := ctx.workfilePath()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg, workfilePath, launch.CurrentEnviron())

			failed := 0
			for _, r := range results {
				if !r.Passed {
					failed++
				}
			}
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
				return checksFailed(failed)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, r := range results {
				state := checkOK
				if !r.Passed {
					state = checkFailed
				}
				fmt.Fprintln(out, renderCheckLine(r.Name, state, r.Detail, colorize))
			}
			if failed > 0 {
				return checksFailed(failed)
			}
			fmt.Fprintln(out, renderCheckLine("Summary", checkInfo, "all checks passed", colorize))
			return nil
		},
	}
}

func checksFailed(n int) error {
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%d check(s) failed", n)
}
