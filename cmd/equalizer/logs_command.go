package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"equalizer/internal/logging"
	"equalizer/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var project string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the equalizer log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.FileName)
			match := logs.ProjectMatcher(project)

			recent, offset, err := logs.Last(path, lines, match)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range recent {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			err = logs.Follow(commandCtx(cmd), path, offset, 0, match, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().StringVar(&project, "filter-project", "", "Only lines about this project")
	return cmd
}
