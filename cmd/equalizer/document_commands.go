package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"equalizer/internal/metadata"
)

func newDocumentCommand(ctx *commandContext) *cobra.Command {
	documentCmd := &cobra.Command{
		Use:   "document",
		Short: "Inspect the AYON document stored in the project",
	}
	documentCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the whole document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withProject(cmd, false, func(p *project) error {
				doc, err := p.registry.Store().ReadDocument()
				if err != nil {
					return err
				}
				return writeJSON(cmd, doc)
			})
		},
	})
	return documentCmd
}

func newContextCommand(ctx *commandContext) *cobra.Command {
	contextCmd := &cobra.Command{
		Use:   "context",
		Short: "Read or edit the project's AYON context",
	}
	contextCmd.AddCommand(newContextShowCommand(ctx))
	contextCmd.AddCommand(newContextSetCommand(ctx))
	return contextCmd
}

func newContextShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the context data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withProject(cmd, false, func(p *project) error {
				data, err := p.registry.Context()
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, data)
				}
				if len(data) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Context is empty")
					return nil
				}
				rows := make([][]string, 0, len(data))
				for _, key := range slices.Sorted(maps.Keys(data)) {
					value, err := metadata.EncodeValue(data[key])
					if err != nil {
						return err
					}
					rows = append(rows, []string{key, value})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows))
				return nil
			})
		},
	}
}

func newContextSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value...",
		Short: "Merge values into the context",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseAssignments(args)
			if err != nil {
				return err
			}
			return ctx.withProject(cmd, true, func(p *project) error {
				current, err := p.registry.Context()
				if err != nil {
					return err
				}
				maps.Copy(current, data)
				if err := p.registry.UpdateContext(current); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d context key(s)\n", len(data))
				return nil
			})
		},
	}
}
