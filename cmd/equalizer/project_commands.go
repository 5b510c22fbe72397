package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"equalizer/internal/config"
	"equalizer/internal/projectdb"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect projects stored in the project database",
	}
	projectsCmd.AddCommand(newProjectsListCommand(ctx))
	projectsCmd.AddCommand(newProjectsRemoveCommand(ctx))
	return projectsCmd
}

func withProjectDB(ctx *commandContext, fn func(*projectdb.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.Host.Backend != config.BackendSQLite {
		return errors.New("projects are only tracked when host.backend = \"sqlite\"")
	}
	store, err := projectdb.Open(cfg.Paths.ProjectDB, ctx.log())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newProjectsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProjectDB(ctx, func(store *projectdb.Store) error {
				projects, err := store.Projects(commandCtx(cmd))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, projects)
				}
				if len(projects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No projects")
					return nil
				}
				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, []string{
						p.Path,
						p.UpdatedAt.Local().Format(time.DateTime),
						strconv.Itoa(p.NotesLength),
						strconv.Itoa(p.DocumentKeys),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Project", "Updated", "Notes", "Document Keys"},
					rows,
					2, 3,
				))
				return nil
			})
		},
	}
}

func newProjectsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project>",
		Short: "Delete a project with its notes and document rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProjectDB(ctx, func(store *projectdb.Store) error {
				if err := store.DeleteProject(commandCtx(cmd), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", args[0])
				return nil
			})
		},
	}
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
