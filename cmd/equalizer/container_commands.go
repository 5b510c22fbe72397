package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"equalizer/internal/pipeline"
)

func newContainersCommand(ctx *commandContext) *cobra.Command {
	containersCmd := &cobra.Command{
		Use:     "containers",
		Aliases: []string{"container"},
		Short:   "List or register loaded containers",
	}
	containersCmd.AddCommand(newContainersListCommand(ctx))
	containersCmd.AddCommand(newContainersAddCommand(ctx))
	return containersCmd
}

func newContainersListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the containers in the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withProject(cmd, false, func(p *project) error {
				containers, err := p.registry.ListContainers()
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, containers)
				}
				if len(containers) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No containers")
					return nil
				}
				rows := make([][]string, 0, len(containers))
				for _, c := range containers {
					rows = append(rows, []string{c.Namespace, c.Name, c.Loader, c.Version, c.Representation})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Namespace", "Name", "Loader", "Version", "Representation"},
					rows,
					3,
				))
				return nil
			})
		},
	}
}

func newContainersAddCommand(ctx *commandContext) *cobra.Command {
	var name, namespace, loaderName, representation, objectName, version string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a container, replacing one with the same name and namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := pipeline.NewContainer(strings.TrimSpace(name), strings.TrimSpace(namespace))
			if !c.Valid() {
				return errors.New("--name and --namespace are required")
			}
			c.Loader = loaderName
			c.Representation = representation
			c.ObjectName = objectName
			c.Version = version
			c.Timestamp = time.Now().UnixNano()
			return ctx.withProject(cmd, true, func(p *project) error {
				if err := p.registry.AddContainer(c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Container %s registered\n", c.Key())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Container name")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Container namespace")
	cmd.Flags().StringVar(&loaderName, "loader", "", "Loader that produced the container")
	cmd.Flags().StringVar(&representation, "representation", "", "Representation id")
	cmd.Flags().StringVar(&objectName, "object-name", "", "Scene object name")
	cmd.Flags().StringVar(&version, "version", "", "Version label")
	return cmd
}
