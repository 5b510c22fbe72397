package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"equalizer/internal/creator"
	"equalizer/internal/pipeline"
)

func newInstancesCommand(ctx *commandContext) *cobra.Command {
	instancesCmd := &cobra.Command{
		Use:     "instances",
		Aliases: []string{"instance"},
		Short:   "Manage publish instances",
	}
	instancesCmd.AddCommand(newInstancesListCommand(ctx))
	instancesCmd.AddCommand(newInstancesCreateCommand(ctx))
	instancesCmd.AddCommand(newInstancesUpdateCommand(ctx))
	instancesCmd.AddCommand(newInstancesRemoveCommand(ctx))
	return instancesCmd
}

// resolveCreator maps a creator label or product type to its identifier.
// Unknown names are used verbatim so third-party creators still filter.
func resolveCreator(ctx *commandContext, p *project, name string) string {
	if name == "" {
		return ""
	}
	c, err := creator.Lookup(creator.Builtins(ctx.configValue(), p.registry, p.logger), name)
	if err != nil {
		return name
	}
	return c.Definition().Identifier
}

func newInstancesListCommand(ctx *commandContext) *cobra.Command {
	var creatorName string
	var where string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List publish instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *pipeline.Filter
			if where != "" {
				compiled, err := pipeline.CompileFilter(where)
				if err != nil {
					return err
				}
				filter = compiled
			}
			return ctx.withProject(cmd, false, func(p *project) error {
				list, err := p.registry.ListInstances(resolveCreator(ctx, p, creatorName))
				if err != nil {
					return err
				}
				if filter != nil {
					if list, err = filter.Apply(list); err != nil {
						return err
					}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, list)
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No publish instances")
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, inst := range list {
					active, _ := inst["active"].(bool)
					rows = append(rows, []string{
						inst.ID(),
						inst.CreatorIdentifier(),
						stringField(inst, "productName"),
						stringField(inst, "variant"),
						yesNo(active),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Instance ID", "Creator", "Product", "Variant", "Active"},
					rows,
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&creatorName, "creator", "", "Only instances of this creator (identifier, label or product type)")
	cmd.Flags().StringVar(&where, "where", "", "Filter expression evaluated against each instance")
	return cmd
}

func newInstancesCreateCommand(ctx *commandContext) *cobra.Command {
	var variant string
	var assignments []string

	cmd := &cobra.Command{
		Use:   "create <creator>",
		Short: "Create a publish instance with a built-in creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseAssignments(assignments)
			if err != nil {
				return err
			}
			return ctx.withProject(cmd, true, func(p *project) error {
				c, err := creator.Lookup(creator.Builtins(ctx.configValue(), p.registry, p.logger), args[0])
				if err != nil {
					return err
				}
				inst, err := c.Create(variant, data)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, inst)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", stringField(inst, "productName"), inst.ID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "Variant name (defaults to the creator's first default variant)")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Extra instance field as key=value (repeatable)")
	return cmd
}

func newInstancesUpdateCommand(ctx *commandContext) *cobra.Command {
	var assignments []string
	var unset []string

	cmd := &cobra.Command{
		Use:   "update <instance-id>",
		Short: "Set or drop fields on a publish instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(assignments) == 0 && len(unset) == 0 {
				return errors.New("nothing to update: pass --set or --unset")
			}
			data, err := parseAssignments(assignments)
			if err != nil {
				return err
			}
			id := args[0]
			return ctx.withProject(cmd, true, func(p *project) error {
				current, err := findInstance(p.registry, id)
				if err != nil {
					return err
				}
				fields := pipeline.Instance{}
				if current != nil {
					fields = current.Clone()
				}
				for k, v := range data {
					fields[k] = v
				}
				for _, k := range unset {
					delete(fields, k)
				}
				if fields.ID() == "" {
					fields[pipeline.FieldInstanceID] = id
				}

				owner := fields.CreatorIdentifier()
				if c, lookupErr := creator.Lookup(creator.Builtins(ctx.configValue(), p.registry, p.logger), owner); owner != "" && lookupErr == nil {
					err = c.Update([]creator.Change{{ID: id, Fields: fields}})
				} else {
					err = p.registry.UpdateInstance(id, fields)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Field to set as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&unset, "unset", nil, "Field to drop (repeatable)")
	return cmd
}

func newInstancesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <instance-id>...",
		Short: "Remove publish instances",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withProject(cmd, true, func(p *project) error {
				for _, id := range args {
					if err := p.registry.RemoveInstance(id); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d instance id(s)\n", len(args))
				return nil
			})
		},
	}
}

// findInstance returns the first instance with id, or nil.
func findInstance(registry *pipeline.Registry, id string) (pipeline.Instance, error) {
	list, err := registry.ListInstances("")
	if err != nil {
		return nil, err
	}
	for _, inst := range list {
		if inst.ID() == id {
			return inst, nil
		}
	}
	return nil, nil
}

func stringField(inst pipeline.Instance, key string) string {
	if v, ok := inst[key].(string); ok {
		return v
	}
	return ""
}
