package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"equalizer/internal/pipeline"
	"equalizer/internal/publish"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Check and plan publish instances",
	}
	publishCmd.AddCommand(newPublishValidateCommand(ctx))
	publishCmd.AddCommand(newPublishPlanCommand(ctx))
	return publishCmd
}

// parsePointGroups reads name[:TYPE] values; TYPE defaults to CAMERA.
func parsePointGroups(values []string) []publish.PointGroup {
	groups := make([]publish.PointGroup, 0, len(values))
	for _, value := range values {
		name, kind, ok := strings.Cut(value, ":")
		if !ok || strings.TrimSpace(kind) == "" {
			kind = publish.PointGroupCamera
		}
		groups = append(groups, publish.PointGroup{
			Name: strings.TrimSpace(name),
			Type: strings.ToUpper(strings.TrimSpace(kind)),
		})
	}
	return groups
}

func newPublishValidateCommand(ctx *commandContext) *cobra.Command {
	var instanceID string
	var pointGroups []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run publish checks on the project's instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := parsePointGroups(pointGroups)
			return ctx.withProject(cmd, false, func(p *project) error {
				list, err := p.registry.ListInstances("")
				if err != nil {
					return err
				}
				if instanceID != "" {
					inst, err := findInstance(p.registry, instanceID)
					if err != nil {
						return err
					}
					if inst == nil {
						return fmt.Errorf("instance %s not found", instanceID)
					}
					list = []pipeline.Instance{inst}
				}

				type report struct {
					InstanceID string `json:"instance_id"`
					Product    string `json:"product"`
					Passed     bool   `json:"passed"`
					Detail     string `json:"detail,omitempty"`
				}
				reports := make([]report, 0, len(list))
				failed := 0
				for _, inst := range list {
					r := report{InstanceID: inst.ID(), Product: stringField(inst, "productName"), Passed: true}
					if err := publish.ValidateInstance(inst, groups); err != nil {
						r.Passed = false
						r.Detail = strings.ReplaceAll(err.Error(), "\n", "; ")
						failed++
					}
					reports = append(reports, r)
				}

				if ctx.jsonOutput() {
					if err := writeJSON(cmd, reports); err != nil {
						return err
					}
				} else if len(reports) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No publish instances")
				} else {
					rows := make([][]string, 0, len(reports))
					for _, r := range reports {
						status := "ok"
						if !r.Passed {
							status = "failed"
						}
						rows = append(rows, []string{r.InstanceID, r.Product, status, r.Detail})
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Instance ID", "Product", "Status", "Detail"}, rows))
				}
				if failed > 0 {
					return fmt.Errorf("%d instance(s) failed validation", failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "Only validate this instance id")
	cmd.Flags().StringArrayVar(&pointGroups, "point-group", nil, "Scene point group as name[:TYPE] (repeatable)")
	return cmd
}

func newPublishPlanCommand(ctx *commandContext) *cobra.Command {
	var hostVersion string
	var stagingDir string
	var pointGroups []string
	var frameOffset int

	cmd := &cobra.Command{
		Use:   "plan <instance-id>",
		Short: "Print the export arguments for an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(stagingDir) == "" {
				return errors.New("--staging-dir is required")
			}
			return ctx.withProject(cmd, false, func(p *project) error {
				inst, err := findInstance(p.registry, args[0])
				if err != nil {
					return err
				}
				if inst == nil {
					return fmt.Errorf("instance %s not found", args[0])
				}

				if stringField(inst, "productType") == "lensDistortion" {
					return writeJSON(cmd, publish.NukeRepresentation(stagingDir))
				}

				version, err := publish.ParseHostVersion(hostVersion)
				if err != nil {
					return err
				}
				overrides, _ := inst["publish_attributes"].(map[string]any)
				opts, err := publish.OptionsFromConfig(ctx.configValue()).WithOverrides(overrides)
				if err != nil {
					return err
				}
				plan, err := publish.PlanMatchmoveScript(inst, opts, publish.PlanInput{
					Version:           version,
					StagingDir:        stagingDir,
					PointGroups:       parsePointGroups(pointGroups),
					CameraFrameOffset: frameOffset,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd, plan)
			})
		},
	}

	cmd.Flags().StringVar(&hostVersion, "host-version", "", "Host version banner, e.g. \"3DEqualizer4 Release 8.0\"")
	cmd.Flags().StringVar(&stagingDir, "staging-dir", "", "Directory the export is written to")
	cmd.Flags().StringArrayVar(&pointGroups, "point-group", nil, "Scene point group as name[:TYPE] (repeatable)")
	cmd.Flags().IntVar(&frameOffset, "frame-offset", 1, "Frame offset of the current camera")
	return cmd
}
