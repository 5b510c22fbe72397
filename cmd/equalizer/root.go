package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var workfileFlag string
	var projectFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &workfileFlag, &projectFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "equalizer",
		Short:         "AYON metadata tools for 3DEqualizer projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&workfileFlag, "workfile", "w", "", "Project workfile (.3de)")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Project key in the project database (defaults to --workfile)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of tables")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDocumentCommand(ctx))
	rootCmd.AddCommand(newContextCommand(ctx))
	rootCmd.AddCommand(newContainersCommand(ctx))
	rootCmd.AddCommand(newInstancesCommand(ctx))
	rootCmd.AddCommand(newProjectsCommand(ctx))
	rootCmd.AddCommand(newPublishCommand(ctx))
	rootCmd.AddCommand(newLaunchCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}
