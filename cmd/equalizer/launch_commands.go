package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"equalizer/internal/launch"
)

func newLaunchCommand(ctx *commandContext) *cobra.Command {
	launchCmd := &cobra.Command{
		Use:   "launch",
		Short: "Prepare a 3DEqualizer launch",
	}
	launchCmd.AddCommand(newLaunchEnvCommand(ctx))
	launchCmd.AddCommand(newLaunchArgsCommand(ctx))
	launchCmd.AddCommand(newLaunchQtCommand(ctx))
	return launchCmd
}

func newLaunchEnvCommand(ctx *commandContext) *cobra.Command {
	var startupDir string

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print the environment variables the integration adds",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(startupDir) == "" {
				return errors.New("--startup-dir is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			env := launch.ImplementationEnv(launch.CurrentEnviron(), startupDir, cfg.Addon.HeartbeatInterval)
			added := map[string]string{
				launch.EnvCustomScripts: env[launch.EnvCustomScripts],
				launch.EnvHeartbeat:     env[launch.EnvHeartbeat],
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, added)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s=%s\n", launch.EnvCustomScripts, added[launch.EnvCustomScripts])
			fmt.Fprintf(out, "%s=%s\n", launch.EnvHeartbeat, added[launch.EnvHeartbeat])
			return nil
		},
	}

	cmd.Flags().StringVar(&startupDir, "startup-dir", "", "Directory with the integration's startup scripts")
	return cmd
}

func newLaunchArgsCommand(ctx *commandContext) *cobra.Command {
	var startLast bool

	cmd := &cobra.Command{
		Use:   "args [last-workfile]",
		Short: "Print the host arguments that reopen the last workfile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			last := ""
			if len(args) == 1 {
				last = args[0]
			} else if path, err := ctx.workfilePath(); err == nil {
				last = path
			}
			hostArgs, reason := launch.LastWorkfileArgs(startLast, last)
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"args": hostArgs, "reason": reason})
			}
			if hostArgs == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Skipping last workfile: %s\n", reason)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(hostArgs, " "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&startLast, "start-last", true, "Open the last workfile on start")
	return cmd
}

func newLaunchQtCommand(ctx *commandContext) *cobra.Command {
	var root string
	var executable string

	cmd := &cobra.Command{
		Use:   "qt",
		Short: "Install the Qt binding into the host's bundled Python",
		RunE: func(cmd *cobra.Command, args []string) error {
			environ := launch.CurrentEnviron()
			hostRoot, err := resolveHostRoot(root, executable, environ)
			if err != nil {
				return err
			}
			py, err := launch.FindPython(hostRoot, launch.CurrentOS())
			if err != nil {
				return err
			}
			installed, err := launch.EnsureQtBinding(commandCtx(cmd), py, environ, ctx.log())
			if err != nil {
				return err
			}
			binding := launch.QtBinding(py.Minor)
			if installed {
				fmt.Fprintf(cmd.OutOrStdout(), "Installed %s into %s\n", binding, py.Executable)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already installed in %s\n", binding, py.Executable)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "3DEqualizer install root (defaults to $TDE4_ROOT)")
	cmd.Flags().StringVar(&executable, "executable", "", "Path to the 3de4 executable, used when no root is known")
	return cmd
}

// resolveHostRoot picks the install root from the flag, then TDE4_ROOT, then
// the executable's location.
func resolveHostRoot(root, executable string, environ map[string]string) (string, error) {
	if root = strings.TrimSpace(root); root != "" {
		return root, nil
	}
	env, err := launch.ParseEnvironment(environ)
	if err != nil {
		return "", err
	}
	if env.Root != "" {
		return env.Root, nil
	}
	if executable = strings.TrimSpace(executable); executable != "" {
		return launch.RootFromExecutable(executable, launch.CurrentOS())
	}
	return "", fmt.Errorf("3DEqualizer root unknown: pass --root, --executable or set %s", launch.EnvRoot)
}
