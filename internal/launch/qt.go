package launch

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"

	"equalizer/internal/logging"
)

// EnsureQtBinding installs the Qt binding into py unless pip already lists
// it. It reports whether an install ran.
func EnsureQtBinding(ctx context.Context, py Python, environ map[string]string, logger *slog.Logger) (bool, error) {
	logger = logging.NewComponentLogger(logger, "launch")
	binding := QtBinding(py.Minor)

	listArgs := py.PipListArgs()
	list := exec.CommandContext(ctx, listArgs[0], listArgs[1:]...)
	list.Env = envList(environ)
	out, err := list.Output()
	if err != nil {
		return false, fmt.Errorf("pip list: %w", err)
	}
	if PackageInstalled(string(out), binding) {
		logger.Debug("qt binding already installed", logging.String("binding", binding))
		return false, nil
	}

	installArgs := py.InstallArgs()
	install := exec.CommandContext(ctx, installArgs[0], installArgs[1:]...)
	install.Env = envList(environ)
	if output, err := install.CombinedOutput(); err != nil {
		logging.WarnWithContext(logger, "failed to install qt binding", "qt_install_failed",
			logging.String("binding", binding),
			logging.String("output", string(output)),
			logging.String(logging.FieldErrorHint, "install "+binding+" into the 3DEqualizer python manually"),
			logging.Error(err))
		return false, fmt.Errorf("install %s: %w", binding, err)
	}
	logger.Info("qt binding installed", logging.String("binding", binding))
	return true, nil
}

func envList(environ map[string]string) []string {
	if environ == nil {
		return nil
	}
	out := make([]string, 0, len(environ))
	for k, v := range environ {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
