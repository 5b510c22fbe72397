package preflight

import (
	"path/filepath"

	"equalizer/internal/config"
	"equalizer/internal/launch"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to cfg. workfile is the project file
// the CLI was pointed at, if any; environ is the launch environment.
func RunAll(cfg *config.Config, workfile string, environ map[string]string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Log directory (always checked)
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	if cfg.Host.Backend == config.BackendSQLite {
		results = append(results, CheckDirectoryAccess("Project database directory", filepath.Dir(cfg.Paths.ProjectDB)))
	}

	if workfile != "" {
		results = append(results, CheckWorkfile(workfile, cfg.Host.WorkfileExtensions))
	}

	env, err := launch.ParseEnvironment(environ)
	if err != nil {
		results = append(results, Result{Name: "Launch environment", Detail: err.Error()})
		return results
	}
	if env.Root != "" {
		results = append(results, CheckHostPython(env.Root))
	} else {
		results = append(results, CheckBinary("3DEqualizer", "3de4", true))
	}
	return results
}
