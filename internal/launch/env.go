package launch

import (
	"fmt"
	"maps"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Environment variable names read and written at launch.
const (
	EnvRoot          = "TDE4_ROOT"
	EnvCustomScripts = "PYTHON_CUSTOM_SCRIPTS_3DE4"
	EnvHeartbeat     = "AYON_TDE4_HEARTBEAT_INTERVAL"
)

// Environment is the launch-relevant subset of a process environment.
type Environment struct {
	Root          string `env:"TDE4_ROOT"`
	CustomScripts string `env:"PYTHON_CUSTOM_SCRIPTS_3DE4"`
	Heartbeat     int    `env:"AYON_TDE4_HEARTBEAT_INTERVAL" envDefault:"100"`
}

// CurrentEnviron returns the process environment as a map.
func CurrentEnviron() map[string]string {
	return env.ToMap(os.Environ())
}

// ParseEnvironment reads Environment from environ.
func ParseEnvironment(environ map[string]string) (Environment, error) {
	var e Environment
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return Environment{}, fmt.Errorf("parse launch environment: %w", err)
	}
	return e, nil
}

// ImplementationEnv returns a copy of environ prepared for the host: the
// startup directory is appended to the custom script search list and the
// heartbeat interval is exported.
func ImplementationEnv(environ map[string]string, startupDir string, heartbeat int) map[string]string {
	out := maps.Clone(environ)
	if out == nil {
		out = map[string]string{}
	}
	scripts := startupDir
	if existing := out[EnvCustomScripts]; existing != "" {
		scripts = existing + string(os.PathListSeparator) + startupDir
	}
	out[EnvCustomScripts] = scripts
	out[EnvHeartbeat] = strconv.Itoa(heartbeat)
	return out
}

// LastWorkfileArgs returns the arguments that open the last workfile on
// start, or nil with the reason they were skipped.
func LastWorkfileArgs(startLast bool, lastWorkfile string) ([]string, string) {
	if !startLast {
		return nil, "it is set to not start last workfile on start"
	}
	if lastWorkfile == "" {
		return nil, "last workfile was not collected"
	}
	if _, err := os.Stat(lastWorkfile); err != nil {
		return nil, "current context does not have any workfile yet"
	}
	return []string{"-open", lastWorkfile}, ""
}
