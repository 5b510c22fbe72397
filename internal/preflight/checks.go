package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sys/unix"

	"equalizer/internal/launch"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckWorkfile verifies the workfile extension and that it can be saved:
// an existing file must be writable, a new one needs a writable directory.
func CheckWorkfile(path string, extensions []string) Result {
	const name = "Workfile"

	ext := strings.ToLower(filepath.Ext(path))
	if len(extensions) > 0 && !slices.Contains(extensions, ext) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: extension %q not in %v)", path, ext, extensions)}
	}
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	case err == nil:
		if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
	case os.IsNotExist(err):
		dir := CheckDirectoryAccess(name, filepath.Dir(path))
		if !dir.Passed {
			return dir
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (new, directory writable)", path)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
}

// CheckHostPython verifies that the host install under root bundles a Python
// and reports the Qt binding it needs.
func CheckHostPython(root string) Result {
	const name = "3DEqualizer python"

	py, err := launch.FindPython(root, launch.CurrentOS())
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s (python 3.%d, needs %s)", py.Executable, py.Minor, launch.QtBinding(py.Minor)),
	}
}

// CheckBinary verifies that command resolves on PATH. Optional binaries
// pass with a note when missing.
func CheckBinary(name, command string, optional bool) Result {
	path, err := exec.LookPath(command)
	if err != nil {
		if optional {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("binary %q not found (optional)", command)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", command)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
