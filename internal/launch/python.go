package launch

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Bundled Python minor versions probed, in order.
const (
	minPythonMinor  = 7
	maxPythonMinor  = 13
	maxPySide2Minor = 10
)

// Python is a Python installation shipped with the host.
type Python struct {
	Dir        string
	Minor      int
	Executable string
}

// RootFromExecutable derives the install root from the host executable,
// which must be named 3de4 (3de4.exe on Windows) and live in <root>/bin.
func RootFromExecutable(executable, goos string) (string, error) {
	expected := "3de4"
	if goos == "windows" {
		expected += ".exe"
	}
	if !strings.EqualFold(filepath.Base(executable), expected) {
		return "", fmt.Errorf("executable %s does not lead to %s", executable, expected)
	}
	return filepath.Dir(filepath.Dir(executable)), nil
}

// FindPython scans <root>/sys_data/py3<minor>_inst for the first existing
// Python and resolves its executable.
func FindPython(root, goos string) (Python, error) {
	pattern := filepath.Join(root, "sys_data", "py3%d_inst")
	for minor := minPythonMinor; minor <= maxPythonMinor; minor++ {
		dir := fmt.Sprintf(pattern, minor)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		exe, err := pythonExecutable(dir, minor, goos)
		if err != nil {
			return Python{}, err
		}
		return Python{Dir: dir, Minor: minor, Executable: exe}, nil
	}
	return Python{}, fmt.Errorf("couldn't find python for 3de4 in %s", pattern)
}

func pythonExecutable(dir string, minor int, goos string) (string, error) {
	candidates := []string{filepath.Join(dir, "python")}
	if goos == "windows" {
		candidates = []string{filepath.Join(dir, "python.exe")}
	} else {
		// builds with pymalloc carry an "m" suffix
		candidates = append(candidates, filepath.Join(dir, fmt.Sprintf("python3.%dm", minor)))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("couldn't find python executable for 3de4 in %s", dir)
}

// QtBinding returns the Qt binding to install for a Python 3 minor version.
func QtBinding(minor int) string {
	if minor <= maxPySide2Minor {
		return "PySide2"
	}
	return "PySide6"
}

// PipListArgs returns the command listing installed packages.
func (p Python) PipListArgs() []string {
	return []string{p.Executable, "-m", "pip", "list"}
}

// InstallArgs returns the command installing the Qt binding into the host's
// own site-packages.
func (p Python) InstallArgs() []string {
	return []string{p.Executable, "-m", "pip", "install", "--ignore-installed", QtBinding(p.Minor)}
}

// PackageInstalled scans `pip list` output for name. The dashes on the
// second line give the width of the package column.
func PackageInstalled(pipList, name string) bool {
	scanner := bufio.NewScanner(strings.NewReader(pipList))
	width := 0
	line := 0
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")
		line++
		switch {
		case line == 1:
			continue
		case line == 2:
			dashes, _, _ := strings.Cut(text, " ")
			width = len(dashes)
			continue
		case text == "":
			continue
		}
		column := text
		if width > 0 && len(text) > width {
			column = text[:width]
		}
		if strings.EqualFold(strings.TrimSpace(column), name) {
			return true
		}
	}
	return false
}

// CurrentOS returns runtime.GOOS for the OS-dependent helpers.
func CurrentOS() string {
	return runtime.GOOS
}
