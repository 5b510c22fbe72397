package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// checkState is the outcome shown in a doctor line.
type checkState int

const (
	checkInfo checkState = iota
	checkOK
	checkFailed
)

var checkStyles = map[checkState]struct {
	label string
	color string
}{
	checkInfo:   {"INFO", "\x1b[34m"},
	checkOK:     {"OK", "\x1b[32m"},
	checkFailed: {"ERROR", "\x1b[31m"},
}

const colorReset = "\x1b[0m"

// renderCheckLine formats "  Label:   [STATE] detail", colored when the
// output is a terminal.
func renderCheckLine(label string, state checkState, detail string, colorize bool) string {
	style := checkStyles[state]
	line := fmt.Sprintf("  %-28s [%s]", label+":", style.label)
	if detail != "" {
		line += " " + detail
	}
	if colorize {
		return style.color + line + colorReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
