package publish

import (
	"fmt"
	"regexp"
	"strconv"
)

var hostVersionPattern = regexp.MustCompile(`3DEqualizer4 Release (\d+)\.(\d+)`)

// HostVersion is the host application release.
type HostVersion struct {
	Major int
	Minor int
}

func (v HostVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseHostVersion extracts the release from a version banner such as
// "3DEqualizer4 Release 7.1v2".
func ParseHostVersion(banner string) (HostVersion, error) {
	m := hostVersionPattern.FindStringSubmatch(banner)
	if m == nil {
		return HostVersion{}, fmt.Errorf("failed to extract 3DEqualizer version from %q", banner)
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return HostVersion{}, fmt.Errorf("parse major version: %w", err)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return HostVersion{}, fmt.Errorf("parse minor version: %w", err)
	}
	return HostVersion{Major: major, Minor: minor}, nil
}
