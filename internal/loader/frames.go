package loader

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// FrameRange returns the sequence range including handles:
// frameStart-handleStart through frameEnd+handleEnd. Handles default to 0.
func FrameRange(attrs map[string]any) (int, int, error) {
	start, err := intAttr(attrs, "frameStart", true)
	if err != nil {
		return 0, 0, err
	}
	end, err := intAttr(attrs, "frameEnd", true)
	if err != nil {
		return 0, 0, err
	}
	handleStart, err := intAttr(attrs, "handleStart", false)
	if err != nil {
		return 0, 0, err
	}
	handleEnd, err := intAttr(attrs, "handleEnd", false)
	if err != nil {
		return 0, 0, err
	}
	return start - handleStart, end + handleEnd, nil
}

// FPS returns the fps attribute, 0 when absent.
func FPS(attrs map[string]any) (float64, error) {
	raw, ok := attrs["fps"]
	if !ok || raw == nil {
		return 0, nil
	}
	return toFloat(raw)
}

// FormatPath checks that path exists and, when frame is set, replaces the
// frame digits before the extension with one '#' per digit of frame.
// Separators are normalized to forward slashes.
func FormatPath(path, frame string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("path does not exist: %s: %w", path, err)
	}

	filename := path
	if frame != "" {
		ext := filepath.Ext(path)
		pattern := regexp.MustCompile(`^(.*)\.(\d+)` + regexp.QuoteMeta(ext) + `$`)
		hashes := strings.Repeat("#", len(frame))
		if m := pattern.FindStringSubmatch(path); m != nil {
			filename = m[1] + "." + hashes + ext
		}
	}
	filename = filepath.Clean(filename)
	return strings.ReplaceAll(filename, `\`, "/"), nil
}

func intAttr(attrs map[string]any, key string, required bool) (int, error) {
	raw, ok := attrs[key]
	if !ok || raw == nil {
		if required {
			return 0, fmt.Errorf("version attribute %s is missing", key)
		}
		return 0, nil
	}
	f, err := toFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("version attribute %s: %w", key, err)
	}
	return int(math.Trunc(f)), nil
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("unexpected %T", raw)
}
