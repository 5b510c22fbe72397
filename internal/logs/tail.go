package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"equalizer/internal/logging"
)

const maxLineSize = 1024 * 1024

// Matcher selects the lines to report. A nil Matcher accepts every line.
type Matcher func(line string) bool

// ProjectMatcher accepts console and JSON log lines that carry the given
// project field.
func ProjectMatcher(project string) Matcher {
	if project == "" {
		return nil
	}
	console := logging.FieldProject + "=" + project
	quoted := logging.FieldProject + "=" + strconv.Quote(project)
	jsonField := strconv.Quote(logging.FieldProject) + ":" + strconv.Quote(project)
	return func(line string) bool {
		return strings.Contains(line, jsonField) ||
			strings.Contains(line, quoted) ||
			strings.Contains(line, console+" ") ||
			strings.HasSuffix(line, console)
	}
}

func (m Matcher) accept(line string) bool {
	return m == nil || m(line)
}

// Last returns the final n matching lines of path, or every matching line
// when n <= 0, plus the file size to resume following from. A missing file
// yields no lines and offset 0.
func Last(path string, n int, match Matcher) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if !match.accept(line) {
			continue
		}
		lines = append(lines, line)
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}

	offset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, fmt.Errorf("determine log offset: %w", err)
	}
	return lines, offset, nil
}

// Follow polls path every interval and calls emit for each complete
// matching line written after offset. A file that shrinks below offset was
// truncated and is read again from the start. Follow returns when ctx is
// done.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, match Matcher, emit func(string)) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, match, emit)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// readFrom emits the complete lines after offset and returns the offset of
// the first byte not consumed. A trailing partial line is left for the
// next poll.
func readFrom(path string, offset int64, match Matcher, emit func(string)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return offset, nil
		}
		if err != nil {
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		line = strings.TrimRight(line, "\r\n")
		if match.accept(line) {
			emit(line)
		}
	}
}
