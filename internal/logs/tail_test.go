package logs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"equalizer/internal/logs"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append log: %v", err)
	}
}

func TestLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equalizer.log")
	writeLog(t, path, "a\nb\nc\n")

	lines, offset, err := logs.Last(path, 2, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if !slices.Equal(lines, []string{"b", "c"}) {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != 6 {
		t.Fatalf("expected offset 6, got %d", offset)
	}

	all, _, err := logs.Last(path, 0, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all lines, got %#v (%v)", all, err)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "none.log"), 10, nil)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %#v %d %v", lines, offset, err)
	}
}

func TestProjectMatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equalizer.log")
	writeLog(t, path, strings.Join([]string{
		"2026-01-01T00:00:00Z INFO workfile saved project=/shots/a.3de",
		"2026-01-01T00:00:01Z INFO workfile saved project=/shots/ab.3de",
		`{"ts":"2026-01-01T00:00:02Z","msg":"saved","project":"/shots/a.3de"}`,
		"2026-01-01T00:00:03Z INFO container added project=/shots/a.3de container=A/test",
	}, "\n")+"\n")

	lines, _, err := logs.Last(path, 0, logs.ProjectMatcher("/shots/a.3de"))
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 matching lines, got %#v", lines)
	}
	if logs.ProjectMatcher("") != nil {
		t.Fatal("expected nil matcher for empty project")
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equalizer.log")
	writeLog(t, path, "start\n")

	_, offset, err := logs.Last(path, 1, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, nil, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	appendLog(t, path, "later\npartial")
	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(got, []string{"later"}) {
		t.Fatalf("unexpected followed lines: %#v", got)
	}
}
