package workfile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"equalizer/internal/fileutil"
	"equalizer/internal/logging"
)

// ErrNoWorkfile is returned by Save when neither a destination nor a current
// path is known.
var ErrNoWorkfile = errors.New("no workfile path")

// DefaultExtensions lists the workfile extensions used when none are
// configured.
var DefaultExtensions = []string{".3de"}

// Session is an open project. It implements host.Host.
type Session struct {
	mu         sync.Mutex
	path       string
	notes      string
	dirty      bool
	extensions []string
	onRefresh  func()
	logger     *slog.Logger
}

// Option customizes a Session.
type Option func(*Session)

// WithExtensions overrides the accepted workfile extensions.
func WithExtensions(exts []string) Option {
	return func(s *Session) {
		if len(exts) > 0 {
			s.extensions = slices.Clone(exts)
		}
	}
}

// WithRefreshHook registers fn to run on every Refresh.
func WithRefreshHook(fn func()) Option {
	return func(s *Session) {
		s.onRefresh = fn
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New starts an unsaved project. path may be empty until the first Save.
func New(path string, opts ...Option) *Session {
	s := &Session{
		path:       path,
		extensions: slices.Clone(DefaultExtensions),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "workfile")
	return s
}

// Open loads the project at path.
func Open(path string, opts ...Option) (*Session, error) {
	s := New("", opts...)
	if _, err := s.Open(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Open replaces the session contents with the project at path and returns
// the path. The previous contents are discarded even when unsaved.
func (s *Session) Open(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrNoWorkfile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve workfile path: %w", err)
	}

	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("open workfile %s: %w", abs, err)
	}

	lock := flock.New(lockPath(abs))
	if err := lock.RLock(); err != nil {
		return "", fmt.Errorf("lock workfile: %w", err)
	}
	data, readErr := os.ReadFile(abs)
	_ = lock.Unlock()
	if readErr != nil {
		return "", fmt.Errorf("open workfile %s: %w", abs, readErr)
	}

	s.mu.Lock()
	s.path = abs
	s.notes = string(data)
	s.dirty = false
	s.mu.Unlock()

	s.logger.Debug("workfile opened", logging.String(logging.FieldProject, abs))
	return abs, nil
}

// Save writes the project to dst, or to the current path when dst is empty,
// and makes dst the current path.
func (s *Session) Save(dst string) (string, error) {
	s.mu.Lock()
	if strings.TrimSpace(dst) == "" {
		dst = s.path
	}
	notes := s.notes
	s.mu.Unlock()

	if strings.TrimSpace(dst) == "" {
		return "", ErrNoWorkfile
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		return "", fmt.Errorf("resolve workfile path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create workfile directory: %w", err)
	}

	lock := flock.New(lockPath(abs))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock workfile: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := fileutil.WriteAtomic(abs, []byte(notes), 0o644); err != nil {
		return "", fmt.Errorf("failed to save workfile %s: %w", abs, err)
	}

	s.mu.Lock()
	s.path = abs
	if s.notes == notes {
		s.dirty = false
	}
	s.mu.Unlock()

	s.logger.Info("workfile saved", logging.String(logging.FieldProject, abs))
	return abs, nil
}

// Current returns the project path, or "" for a never-saved project.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// HasUnsavedChanges reports whether the notes changed since the last load or
// save.
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Extensions returns the accepted workfile extensions.
func (s *Session) Extensions() []string {
	return slices.Clone(s.extensions)
}

// Accepts reports whether path carries one of the workfile extensions.
func (s *Session) Accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(s.extensions, ext)
}

func (s *Session) GetNotes() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes, nil
}

func (s *Session) SetNotes(notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if notes != s.notes {
		s.notes = notes
		s.dirty = true
	}
	return nil
}

// Refresh runs the refresh hook, if any.
func (s *Session) Refresh() {
	s.mu.Lock()
	fn := s.onRefresh
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func lockPath(path string) string {
	return path + ".lock"
}
