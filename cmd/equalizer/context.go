package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"equalizer/internal/config"
	"equalizer/internal/logging"
	"equalizer/internal/metadata"
	"equalizer/internal/pipeline"
	"equalizer/internal/projectdb"
	"equalizer/internal/workfile"
)

type commandContext struct {
	configFlag   *string
	workfileFlag *string
	projectFlag  *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, workfileFlag, projectFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		workfileFlag: workfileFlag,
		projectFlag:  projectFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// log returns the CLI logger, falling back to a no-op logger when the log
// file cannot be opened.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) workfilePath() (string, error) {
	if c.workfileFlag == nil || strings.TrimSpace(*c.workfileFlag) == "" {
		return "", nil
	}
	return config.ExpandPath(strings.TrimSpace(*c.workfileFlag))
}

// project is an opened project: its registry and the backend that holds
// the notes.
type project struct {
	key      string
	registry *pipeline.Registry
	session  *workfile.Session
	db       *projectdb.Store
	logger   *slog.Logger
}

func (c *commandContext) openProject(ctx context.Context) (*project, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	path, err := c.workfilePath()
	if err != nil {
		return nil, fmt.Errorf("resolve workfile path: %w", err)
	}

	if cfg.Host.Backend == config.BackendSQLite {
		key := path
		if c.projectFlag != nil && strings.TrimSpace(*c.projectFlag) != "" {
			key = strings.TrimSpace(*c.projectFlag)
		}
		if key == "" {
			return nil, errors.New("--project or --workfile is required for the sqlite backend")
		}
		logger := logging.WithContext(logging.WithProject(ctx, key), c.log())
		db, err := projectdb.Open(cfg.Paths.ProjectDB, logger)
		if err != nil {
			return nil, err
		}
		var store metadata.Store
		if cfg.Host.NativeDocuments {
			store = db.DocumentStore(ctx, key)
		} else {
			store = metadata.NewNotesStore(db.NotesHost(ctx, key), logger)
		}
		return &project{key: key, registry: pipeline.NewRegistry(store, logger), db: db, logger: logger}, nil
	}

	if path == "" {
		return nil, fmt.Errorf("--workfile is required for the workfile backend: %w", workfile.ErrNoWorkfile)
	}
	logger := logging.WithContext(logging.WithProject(ctx, path), c.log())
	session := workfile.New(path,
		workfile.WithExtensions(cfg.Host.WorkfileExtensions),
		workfile.WithLogger(logger),
	)
	if !session.Accepts(path) {
		return nil, fmt.Errorf("workfile %s: extension not in %v", path, session.Extensions())
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := session.Open(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat workfile: %w", err)
	}
	store := metadata.NewNotesStore(session, logger)
	return &project{key: path, registry: pipeline.NewRegistry(store, logger), session: session, logger: logger}, nil
}

// commit persists a workfile changed by the command. Database writes are
// already durable.
func (p *project) commit() error {
	if p.session == nil || !p.session.HasUnsavedChanges() {
		return nil
	}
	if _, err := p.session.Save(""); err != nil {
		return fmt.Errorf("save workfile: %w", err)
	}
	return nil
}

func (p *project) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// withProject opens the project, runs fn, and saves the workfile when
// mutate is set and fn succeeded.
func (c *commandContext) withProject(cmd *cobra.Command, mutate bool, fn func(*project) error) (err error) {
	p, err := c.openProject(commandCtx(cmd))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := p.Close(); err == nil {
			err = closeErr
		}
	}()
	if err := fn(p); err != nil {
		return err
	}
	if mutate {
		return p.commit()
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// parseAssignments turns key=value arguments into a map. Values that parse
// as JSON keep their type; anything else is a string.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (want key=value)", pair)
		}
		value, err := metadata.DecodeValue(raw)
		if err != nil {
			value = raw
		}
		out[key] = value
	}
	return out, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
