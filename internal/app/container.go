// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/infra/config"
	"github.com/runoshun/timegrid/internal/infra/gcal"
	"github.com/runoshun/timegrid/internal/infra/git"
	"github.com/runoshun/timegrid/internal/infra/gitstore"
	"github.com/runoshun/timegrid/internal/infra/jsonstore"
	"github.com/runoshun/timegrid/internal/infra/logging"
	"github.com/runoshun/timegrid/internal/infra/neo4jstore"
	"github.com/runoshun/timegrid/internal/infra/taskfile"
	"github.com/runoshun/timegrid/internal/server"
	"github.com/runoshun/timegrid/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	RepoRoot  string // Workspace root (git toplevel, or the working directory)
	DataDir   string // Path to .timegrid directory
	StorePath string // Path to the JSON task store
	GlobalDir string // Global config directory (credentials and token defaults)
}

// newConfig derives the paths below root.
func newConfig(root, globalDir string) Config {
	dataDir := domain.RepoDataDir(root)
	return Config{
		RepoRoot:  root,
		DataDir:   dataDir,
		StorePath: filepath.Join(dataDir, domain.StoreFileName),
		GlobalDir: globalDir,
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskRepository
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	TaskFiles        domain.TaskFileReader
	TaskLogger       domain.Logger

	// Pointer fields
	Logger    *slog.Logger
	AppConfig *domain.Config
	level     *slog.LevelVar
	closers   []func(context.Context) error

	// Configuration
	Config Config
}

// New creates a new Container for the workspace enclosing dir.
// The task store is selected by [tasks] store.
func New(dir string) (*Container, error) {
	root, err := git.FindRoot(dir)
	if err != nil {
		return nil, err
	}

	loader := config.NewLoader(domain.RepoDataDir(root))
	cfg := newConfig(root, loader.GlobalDir())

	appConfig, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := new(slog.LevelVar)
	level.Set(logging.ParseLevel(appConfig.Log.Level))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	taskLogger := logging.New(cfg.DataDir, logging.ParseLevel(appConfig.Log.Level))
	taskLogger.SetMirror(logger)

	c := &Container{
		Clock:         domain.RealClock{},
		ConfigLoader:  loader,
		ConfigManager: config.NewManager(cfg.DataDir),
		TaskFiles:     taskfile.Reader{},
		TaskLogger:    taskLogger,
		Logger:        logger,
		AppConfig:     appConfig,
		level:         level,
		closers:       []func(context.Context) error{func(context.Context) error { return taskLogger.Close() }},
		Config:        cfg,
	}
	if err := c.openStore(); err != nil {
		return nil, err
	}
	return c, nil
}

// openStore binds Tasks and StoreInitializer to the configured backend.
func (c *Container) openStore() error {
	tasks := c.AppConfig.Tasks
	switch tasks.Store {
	case domain.StoreJSON, "":
		path := tasks.Path
		if path == "" {
			path = c.Config.StorePath
		} else if !filepath.IsAbs(path) {
			path = filepath.Join(c.Config.RepoRoot, path)
		}
		c.Config.StorePath = path
		store := jsonstore.New(path)
		c.Tasks, c.StoreInitializer = store, store

	case domain.StoreGit:
		client, err := git.NewClient(c.Config.RepoRoot)
		if err != nil {
			return err
		}
		store := gitstore.NewWithRepo(client.Repository(), tasks.Namespace)
		c.Tasks, c.StoreInitializer = store, store

	case domain.StoreNeo4j:
		store, err := neo4jstore.Open(c.AppConfig.Neo4j)
		if err != nil {
			return err
		}
		c.Tasks, c.StoreInitializer = store, store
		c.closers = append(c.closers, store.Close)

	case domain.StoreGCal:
		gc := c.AppConfig.GCal
		loc, err := c.AppConfig.Location()
		if err != nil {
			return err
		}
		credentials, token := c.GCalPaths()
		src := &lazySource{open: func(ctx context.Context) (domain.TaskReader, error) {
			return gcal.Open(ctx, credentials, token, gcal.Options{
				Clock:     c.Clock,
				Location:  loc,
				Calendar:  gc.Calendar,
				Lookback:  gc.LookbackDays,
				Lookahead: gc.LookaheadDays,
			})
		}}
		ro := readOnly{TaskReader: src}
		c.Tasks, c.StoreInitializer = ro, ro

	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownStore, tasks.Store)
	}
	return nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, tasks domain.TaskRepository, storeInit domain.StoreInitializer, clock domain.Clock, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		Clock:            clock,
		TaskFiles:        taskfile.Reader{},
		TaskLogger:       domain.NopLogger{},
		Logger:           logger,
		AppConfig:        domain.NewDefaultConfig(),
		level:            new(slog.LevelVar),
		Config:           cfg,
	}
}

// SetVerbose lowers the stderr log level to debug.
func (c *Container) SetVerbose(verbose bool) {
	if verbose && c.level != nil {
		c.level.Set(slog.LevelDebug)
	}
}

// Close releases store connections and the log file.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn(ctx))
	}
	c.closers = nil
	return errors.Join(errs...)
}

// GCalPaths returns the OAuth client secrets and token paths,
// defaulting to files in the global config directory.
func (c *Container) GCalPaths() (credentials, token string) {
	gc := domain.GCalConfig{}
	if c.AppConfig != nil {
		gc = c.AppConfig.GCal
	}
	credentials, token = gc.Credentials, gc.Token
	if credentials == "" && c.Config.GlobalDir != "" {
		credentials = filepath.Join(c.Config.GlobalDir, domain.SecretFileName)
	}
	if token == "" && c.Config.GlobalDir != "" {
		token = filepath.Join(c.Config.GlobalDir, domain.TokenFileName)
	}
	return credentials, token
}

// GCalAuthenticator returns the OAuth helper for the Google Calendar source.
func (c *Container) GCalAuthenticator() (*gcal.Authenticator, error) {
	credentials, token := c.GCalPaths()
	return gcal.NewAuthenticator(credentials, token)
}

// UseCase factory methods

// ShowTimelineUseCase returns a new ShowTimeline use case.
func (c *Container) ShowTimelineUseCase() *usecase.ShowTimeline {
	return usecase.NewShowTimeline(c.Tasks, c.ConfigLoader, c.Clock, c.taskLogger())
}

// ShowCalendarUseCase returns a new ShowCalendar use case.
func (c *Container) ShowCalendarUseCase() *usecase.ShowCalendar {
	return usecase.NewShowCalendar(c.Tasks, c.ConfigLoader, c.Clock, c.taskLogger())
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Tasks, c.TaskFiles, c.ConfigLoader, c.taskLogger())
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager, c.taskLogger())
}

// Server returns the HTTP server wired to the layout use cases.
func (c *Container) Server() *server.Server {
	return server.New(server.Deps{
		Timeline:  c.ShowTimelineUseCase(),
		Calendar:  c.ShowCalendarUseCase(),
		ListTasks: c.ListTasksUseCase(),
		ShowTask:  c.ShowTaskUseCase(),
		Logger:    c.Logger,
	})
}

func (c *Container) taskLogger() domain.Logger {
	if c.TaskLogger == nil {
		return domain.NopLogger{}
	}
	return c.TaskLogger
}

// lazySource opens a task source on first use so commands that never read
// tasks (auth, config) work before credentials exist.
type lazySource struct {
	reader domain.TaskReader
	err    error
	open   func(ctx context.Context) (domain.TaskReader, error)
	once   sync.Once
}

func (s *lazySource) List(ctx context.Context) ([]*domain.Task, error) {
	s.once.Do(func() {
		s.reader, s.err = s.open(ctx)
	})
	if s.err != nil {
		return nil, s.err
	}
	return s.reader.List(ctx)
}

// readOnly adapts a TaskReader to TaskRepository, rejecting every write.
type readOnly struct {
	domain.TaskReader
}

func (readOnly) Get(context.Context, string) (*domain.Task, error) {
	return nil, domain.ErrReadOnlyStore
}

func (readOnly) Save(context.Context, *domain.Task) error {
	return domain.ErrReadOnlyStore
}

func (readOnly) Delete(context.Context, string) error {
	return domain.ErrReadOnlyStore
}

func (readOnly) Initialize(context.Context) error {
	return nil
}

func (readOnly) IsInitialized(context.Context) bool {
	return true
}
