package domain

import (
	"context"
	"time"
)

// TaskReader provides a snapshot of the task tree.
type TaskReader interface {
	// List returns top-level tasks with their SubTasks attached.
	List(ctx context.Context) ([]*Task, error)
}

// TaskRepository manages task persistence.
// Tasks are stored one node at a time; the tree is rebuilt from ParentID.
type TaskRepository interface {
	TaskReader

	// Get retrieves a single task node by ID. Returns nil if not found.
	Get(ctx context.Context, id string) (*Task, error)

	// Save creates or updates a task node. SubTasks are not persisted.
	Save(ctx context.Context, task *Task) error

	// Delete removes a task node by ID.
	Delete(ctx context.Context, id string) error
}

// TaskFileReader parses task trees from files.
type TaskFileReader interface {
	// ReadTaskFile returns the top-level tasks of the file at path.
	// Times without an offset are read in loc.
	ReadTaskFile(path string, loc *time.Location) ([]*Task, error)
}

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize(ctx context.Context) error

	// IsInitialized reports whether the store exists.
	IsInitialized(ctx context.Context) bool
}

// Logger writes categorized log entries, optionally scoped to a task.
// An empty taskID logs to the global scope.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// NopLogger discards every entry.
type NopLogger struct{}

// Debug discards the entry.
func (NopLogger) Debug(_, _, _ string) {}

// Info discards the entry.
func (NopLogger) Info(_, _, _ string) {}

// Warn discards the entry.
func (NopLogger) Warn(_, _, _ string) {}

// Error discards the entry.
func (NopLogger) Error(_, _, _ string) {}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string // Absolute path of the file
	Content string // File content (empty if missing)
	Exists  bool   // Whether the file exists
}

// LoadConfigOptions selects which configuration sources are merged.
type LoadConfigOptions struct {
	IgnoreGlobal bool // Skip the global config file
	IgnoreRepo   bool // Skip the repository config file
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults <- global <- repo).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)

	// LoadRepo returns only the repository configuration.
	LoadRepo() (*Config, error)

	// LoadWithOptions returns the merged configuration honoring opts.
	LoadWithOptions(opts LoadConfigOptions) (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetRepoConfigInfo returns information about the repository config file.
	GetRepoConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitRepoConfig writes the default template to the repository config file.
	InitRepoConfig(cfg *Config) error

	// InitGlobalConfig writes the default template to the global config file.
	InitGlobalConfig(cfg *Config) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
