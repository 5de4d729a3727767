// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockTaskRepository is a test double for domain.TaskRepository.
// Nodes are kept flat; List rebuilds the tree in insertion order.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks     map[string]*domain.Task
	SaveErr   error
	GetErr    error
	ListErr   error
	DeleteErr error
	order     []string
	Saved     []string // IDs passed to Save, in call order
}

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks: make(map[string]*domain.Task),
	}
}

// Ensure MockTaskRepository implements domain.TaskRepository interface.
var _ domain.TaskRepository = (*MockTaskRepository)(nil)

// Seed stores every node of roots, children after their parent.
func (m *MockTaskRepository) Seed(roots ...*domain.Task) {
	for _, t := range domain.Flatten(roots) {
		m.put(t)
	}
}

func (m *MockTaskRepository) put(task *domain.Task) {
	if _, ok := m.Tasks[task.ID]; !ok {
		m.order = append(m.order, task.ID)
	}
	node := *task
	node.SubTasks = nil
	m.Tasks[task.ID] = &node
}

// Get retrieves a task by ID.
func (m *MockTaskRepository) Get(_ context.Context, id string) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	return task, nil
}

// List returns the task tree.
func (m *MockTaskRepository) List(_ context.Context) ([]*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	flat := make([]*domain.Task, 0, len(m.order))
	for _, id := range m.order {
		node := *m.Tasks[id]
		flat = append(flat, &node)
	}
	return domain.BuildTree(flat), nil
}

// Save saves a task node.
func (m *MockTaskRepository) Save(_ context.Context, task *domain.Task) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, task.ID)
	m.put(task)
	return nil
}

// Delete removes a task by ID.
func (m *MockTaskRepository) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// MockTaskReader is a read-only task source returning fixed tasks.
type MockTaskReader struct {
	ListErr error
	Tasks   []*domain.Task
	Calls   int
}

// Ensure MockTaskReader implements domain.TaskReader interface.
var _ domain.TaskReader = (*MockTaskReader)(nil)

// List returns the configured tasks.
func (m *MockTaskReader) List(_ context.Context) ([]*domain.Task, error) {
	m.Calls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Tasks, nil
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
	InitCalled  bool
}

// Initialize records the call.
func (m *MockStoreInitializer) Initialize(_ context.Context) error {
	m.InitCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized returns the configured value.
func (m *MockStoreInitializer) IsInitialized(_ context.Context) bool {
	return m.Initialized
}

// LogEntry is one call recorded by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// String formats the entry for assertion messages.
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] [%s] [%s] %s", e.Level, e.TaskID, e.Category, e.Msg)
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) record(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.record("DEBUG", taskID, category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.record("INFO", taskID, category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.record("WARN", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.record("ERROR", taskID, category, msg) }

// ByLevel returns the recorded entries of one level.
func (m *MockLogger) ByLevel(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	RepoConfig   *domain.Config
	LoadErr      error
	GlobalErr    error
	RepoErr      error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured global config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// LoadRepo returns the configured repo config or error.
func (m *MockConfigLoader) LoadRepo() (*domain.Config, error) {
	if m.RepoErr != nil {
		return nil, m.RepoErr
	}
	if m.RepoConfig != nil {
		return m.RepoConfig, nil
	}
	return m.Config, nil
}

// LoadWithOptions returns the global or repo config when the other source is ignored.
func (m *MockConfigLoader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	switch {
	case opts.IgnoreGlobal && opts.IgnoreRepo:
		return domain.NewDefaultConfig(), nil
	case opts.IgnoreRepo && m.GlobalConfig != nil:
		return m.GlobalConfig, nil
	case opts.IgnoreGlobal && m.RepoConfig != nil:
		return m.RepoConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitRepoErr      error
	InitGlobalErr    error
	InitConfig       *domain.Config
	RepoConfigInfo   domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitRepoCalled   bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		RepoConfigInfo: domain.ConfigInfo{
			Path:   "/test/.timegrid/config.toml",
			Exists: false,
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path:   "/home/test/.config/timegrid/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetRepoConfigInfo returns the configured repo config info.
func (m *MockConfigManager) GetRepoConfigInfo() domain.ConfigInfo {
	return m.RepoConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitRepoConfig records the call and returns configured error.
func (m *MockConfigManager) InitRepoConfig(cfg *domain.Config) error {
	m.InitRepoCalled = true
	m.InitConfig = cfg
	return m.InitRepoErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) error {
	m.InitGlobalCalled = true
	m.InitConfig = cfg
	return m.InitGlobalErr
}

// MockTaskFileReader is a test double for domain.TaskFileReader.
type MockTaskFileReader struct {
	Err      error
	Location *time.Location // Location passed to the last call
	Path     string         // Path passed to the last call
	Roots    []*domain.Task
}

// Ensure MockTaskFileReader implements domain.TaskFileReader interface.
var _ domain.TaskFileReader = (*MockTaskFileReader)(nil)

// ReadTaskFile records the call and returns the configured tree.
func (m *MockTaskFileReader) ReadTaskFile(path string, loc *time.Location) ([]*domain.Task, error) {
	m.Path = path
	m.Location = loc
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Roots, nil
}
