package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/timegrid/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	dataDir       string // Path to .timegrid directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/timegrid)
}

// NewManager creates a new Manager.
func NewManager(dataDir string) *Manager {
	return &Manager{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(dataDir, globalConfDir string) *Manager {
	return &Manager{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// GetRepoConfigInfo returns information about the repository config file.
func (m *Manager) GetRepoConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(filepath.Join(m.dataDir, domain.ConfigFileName))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitRepoConfig creates a repository config file with default template.
func (m *Manager) InitRepoConfig(cfg *domain.Config) error {
	return m.initConfig(m.dataDir, cfg)
}

// InitGlobalConfig creates a global config file with default template.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	return m.initConfig(m.globalConfDir, cfg)
}

// initConfig creates dir/config.toml from the rendered template.
func (m *Manager) initConfig(dir string, cfg *domain.Config) error {
	path := filepath.Join(dir, domain.ConfigFileName)

	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(domain.RenderConfigTemplate(cfg)), 0600)
}
