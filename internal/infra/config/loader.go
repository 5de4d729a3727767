// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/timegrid/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to .timegrid directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/timegrid)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// GlobalDir returns the global config directory (empty if unknown).
func (l *Loader) GlobalDir() string {
	return l.globalConfDir
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration (repo + global).
// Repository config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadRepo returns only the repository configuration.
func (l *Loader) LoadRepo() (*domain.Config, error) {
	return l.loadFile(filepath.Join(l.dataDir, domain.ConfigFileName))
}

// LoadWithOptions returns the merged configuration with options to ignore sources.
func (l *Loader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	var global, repo *domain.Config
	var err error

	if !opts.IgnoreGlobal {
		global, err = l.LoadGlobal()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if !opts.IgnoreRepo {
		repo, err = l.LoadRepo()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// Merge: default <- global <- repo (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if repo != nil {
		base = mergeConfigs(base, repo)
	}

	return base, nil
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}

		var unknown []string
		switch section {
		case "layout":
			unknown = parseLayoutSection(m, &res.Layout)
		case "tasks":
			unknown = parseTasksSection(m, &res.Tasks)
		case "neo4j":
			unknown = parseNeo4jSection(m, &res.Neo4j)
		case "gcal":
			unknown = parseGCalSection(m, &res.GCal)
		case "server":
			for k, v := range m {
				switch k {
				case "addr":
					if s, ok := v.(string); ok {
						res.Server.Addr = s
					}
				default:
					unknown = append(unknown, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.Log.Level = s
					}
				default:
					unknown = append(unknown, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}

		for _, k := range unknown {
			warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func parseLayoutSection(m map[string]any, out *domain.LayoutConfig) []string {
	var unknown []string
	for k, v := range m {
		switch k {
		case "week_start":
			if s, ok := v.(string); ok {
				out.WeekStart = s
			}
		case "timezone":
			if s, ok := v.(string); ok {
				out.Timezone = s
			}
		case "zoom":
			if s, ok := v.(string); ok {
				out.Zoom = s
			}
		case "narrow":
			if b, ok := v.(bool); ok {
				out.Narrow = b
				out.NarrowSet = true
			}
		default:
			unknown = append(unknown, k)
		}
	}
	return unknown
}

func parseTasksSection(m map[string]any, out *domain.TasksConfig) []string {
	var unknown []string
	for k, v := range m {
		switch k {
		case "store":
			if s, ok := v.(string); ok {
				out.Store = s
			}
		case "path":
			if s, ok := v.(string); ok {
				out.Path = s
			}
		case "namespace":
			if s, ok := v.(string); ok {
				out.Namespace = s
			}
		default:
			unknown = append(unknown, k)
		}
	}
	return unknown
}

func parseNeo4jSection(m map[string]any, out *domain.Neo4jConfig) []string {
	var unknown []string
	for k, v := range m {
		s, isString := v.(string)
		switch k {
		case "uri":
			if isString {
				out.URI = s
			}
		case "username":
			if isString {
				out.Username = s
			}
		case "password":
			if isString {
				out.Password = s
			}
		case "database":
			if isString {
				out.Database = s
			}
		default:
			unknown = append(unknown, k)
		}
	}
	return unknown
}

func parseGCalSection(m map[string]any, out *domain.GCalConfig) []string {
	var unknown []string
	for k, v := range m {
		switch k {
		case "calendar":
			if s, ok := v.(string); ok {
				out.Calendar = s
			}
		case "credentials":
			if s, ok := v.(string); ok {
				out.Credentials = s
			}
		case "token":
			if s, ok := v.(string); ok {
				out.Token = s
			}
		case "lookback_days":
			if n, ok := v.(int64); ok {
				out.LookbackDays = int(n)
			}
		case "lookahead_days":
			if n, ok := v.(int64); ok {
				out.LookaheadDays = int(n)
			}
		default:
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		GCal:     base.GCal,
		Neo4j:    base.Neo4j,
		Layout:   base.Layout,
		Tasks:    base.Tasks,
		Server:   base.Server,
		Log:      base.Log,
		Warnings: append([]string{}, base.Warnings...),
	}

	// Add override warnings
	result.Warnings = append(result.Warnings, override.Warnings...)

	if override.Layout.WeekStart != "" {
		result.Layout.WeekStart = override.Layout.WeekStart
	}
	if override.Layout.Timezone != "" {
		result.Layout.Timezone = override.Layout.Timezone
	}
	if override.Layout.Zoom != "" {
		result.Layout.Zoom = override.Layout.Zoom
	}
	if override.Layout.NarrowSet {
		result.Layout.Narrow = override.Layout.Narrow
		result.Layout.NarrowSet = true
	}

	if override.Tasks.Store != "" {
		result.Tasks.Store = override.Tasks.Store
	}
	if override.Tasks.Path != "" {
		result.Tasks.Path = override.Tasks.Path
	}
	if override.Tasks.Namespace != "" {
		result.Tasks.Namespace = override.Tasks.Namespace
	}

	if override.Neo4j.URI != "" {
		result.Neo4j.URI = override.Neo4j.URI
	}
	if override.Neo4j.Username != "" {
		result.Neo4j.Username = override.Neo4j.Username
	}
	if override.Neo4j.Password != "" {
		result.Neo4j.Password = override.Neo4j.Password
	}
	if override.Neo4j.Database != "" {
		result.Neo4j.Database = override.Neo4j.Database
	}

	if override.GCal.Calendar != "" {
		result.GCal.Calendar = override.GCal.Calendar
	}
	if override.GCal.Credentials != "" {
		result.GCal.Credentials = override.GCal.Credentials
	}
	if override.GCal.Token != "" {
		result.GCal.Token = override.GCal.Token
	}
	if override.GCal.LookbackDays != 0 {
		result.GCal.LookbackDays = override.GCal.LookbackDays
	}
	if override.GCal.LookaheadDays != 0 {
		result.GCal.LookaheadDays = override.GCal.LookaheadDays
	}

	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}

	return result
}
