package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	GCal     GCalConfig   `toml:"gcal"`
	Neo4j    Neo4jConfig  `toml:"neo4j"`
	Layout   LayoutConfig `toml:"layout"`
	Tasks    TasksConfig  `toml:"tasks"`
	Server   ServerConfig `toml:"server"`
	Log      LogConfig    `toml:"log"`
}

// LayoutConfig holds view settings from [layout] section.
type LayoutConfig struct {
	WeekStart string `toml:"week_start,omitempty"` // First day of the week: "sunday" (default) or "monday"
	Timezone  string `toml:"timezone,omitempty"`   // IANA zone used to place tasks on days (default: local)
	Zoom      string `toml:"zoom,omitempty"`       // Default timeline zoom: "out" (default) or "in"
	Narrow    bool   `toml:"narrow,omitempty"`     // Use the compact grid scale (48px per hour)
	NarrowSet bool   `toml:"-"`                    // True if Narrow was explicitly set in config
}

// TasksConfig holds settings for task storage from [tasks] section.
type TasksConfig struct {
	Store     string `toml:"store,omitempty"`     // Storage backend: "json" (default), "git", "neo4j" or "gcal"
	Path      string `toml:"path,omitempty"`      // JSON store path (default: .timegrid/tasks.json)
	Namespace string `toml:"namespace,omitempty"` // Git namespace for refs (default: "timegrid")
}

// Neo4jConfig holds connection settings from [neo4j] section.
type Neo4jConfig struct {
	URI      string `toml:"uri,omitempty"`
	Username string `toml:"username,omitempty"`
	Password string `toml:"password,omitempty"`
	Database string `toml:"database,omitempty"`
}

// GCalConfig holds Google Calendar source settings from [gcal] section.
// Fields are ordered to minimize memory padding.
type GCalConfig struct {
	Calendar      string `toml:"calendar,omitempty"`    // Calendar ID (default: "primary")
	Credentials   string `toml:"credentials,omitempty"` // OAuth client secrets JSON path
	Token         string `toml:"token,omitempty"`       // OAuth token JSON path
	LookbackDays  int    `toml:"lookback_days,omitempty"`
	LookaheadDays int    `toml:"lookahead_days,omitempty"`
}

// ServerConfig holds HTTP API settings from [server] section.
type ServerConfig struct {
	Addr string `toml:"addr,omitempty"` // Listen address (default: "127.0.0.1:8080")
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// Task store backends.
const (
	StoreJSON  = "json"
	StoreGit   = "git"
	StoreNeo4j = "neo4j"
	StoreGCal  = "gcal"
)

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultWeekStart     = "sunday"
	DefaultZoom          = "out"
	DefaultNamespace     = "timegrid"
	DefaultServerAddr    = "127.0.0.1:8080"
	DefaultGCalCalendar  = "primary"
	DefaultLookbackDays  = 30
	DefaultLookaheadDays = 90
	DefaultNeo4jURI      = "neo4j://localhost:7687"
)

// Directory and file names for timegrid.
const (
	AppName        = "timegrid"    // Used for the global config directory
	DataDirName    = ".timegrid"   // Per-workspace data directory
	ConfigFileName = "config.toml" // Config file name
	StoreFileName  = "tasks.json"  // JSON store file name
	LogFileName    = "timegrid.log"
	TokenFileName  = "token.json"
	SecretFileName = "credentials.json"
)

// RepoDataDir returns the data directory of a workspace.
func RepoDataDir(root string) string {
	return filepath.Join(root, DataDirName)
}

// RepoConfigPath returns the workspace config path.
func RepoConfigPath(root string) string {
	return filepath.Join(RepoDataDir(root), ConfigFileName)
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// GlobalLogPath returns the log file path inside a data directory.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", LogFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			WeekStart: DefaultWeekStart,
			Zoom:      DefaultZoom,
		},
		Tasks: TasksConfig{
			Store:     StoreJSON,
			Namespace: DefaultNamespace,
		},
		Neo4j: Neo4jConfig{
			URI: DefaultNeo4jURI,
		},
		GCal: GCalConfig{
			Calendar:      DefaultGCalCalendar,
			LookbackDays:  DefaultLookbackDays,
			LookaheadDays: DefaultLookaheadDays,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Location resolves the configured timezone. Empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Layout.Timezone == "" || strings.EqualFold(c.Layout.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Layout.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, c.Layout.Timezone)
	}
	return loc, nil
}

// WeekStartDay resolves the configured first day of the week.
func (c *Config) WeekStartDay() (time.Weekday, error) {
	return ParseWeekday(c.Layout.WeekStart)
}

// ParseWeekday parses "sunday" or "monday" (case-insensitive, empty = sunday).
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
}

// templateData holds all data for rendering the config template.
type templateData struct {
	WeekStart  string
	Zoom       string
	Store      string
	Namespace  string
	Neo4jURI   string
	Calendar   string
	ServerAddr string
	LogLevel   string
	Lookback   int
	Lookahead  int
}

// RenderConfigTemplate renders the commented config template from cfg.
func RenderConfigTemplate(cfg *Config) string {
	data := templateData{
		WeekStart:  cfg.Layout.WeekStart,
		Zoom:       cfg.Layout.Zoom,
		Store:      cfg.Tasks.Store,
		Namespace:  cfg.Tasks.Namespace,
		Neo4jURI:   cfg.Neo4j.URI,
		Calendar:   cfg.GCal.Calendar,
		Lookback:   cfg.GCal.LookbackDays,
		Lookahead:  cfg.GCal.LookaheadDays,
		ServerAddr: cfg.Server.Addr,
		LogLevel:   cfg.Log.Level,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
