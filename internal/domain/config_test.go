package domain

import (
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, DefaultWeekStart, cfg.Layout.WeekStart)
	assert.Equal(t, DefaultZoom, cfg.Layout.Zoom)
	assert.Equal(t, StoreJSON, cfg.Tasks.Store)
	assert.Equal(t, DefaultNamespace, cfg.Tasks.Namespace)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLookbackDays, cfg.GCal.LookbackDays)
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"", time.Sunday, false},
		{"sunday", time.Sunday, false},
		{"Monday", time.Monday, false},
		{"mon", time.Monday, false},
		{"friday", time.Sunday, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeekday)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := NewDefaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Layout.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	cfg.Layout.Timezone = "Not/AZone"
	_, err = cfg.Location()
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestRenderConfigTemplate_IsValidTOML(t *testing.T) {
	content := RenderConfigTemplate(NewDefaultConfig())

	assert.Contains(t, content, `week_start = "sunday"`)
	assert.Contains(t, content, `store = "json"`)

	var raw map[string]any
	require.NoError(t, toml.Unmarshal([]byte(content), &raw))
	layout, ok := raw["layout"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "out", layout["zoom"])
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/work/.timegrid", RepoDataDir("/work"))
	assert.Equal(t, "/work/.timegrid/config.toml", RepoConfigPath("/work"))
	assert.Equal(t, "/home/u/.config/timegrid/config.toml", GlobalConfigPath("/home/u/.config"))
	assert.Equal(t, "/work/.timegrid/logs/timegrid.log", GlobalLogPath("/work/.timegrid"))
}
