package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/testutil"
	"github.com/runoshun/timegrid/internal/usecase"
)

func TestShowConfig_Execute(t *testing.T) {
	t.Run("returns both config infos and effective config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.RepoConfigInfo = domain.ConfigInfo{
			Path:    "/test/.timegrid/config.toml",
			Content: "[layout]\nzoom = \"in\"",
			Exists:  true,
		}
		manager.GlobalConfigInfo = domain.ConfigInfo{
			Path:    "/home/test/.config/timegrid/config.toml",
			Content: "[log]\nlevel = \"debug\"",
			Exists:  true,
		}

		loader := testutil.NewMockConfigLoader()
		loader.Config.Layout.Zoom = "in"
		loader.Config.Log.Level = "debug"

		uc := usecase.NewShowConfig(manager, loader)
		out, err := uc.Execute(context.Background(), usecase.ShowConfigInput{})

		require.NoError(t, err)
		assert.Equal(t, manager.RepoConfigInfo, out.RepoConfig)
		assert.Equal(t, manager.GlobalConfigInfo, out.GlobalConfig)
		assert.Equal(t, "in", out.Effective.Layout.Zoom)
		assert.Equal(t, "debug", out.Effective.Log.Level)
	})

	t.Run("reports missing files", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		uc := usecase.NewShowConfig(manager, testutil.NewMockConfigLoader())
		out, err := uc.Execute(context.Background(), usecase.ShowConfigInput{})

		require.NoError(t, err)
		assert.False(t, out.RepoConfig.Exists)
		assert.False(t, out.GlobalConfig.Exists)
		assert.Equal(t, domain.DefaultWeekStart, out.Effective.Layout.WeekStart)
	})

	t.Run("returns loader error", func(t *testing.T) {
		loader := testutil.NewMockConfigLoader()
		loader.LoadErr = errors.New("parse config.toml: bad")

		uc := usecase.NewShowConfig(testutil.NewMockConfigManager(), loader)
		_, err := uc.Execute(context.Background(), usecase.ShowConfigInput{})

		assert.ErrorContains(t, err, "load config: parse config.toml: bad")
	})
}
