package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/timegrid/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Config *domain.Config // Values rendered into the template (nil = defaults)
	Global bool           // Write the global file instead of the workspace file
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path string // Written file
}

// InitConfig writes a commented configuration template.
type InitConfig struct {
	configManager domain.ConfigManager
	logger        domain.Logger
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager, logger domain.Logger) *InitConfig {
	return &InitConfig{
		configManager: configManager,
		logger:        logger,
	}
}

// Execute writes the template. An existing file is left untouched and
// domain.ErrConfigExists is returned.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}

	info, write := uc.configManager.GetRepoConfigInfo(), uc.configManager.InitRepoConfig
	if in.Global {
		info, write = uc.configManager.GetGlobalConfigInfo(), uc.configManager.InitGlobalConfig
	}
	if info.Exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrConfigExists, info.Path)
	}
	if err := write(cfg); err != nil {
		return nil, err
	}

	uc.logger.Info("", "config", "created "+info.Path)
	return &InitConfigOutput{Path: info.Path}, nil
}
