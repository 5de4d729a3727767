package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/timegrid/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput describes both config files and the merged result.
type ShowConfigOutput struct {
	Effective    *domain.Config    // defaults <- global <- workspace
	GlobalConfig domain.ConfigInfo // Global config file
	RepoConfig   domain.ConfigInfo // Workspace config file
}

// ShowConfig reports the configuration files and the values in effect.
type ShowConfig struct {
	configManager domain.ConfigManager
	configLoader  domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configManager domain.ConfigManager, configLoader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{
		configManager: configManager,
		configLoader:  configLoader,
	}
}

// Execute collects the file contents and the merged config.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	effective, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &ShowConfigOutput{
		Effective:    effective,
		GlobalConfig: uc.configManager.GetGlobalConfigInfo(),
		RepoConfig:   uc.configManager.GetRepoConfigInfo(),
	}, nil
}
