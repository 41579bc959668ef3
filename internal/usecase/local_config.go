package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
)

// ConfigParams names the key (and value, for set) of a config operation
type ConfigParams struct {
	Key   string
	Value string
}

// ConfigResult describes the local configuration after an operation
type ConfigResult struct {
	Config     *domain.LocalConfig
	ConfigPath string
	Exists     bool
	Key        domain.ConfigKey
	Value      string
}

// ManageConfig shows and edits the local configuration that viper reads on startup
type ManageConfig struct {
	store    LocalConfigRepository
	networks NetworkResolver
}

// NewManageConfig creates a new ManageConfig use case
func NewManageConfig(store LocalConfigRepository, networks NetworkResolver) *ManageConfig {
	return &ManageConfig{
		store:    store,
		networks: networks,
	}
}

// Show returns the stored configuration
func (uc *ManageConfig) Show(ctx context.Context) (*ConfigResult, error) {
	exists := uc.store.Exists()

	config, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ConfigResult{
		Config:     config,
		ConfigPath: uc.store.GetPath(),
		Exists:     exists,
	}, nil
}

// Set validates and stores a value
func (uc *ManageConfig) Set(ctx context.Context, params ConfigParams) (*ConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	switch key {
	case domain.ConfigKeyNetwork:
		networks := uc.networks.GetNetworks(ctx)
		if !lo.Contains(networks, params.Value) {
			return nil, fmt.Errorf("network '%s' is not configured (available: %s)",
				params.Value, strings.Join(networks, ", "))
		}
	case domain.ConfigKeyTimeout:
		if _, err := time.ParseDuration(params.Value); err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", params.Value, err)
		}
	}

	return uc.update(ctx, key, params.Value)
}

// Remove clears a value so the project default applies again
func (uc *ManageConfig) Remove(ctx context.Context, params ConfigParams) (*ConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}
	return uc.update(ctx, key, "")
}

func (uc *ManageConfig) update(ctx context.Context, key domain.ConfigKey, value string) (*ConfigResult, error) {
	config, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.Set(key, value)

	if err := uc.store.Save(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &ConfigResult{
		Config:     config,
		ConfigPath: uc.store.GetPath(),
		Exists:     true,
		Key:        key,
		Value:      value,
	}, nil
}

func parseConfigKey(raw string) (domain.ConfigKey, error) {
	key, ok := domain.NormalizeConfigKey(raw)
	if !ok {
		keys := lo.Map(domain.ValidConfigKeys(), func(k domain.ConfigKey, _ int) string { return string(k) })
		return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", raw, strings.Join(keys, ", "))
	}
	return key, nil
}
