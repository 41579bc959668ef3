package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
)

// ProjectFile is the project configuration file name; its directory is the project root
const ProjectFile = "fundme.toml"

// LoadProjectConfig reads fundme.toml from projectRoot on top of the built-in defaults.
// The returned source is ProjectFile, or "defaults" when the file does not exist.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, string, error) {
	loadEnvFiles(projectRoot)

	cfg := config.DefaultProjectConfig()
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, "defaults", nil
	}

	var file config.ProjectConfig
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}
	mergeProjectConfig(cfg, &file, meta)
	expandProjectEnv(cfg)

	if err := validateProjectConfig(cfg); err != nil {
		return nil, "", fmt.Errorf("invalid %s: %w", ProjectFile, err)
	}
	return cfg, ProjectFile, nil
}

// loadEnvFiles loads .env then .env.local; variables already set win
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// mergeProjectConfig overlays values set in the file onto the defaults.
// Keys whose zero value is meaningful are checked against meta.
func mergeProjectConfig(dst, src *config.ProjectConfig, meta toml.MetaData) {
	if src.DefaultNetwork != "" {
		dst.DefaultNetwork = src.DefaultNetwork
	}
	if src.DevelopmentChains != nil {
		dst.DevelopmentChains = src.DevelopmentChains
	}
	for name, network := range src.Networks {
		dst.Networks[name] = network
	}
	for name, index := range src.NamedAccounts {
		dst.NamedAccounts[name] = index
	}
	if meta.IsDefined("mocks", "decimals") {
		dst.Mocks.Decimals = src.Mocks.Decimals
	}
	if src.Mocks.InitialAnswer != "" {
		dst.Mocks.InitialAnswer = src.Mocks.InitialAnswer
	}
	if len(src.Paths.Artifacts) > 0 {
		dst.Paths.Artifacts = src.Paths.Artifacts
	}
	if src.Paths.Deployments != "" {
		dst.Paths.Deployments = src.Paths.Deployments
	}
	if src.Suite.SendValue != "" {
		dst.Suite.SendValue = src.Suite.SendValue
	}
}

// expandProjectEnv replaces ${VAR} references in values that usually hold secrets or endpoints
func expandProjectEnv(cfg *config.ProjectConfig) {
	for name, network := range cfg.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.PriceFeed = os.ExpandEnv(network.PriceFeed)
		network.Explorer = os.ExpandEnv(network.Explorer)
		network.Accounts = lo.FilterMap(network.Accounts, func(account string, _ int) (string, bool) {
			expanded := os.ExpandEnv(account)
			return expanded, expanded != ""
		})
		cfg.Networks[name] = network
	}
}

func validateProjectConfig(cfg *config.ProjectConfig) error {
	if _, ok := cfg.Networks[cfg.DefaultNetwork]; !ok {
		return fmt.Errorf("default_network %q is not defined in [networks]", cfg.DefaultNetwork)
	}
	for _, name := range cfg.DevelopmentChains {
		if _, ok := cfg.Networks[name]; !ok {
			return fmt.Errorf("development chain %q is not defined in [networks]", name)
		}
	}
	for name, network := range cfg.Networks {
		if !network.Simulated && network.RPCURL == "" {
			return fmt.Errorf("network %q needs rpc_url (or simulated = true)", name)
		}
	}
	if _, ok := new(big.Int).SetString(cfg.Mocks.InitialAnswer, 10); !ok {
		return fmt.Errorf("mocks.initial_answer %q is not an integer", cfg.Mocks.InitialAnswer)
	}
	for name, index := range cfg.NamedAccounts {
		if index < 0 {
			return fmt.Errorf("named account %q has negative index %d", name, index)
		}
	}
	return nil
}
