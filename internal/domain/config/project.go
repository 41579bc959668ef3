package config

// ProjectConfig represents the fundme.toml configuration file
type ProjectConfig struct {
	DefaultNetwork    string                   `toml:"default_network,omitempty"`
	DevelopmentChains []string                 `toml:"development_chains"`
	Networks          map[string]NetworkConfig `toml:"networks"`
	NamedAccounts     map[string]int           `toml:"named_accounts"`
	Mocks             MockConfig               `toml:"mocks"`
	Paths             PathsConfig              `toml:"paths"`
	Suite             SuiteConfig              `toml:"suite"`
}

// NetworkConfig represents a [networks.<name>] section
type NetworkConfig struct {
	RPCURL             string   `toml:"rpc_url,omitempty"`
	ChainID            uint64   `toml:"chain_id,omitempty"`
	Simulated          bool     `toml:"simulated,omitempty"`
	BlockConfirmations uint64   `toml:"block_confirmations,omitempty"`
	PriceFeed          string   `toml:"price_feed,omitempty"` // ETH/USD feed used when no mock is deployed
	Explorer           string   `toml:"explorer,omitempty"`
	Accounts           []string `toml:"accounts,omitempty"` //nolint:gosec // holds env var references, not literal secrets
}

// MockConfig holds the constructor arguments of the price feed mock
type MockConfig struct {
	Decimals      uint8  `toml:"decimals"`
	InitialAnswer string `toml:"initial_answer"` // decimal string, may exceed int64
}

// PathsConfig locates build output and the deployment registry
type PathsConfig struct {
	Artifacts   []string `toml:"artifacts,omitempty"`
	Deployments string   `toml:"deployments,omitempty"`
}

// SuiteConfig holds settings for the verification suites
type SuiteConfig struct {
	SendValue string `toml:"send_value,omitempty"` // ether units, e.g. "1" or "0.05"
}

const (
	DefaultDecimals      uint8 = 8
	DefaultInitialAnswer       = "200000000000"
	DefaultSendValue           = "1"
	DefaultNetwork             = "hardhat"
	DefaultDeploymentsDir      = "deployments"

	// SimulatedChainID is the chain ID of the in-process development chain
	SimulatedChainID = 1337
)

// DefaultProjectConfig returns the configuration used when no fundme.toml exists
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		DefaultNetwork:    DefaultNetwork,
		DevelopmentChains: []string{"hardhat", "localhost"},
		Networks: map[string]NetworkConfig{
			"hardhat": {
				Simulated:          true,
				BlockConfirmations: 1,
			},
			"localhost": {
				RPCURL:             "http://127.0.0.1:8545",
				ChainID:            31337,
				BlockConfirmations: 1,
			},
		},
		NamedAccounts: map[string]int{"deployer": 0},
		Mocks: MockConfig{
			Decimals:      DefaultDecimals,
			InitialAnswer: DefaultInitialAnswer,
		},
		Paths: PathsConfig{
			Artifacts:   []string{"artifacts", "out"},
			Deployments: DefaultDeploymentsDir,
		},
		Suite: SuiteConfig{
			SendValue: DefaultSendValue,
		},
	}
}
