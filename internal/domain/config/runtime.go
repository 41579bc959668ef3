package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // resolved from --network or the project default

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Config source tracking
	ConfigSource string // "fundme.toml" or "defaults"

	// Resolved configurations
	Project *ProjectConfig
}

// Network represents a resolved network configuration
type Network struct {
	Name               string   `json:"name"`
	ChainID            uint64   `json:"chainId"`
	RPCURL             string   `json:"rpcUrl,omitempty"`
	ExplorerURL        string   `json:"explorerUrl,omitempty"`
	Development        bool     `json:"development"`
	Simulated          bool     `json:"simulated"`
	BlockConfirmations uint64   `json:"blockConfirmations"`
	PriceFeed          string   `json:"priceFeed,omitempty"`
	Accounts           []string `json:"-"` // hex private keys, never serialized
}

// Confirmations returns the number of confirmations to wait for, at least 1.
func (n *Network) Confirmations() uint64 {
	if n.BlockConfirmations == 0 {
		return 1
	}
	return n.BlockConfirmations
}
