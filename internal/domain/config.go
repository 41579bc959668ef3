package domain

import "strings"

// LocalConfig holds per-checkout overrides stored in .fundme/config.local.json
type LocalConfig struct {
	Network string `json:"network,omitempty"`
	Timeout string `json:"timeout,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork ConfigKey = "network"
	ConfigKeyTimeout ConfigKey = "timeout"
)

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyTimeout,
	}
}

// NormalizeConfigKey lowercases key and maps the "net" shorthand to network
func NormalizeConfigKey(key string) (ConfigKey, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "net" {
		return ConfigKeyNetwork, true
	}
	for _, valid := range ValidConfigKeys() {
		if string(valid) == key {
			return valid, true
		}
	}
	return "", false
}

// Get returns the value stored under key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyNetwork:
		return c.Network
	case ConfigKeyTimeout:
		return c.Timeout
	default:
		return ""
	}
}

// Set stores value under key; an empty value clears it
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyNetwork:
		c.Network = value
	case ConfigKeyTimeout:
		c.Timeout = value
	}
}
