package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
)

func writeProjectFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(content), 0644))
}

func TestLoadProjectConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, source, err := LoadProjectConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "defaults", source)
	assert.Equal(t, config.DefaultProjectConfig(), cfg)
}

func TestLoadProjectConfig_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, `
default_network = "sepolia"

[networks.sepolia]
rpc_url = "https://rpc.sepolia.example"
chain_id = 11155111
block_confirmations = 6
price_feed = "0x694AA1769357215DE4FAC081bf1f309aDC325306"

[named_accounts]
player = 1

[mocks]
initial_answer = "300000000000"

[suite]
send_value = "0.05"
`)

	cfg, source, err := LoadProjectConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ProjectFile, source)
	assert.Equal(t, "sepolia", cfg.DefaultNetwork)
	assert.Contains(t, cfg.Networks, "hardhat")
	assert.Contains(t, cfg.Networks, "localhost")
	assert.Equal(t, uint64(6), cfg.Networks["sepolia"].BlockConfirmations)
	assert.Equal(t, map[string]int{"deployer": 0, "player": 1}, cfg.NamedAccounts)
	assert.Equal(t, config.DefaultDecimals, cfg.Mocks.Decimals)
	assert.Equal(t, "300000000000", cfg.Mocks.InitialAnswer)
	assert.Equal(t, "0.05", cfg.Suite.SendValue)
	assert.Equal(t, []string{"hardhat", "localhost"}, cfg.DevelopmentChains)
}

func TestLoadProjectConfig_ZeroDecimals(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, `
[mocks]
decimals = 0
`)

	cfg, _, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), cfg.Mocks.Decimals)
	assert.Equal(t, config.DefaultInitialAnswer, cfg.Mocks.InitialAnswer)
}

func TestLoadProjectConfig_ExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("FUNDME_TEST_RPC=https://from-dotenv.example\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("FUNDME_TEST_RPC") })
	t.Setenv("FUNDME_TEST_KEY", "0xabc")

	writeProjectFile(t, dir, `
[networks.sepolia]
rpc_url = "${FUNDME_TEST_RPC}"
chain_id = 11155111
accounts = ["${FUNDME_TEST_KEY}", "${FUNDME_TEST_MISSING_KEY}"]
`)

	cfg, _, err := LoadProjectConfig(dir)
	require.NoError(t, err)

	sepolia := cfg.Networks["sepolia"]
	assert.Equal(t, "https://from-dotenv.example", sepolia.RPCURL)
	assert.Equal(t, []string{"0xabc"}, sepolia.Accounts)
}

func TestLoadProjectConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown default network",
			content: `default_network = "mainnet"`,
			wantErr: `default_network "mainnet"`,
		},
		{
			name: "live network without rpc",
			content: `
[networks.sepolia]
chain_id = 11155111
`,
			wantErr: `network "sepolia" needs rpc_url`,
		},
		{
			name: "undefined development chain",
			content: `
development_chains = ["ganache"]
`,
			wantErr: `development chain "ganache"`,
		},
		{
			name: "bad initial answer",
			content: `
[mocks]
initial_answer = "2000.5"
`,
			wantErr: "mocks.initial_answer",
		},
		{
			name:    "malformed toml",
			content: `default_network = `,
			wantErr: "failed to parse fundme.toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeProjectFile(t, dir, tt.content)

			_, _, err := LoadProjectConfig(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
