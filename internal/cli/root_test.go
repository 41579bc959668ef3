package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command in dir and returns stdout
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Networks(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "networks", "--json")
	require.NoError(t, err)

	var networks []struct {
		Name    string `json:"name"`
		ChainID uint64 `json:"chainId"`
		Current bool   `json:"current"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &networks))
	require.Len(t, networks, 2)
	assert.Equal(t, "hardhat", networks[0].Name)
	assert.True(t, networks[0].Current)
	assert.Equal(t, "localhost", networks[1].Name)
	assert.Equal(t, uint64(31337), networks[1].ChainID)
}

func TestRootCmd_NetworkFlag(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "networks", "-n", "localhost", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"current": true`)

	_, err = runCLI(t, t.TempDir(), "networks", "--network", "mainnet")
	assert.ErrorContains(t, err, "network 'mainnet' not found")
}

func TestRootCmd_ConfigSetPersists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fundme.toml"), []byte(`
default_network = "hardhat"

[networks.sepolia]
rpc_url = "https://sepolia.example"
chain_id = 11155111
`), 0644))

	_, err := runCLI(t, dir, "config", "set", "network", "localhost")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ".fundme", "config.local.json"))

	out, err := runCLI(t, dir, "networks", "--json")
	require.NoError(t, err)

	var networks []struct {
		Name    string `json:"name"`
		Current bool   `json:"current"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &networks))
	for _, n := range networks {
		assert.Equal(t, n.Name == "localhost", n.Current, n.Name)
	}

	_, err = runCLI(t, dir, "config", "set", "network", "goerli")
	assert.ErrorContains(t, err, "network 'goerli' is not configured")
}

func TestRootCmd_WithdrawTakesNoArguments(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "withdraw", "extra")
	assert.Error(t, err)
}

func TestRootCmd_Version(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fundme")
}
