package config

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
)

// newChainIDServer answers eth_chainId with chainID and counts the requests
func newChainIDServer(t *testing.T, chainID string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eth_chainId", req.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  chainID,
		})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestNetworkResolver_Resolve(t *testing.T) {
	project := config.DefaultProjectConfig()
	project.Networks["sepolia"] = config.NetworkConfig{
		RPCURL:             "https://rpc.sepolia.example",
		ChainID:            11155111,
		BlockConfirmations: 6,
		PriceFeed:          "0x694AA1769357215DE4FAC081bf1f309aDC325306",
	}
	resolver := NewNetworkResolver("", project)
	ctx := context.Background()

	t.Run("simulated development chain", func(t *testing.T) {
		network, err := resolver.ResolveNetwork(ctx, "hardhat")
		require.NoError(t, err)
		assert.True(t, network.Development)
		assert.True(t, network.Simulated)
		assert.Equal(t, uint64(config.SimulatedChainID), network.ChainID)
		assert.Empty(t, network.RPCURL)
	})

	t.Run("localhost", func(t *testing.T) {
		network, err := resolver.ResolveNetwork(ctx, "localhost")
		require.NoError(t, err)
		assert.True(t, network.Development)
		assert.False(t, network.Simulated)
		assert.Equal(t, uint64(31337), network.ChainID)
	})

	t.Run("live network", func(t *testing.T) {
		network, err := resolver.ResolveNetwork(ctx, "sepolia")
		require.NoError(t, err)
		assert.False(t, network.Development)
		assert.Equal(t, uint64(6), network.Confirmations())
		assert.Equal(t, "https://sepolia.etherscan.io", network.ExplorerURL)
	})

	t.Run("unknown network suggests names", func(t *testing.T) {
		_, err := resolver.ResolveNetwork(ctx, "sepola")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		var unknown domain.UnknownNameErr
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, []string{"sepolia"}, unknown.Suggestions)
	})
}

func TestNetworkResolver_FetchesAndCachesChainID(t *testing.T) {
	server, calls := newChainIDServer(t, "0x2a")
	dataDir := t.TempDir()

	project := config.DefaultProjectConfig()
	project.Networks["devnet"] = config.NetworkConfig{RPCURL: server.URL}

	network, err := NewNetworkResolver(dataDir, project).ResolveNetwork(context.Background(), "devnet")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), network.ChainID)
	assert.Equal(t, int32(1), calls.Load())

	// A fresh resolver reads the persisted cache instead of asking again
	network, err = NewNetworkResolver(dataDir, project).ResolveNetwork(context.Background(), "devnet")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), network.ChainID)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNetworkResolver_GetNetworks(t *testing.T) {
	project := config.DefaultProjectConfig()
	project.Networks["sepolia"] = config.NetworkConfig{RPCURL: "https://rpc.sepolia.example"}

	resolver := NewNetworkResolver("", project)
	assert.Equal(t, []string{"hardhat", "localhost", "sepolia"}, resolver.GetNetworks(context.Background()))
	assert.True(t, resolver.IsDevelopment("localhost"))
	assert.False(t, resolver.IsDevelopment("sepolia"))
}
