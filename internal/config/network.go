package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	dataDir string
	project *config.ProjectConfig
	cache   *NetworkCache
	timeout time.Duration
	mu      sync.RWMutex
}

// NetworkCache caches chain ID lookups by RPC URL
type NetworkCache struct {
	RPCs      map[string]uint64 `json:"rpcs"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver. The chain ID cache lives under dataDir.
func NewNetworkResolver(dataDir string, project *config.ProjectConfig) *NetworkResolver {
	r := &NetworkResolver{
		dataDir: dataDir,
		project: project,
		timeout: 10 * time.Second,
	}

	r.loadCache()

	return r
}

// GetNetworks returns the configured network names, sorted
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	names := lo.Keys(r.project.Networks)
	sort.Strings(names)
	return names
}

// IsDevelopment reports whether name is listed in development_chains
func (r *NetworkResolver) IsDevelopment(name string) bool {
	return lo.Contains(r.project.DevelopmentChains, name)
}

// ResolveNetwork resolves a network name to its configuration
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error) {
	nc, exists := r.project.Networks[networkName]
	if !exists {
		return nil, domain.UnknownNameErr{
			Kind:        "network",
			Name:        networkName,
			Suggestions: suggestNetworks(networkName, r.GetNetworks(ctx)),
		}
	}

	network := &config.Network{
		Name:               networkName,
		ChainID:            nc.ChainID,
		RPCURL:             nc.RPCURL,
		Development:        r.IsDevelopment(networkName),
		Simulated:          nc.Simulated,
		BlockConfirmations: nc.BlockConfirmations,
		PriceFeed:          nc.PriceFeed,
		Accounts:           nc.Accounts,
	}

	switch {
	case nc.Simulated:
		network.ChainID = config.SimulatedChainID
		network.RPCURL = ""
	case network.ChainID == 0:
		chainID, err := r.fetchChainID(ctx, nc.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
		}
		network.ChainID = chainID
	}

	network.ExplorerURL = nc.Explorer
	if network.ExplorerURL == "" {
		network.ExplorerURL = explorerURL(network.ChainID)
	}

	return network, nil
}

// fetchChainID asks the RPC endpoint for its chain ID, consulting the cache first
func (r *NetworkResolver) fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	r.mu.RLock()
	if chainID, exists := r.cache.RPCs[rpcURL]; exists {
		r.mu.RUnlock()
		return chainID, nil
	}
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId failed: %w", err)
	}

	r.updateCache(rpcURL, chainID.Uint64())
	return chainID.Uint64(), nil
}

func suggestNetworks(name string, names []string) []string {
	matches := fuzzy.Find(name, names)
	return lo.Map(lo.Slice(matches, 0, 3), func(m fuzzy.Match, _ int) string {
		return m.Str
	})
}

// explorerURL returns a block explorer for well-known chains
func explorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 84532:
		return "https://sepolia.basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 56:
		return "https://bscscan.com"
	default:
		return ""
	}
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = &NetworkCache{RPCs: make(map[string]uint64)}
	if r.dataDir == "" {
		return
	}

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return
	}

	var cache NetworkCache
	if err := json.Unmarshal(data, &cache); err != nil || cache.RPCs == nil {
		return
	}
	r.cache = &cache
}

// updateCache records a chain ID and persists the cache on a best effort basis
func (r *NetworkResolver) updateCache(rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	if r.dataDir == "" {
		return
	}
	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return
	}
	_ = os.WriteFile(r.cachePath(), data, 0644)
}

var _ usecase.NetworkResolver = (*NetworkResolver)(nil)
