package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
)

// Backend is what the chain adapter needs from a node connection.
// Both *ethclient.Client and *SimulatedBackend satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// Miner is implemented by backends that produce blocks on demand
type Miner interface {
	Commit() common.Hash
}

// Dial connects to rpcURL and checks the endpoint serves expectedChainID.
// An expectedChainID of 0 accepts whatever the node reports.
func Dial(ctx context.Context, rpcURL string, expectedChainID uint64) (*ethclient.Client, *big.Int, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to get chain ID from %s: %w", rpcURL, err)
	}

	if expectedChainID != 0 && chainID.Uint64() != expectedChainID {
		client.Close()
		return nil, nil, fmt.Errorf("chain ID mismatch: expected %d, got %d: %w",
			expectedChainID, chainID.Uint64(), domain.ErrNetworkMismatch)
	}

	return client, chainID, nil
}

var (
	_ Backend = (*ethclient.Client)(nil)
	_ Backend = (*SimulatedBackend)(nil)
)
