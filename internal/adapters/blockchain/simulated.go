package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
)

const (
	// SimulatedChainID is the chain ID of the in-process development chain
	SimulatedChainID = config.SimulatedChainID

	// SimulatedAccountCount is the number of pre-funded signers
	SimulatedAccountCount = 10

	simulatedGasLimit = 30_000_000
)

// SimulatedBalance is the genesis balance of every simulated signer (10000 ETH)
var SimulatedBalance = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))

// SimulatedBackend is an in-process chain that mines a block for every
// transaction it receives, like hardhat's automine.
type SimulatedBackend struct {
	simulated.Client

	mu      sync.Mutex
	backend *simulated.Backend
}

// NewSimulatedBackend starts a chain where every key holds SimulatedBalance
func NewSimulatedBackend(keys []*ecdsa.PrivateKey) *SimulatedBackend {
	alloc := make(types.GenesisAlloc, len(keys))
	for _, key := range keys {
		alloc[crypto.PubkeyToAddress(key.PublicKey)] = types.Account{Balance: new(big.Int).Set(SimulatedBalance)}
	}

	backend := simulated.NewBackend(alloc, simulated.WithBlockGasLimit(simulatedGasLimit))
	return &SimulatedBackend{
		Client:  backend.Client(),
		backend: backend,
	}
}

// SendTransaction submits tx and mines it immediately
func (s *SimulatedBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	s.backend.Commit()
	return nil
}

// Commit mines an empty block
func (s *SimulatedBackend) Commit() common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Commit()
}

func (s *SimulatedBackend) Close() {
	_ = s.backend.Close()
}

// SimulatedKeys derives n deterministic private keys, so simulated signer
// addresses are stable between runs.
func SimulatedKeys(n int) ([]*ecdsa.PrivateKey, error) {
	keys := make([]*ecdsa.PrivateKey, 0, n)
	for i := 0; i < n; i++ {
		key, err := crypto.ToECDSA(crypto.Keccak256([]byte(fmt.Sprintf("fundme-simulated-%d", i))))
		if err != nil {
			return nil, fmt.Errorf("failed to derive simulated key %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

var _ Miner = (*SimulatedBackend)(nil)
