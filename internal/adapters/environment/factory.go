package environment

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/trebuchet-org/fundme-cli/internal/adapters/accounts"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// Factory opens the Environment of the configured network
type Factory struct {
	cfg         *config.RuntimeConfig
	deployments usecase.DeploymentRepository
	artifacts   usecase.ArtifactRepository
	log         *slog.Logger

	mu        sync.Mutex
	simulated *blockchain.Chain
}

// NewFactory creates a new environment factory
func NewFactory(
	cfg *config.RuntimeConfig,
	deployments usecase.DeploymentRepository,
	artifacts usecase.ArtifactRepository,
	log *slog.Logger,
) *Factory {
	return &Factory{
		cfg:         cfg,
		deployments: deployments,
		artifacts:   artifacts,
		log:         log,
	}
}

// Open connects to the network and loads its signers. A simulated chain is
// started once and shared by every Environment the factory opens, so it stays
// consistent with the in-memory registry.
func (f *Factory) Open(ctx context.Context) (*usecase.Environment, error) {
	network := f.cfg.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}

	keys, err := accounts.LoadKeys(network)
	if err != nil {
		return nil, err
	}

	var chain usecase.Chain
	if network.Simulated {
		chain = f.simulatedChain(keys)
	} else {
		client, chainID, err := blockchain.Dial(ctx, network.RPCURL, network.ChainID)
		if err != nil {
			return nil, err
		}
		chain = blockchain.NewChain(client, chainID, f.log)
	}

	f.log.Debug("opened environment",
		"network", network.Name,
		"chainId", chain.ChainID(),
		"development", network.Development,
		"signers", len(keys))

	return &usecase.Environment{
		Network:     network,
		Project:     f.cfg.Project,
		Chain:       chain,
		Accounts:    accounts.NewProvider(keys, f.cfg.Project.NamedAccounts),
		Deployments: f.deployments,
		Artifacts:   f.artifacts,
	}, nil
}

// Close stops the shared simulated chain, if one was started
func (f *Factory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.simulated != nil {
		f.simulated.Close()
		f.simulated = nil
	}
}

func (f *Factory) simulatedChain(keys []*ecdsa.PrivateKey) usecase.Chain {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.simulated == nil {
		backend := blockchain.NewSimulatedBackend(keys)
		f.simulated = blockchain.NewChain(backend, big.NewInt(blockchain.SimulatedChainID), f.log)
	}
	return sharedChain{f.simulated}
}

// sharedChain leaves closing to the factory
type sharedChain struct {
	*blockchain.Chain
}

func (sharedChain) Close() {}

var _ usecase.EnvironmentFactory = (*Factory)(nil)
