package usecase

import (
	"context"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

// DeploymentRepository is the named deployment registry of one network
type DeploymentRepository interface {
	Get(ctx context.Context, name string) (*models.Deployment, error)
	List(ctx context.Context) ([]*models.Deployment, error)
	Save(ctx context.Context, deployment *models.Deployment) error
	Delete(ctx context.Context, name string) error
	Reset(ctx context.Context) error
}

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, contractName string) (*models.Artifact, error)
}

// AccountProvider resolves signing identities on the current network
type AccountProvider interface {
	// NamedAccount resolves an alias from [named_accounts] (e.g. "deployer")
	NamedAccount(ctx context.Context, name string) (*models.Account, error)
	// Signers returns all signers in order, like ethers.getSigners()
	Signers(ctx context.Context) ([]*models.Account, error)
}

// DeployResult is returned by Chain.Deploy once the creation tx is mined
type DeployResult struct {
	Address         common.Address
	Transaction     *types.Transaction
	Receipt         *types.Receipt
	ConstructorData []byte
}

// Chain is the connection to the network the environment targets
type Chain interface {
	ChainID() uint64
	// Deploy sends the creation transaction for artifact and waits for it to be mined
	Deploy(ctx context.Context, from *models.Account, artifact *models.Artifact, args ...any) (*DeployResult, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	// WaitForConfirmations blocks until tx has the given number of confirmations.
	// A failed receipt is returned together with a *domain.RevertError.
	WaitForConfirmations(ctx context.Context, tx *types.Transaction, confirmations uint64) (*types.Receipt, error)
	FundMe(deployment *models.Deployment, from *models.Account) (FundMe, error)
	PriceFeed(deployment *models.Deployment, from *models.Account) (PriceFeed, error)
	Close()
}

// FundMe is a handle on a deployed FundMe contract, bound to one signer
type FundMe interface {
	Address() common.Address
	// Connect returns a handle on the same contract signing as account
	Connect(account *models.Account) FundMe

	Fund(ctx context.Context, value *big.Int) (*types.Transaction, error)
	Withdraw(ctx context.Context) (*types.Transaction, error)
	CheaperWithdraw(ctx context.Context) (*types.Transaction, error)

	GetPriceFeed(ctx context.Context) (common.Address, error)
	GetOwner(ctx context.Context) (common.Address, error)
	GetAddressToAmountFunded(ctx context.Context, funder common.Address) (*big.Int, error)
	GetFunders(ctx context.Context, index int64) (common.Address, error)
}

// PriceFeed is a handle on an AggregatorV3 compatible price feed
type PriceFeed interface {
	Address() common.Address
	Decimals(ctx context.Context) (uint8, error)
	LatestAnswer(ctx context.Context) (*big.Int, error)
}

// Environment is everything an operation needs to act on one network.
// It is passed explicitly instead of living in package globals.
type Environment struct {
	Network     *config.Network
	Project     *config.ProjectConfig
	Chain       Chain
	Accounts    AccountProvider
	Deployments DeploymentRepository
	Artifacts   ArtifactRepository
}

// IsDevelopment reports whether the environment targets a development chain
func (e *Environment) IsDevelopment() bool {
	return e.Network != nil && e.Network.Development
}

// Close releases the chain connection
func (e *Environment) Close() {
	if e.Chain != nil {
		e.Chain.Close()
	}
}

// EnvironmentFactory opens an Environment for the configured network
type EnvironmentFactory interface {
	Open(ctx context.Context) (*Environment, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Confirmer asks the user to approve an irreversible action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// AnvilManager manages local anvil node instances
type AnvilManager interface {
	Start(ctx context.Context, instance *domain.AnvilInstance) error
	Stop(ctx context.Context, instance *domain.AnvilInstance) error
	GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error)
	StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// LocalConfigRepository persists the local configuration overrides
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*domain.LocalConfig, error)
	Save(ctx context.Context, config *domain.LocalConfig) error
	GetPath() string
}
