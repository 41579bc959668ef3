package usecase_test

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/fs"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

const (
	fakeGasUsed  = 21000
	notOwnerName = "FundMe__NotOwner"
)

var (
	fakeGasPrice = big.NewInt(1_000_000_000)
	testLogger   = slog.New(slog.DiscardHandler)
)

// fakeChain is an in-memory ledger that executes FundMe and the price feed mock
// with the same observable behavior as the contracts
type fakeChain struct {
	mu        sync.Mutex
	chainID   uint64
	nonce     uint64
	block     int64
	balances  map[common.Address]*big.Int
	fundMes   map[common.Address]*fakeFundMeState
	feeds     map[common.Address]*fakeFeedState
	receipts  map[common.Hash]*types.Receipt
	deployed  []string
	waits     []uint64
	leaveDust bool // withdraw leaves one wei in the contract
}

type fakeFundMeState struct {
	owner     common.Address
	priceFeed common.Address
	amounts   map[common.Address]*big.Int
	funders   []common.Address
}

type fakeFeedState struct {
	decimals uint8
	answer   *big.Int
}

func newFakeChain(chainID uint64, accounts []*models.Account) *fakeChain {
	c := &fakeChain{
		chainID:  chainID,
		balances: make(map[common.Address]*big.Int),
		fundMes:  make(map[common.Address]*fakeFundMeState),
		feeds:    make(map[common.Address]*fakeFeedState),
		receipts: make(map[common.Hash]*types.Receipt),
	}
	for _, account := range accounts {
		c.balances[account.Address] = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(1e18))
	}
	return c
}

func (c *fakeChain) ChainID() uint64 { return c.chainID }
func (c *fakeChain) Close()          {}

func (c *fakeChain) balance(addr common.Address) *big.Int {
	if b, ok := c.balances[addr]; ok {
		return b
	}
	b := new(big.Int)
	c.balances[addr] = b
	return b
}

// mine charges gas to from and records a successful receipt
func (c *fakeChain) mine(from common.Address) *types.Transaction {
	c.nonce++
	c.block++
	tx := types.NewTx(&types.LegacyTx{Nonce: c.nonce, GasPrice: fakeGasPrice, Gas: fakeGasUsed})
	cost := new(big.Int).Mul(big.NewInt(fakeGasUsed), fakeGasPrice)
	c.balance(from).Sub(c.balance(from), cost)
	c.receipts[tx.Hash()] = &types.Receipt{
		Status:            types.ReceiptStatusSuccessful,
		GasUsed:           fakeGasUsed,
		EffectiveGasPrice: new(big.Int).Set(fakeGasPrice),
		BlockNumber:       big.NewInt(c.block),
		TxHash:            tx.Hash(),
	}
	return tx
}

func (c *fakeChain) Deploy(ctx context.Context, from *models.Account, artifact *models.Artifact, args ...any) (*usecase.DeployResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	address := common.BigToAddress(big.NewInt(int64(0x1000 + len(c.deployed))))
	switch artifact.ContractName {
	case usecase.FundMeName:
		c.fundMes[address] = &fakeFundMeState{
			owner:     from.Address,
			priceFeed: args[0].(common.Address),
			amounts:   make(map[common.Address]*big.Int),
		}
	case usecase.MockV3AggregatorName:
		c.feeds[address] = &fakeFeedState{
			decimals: args[0].(uint8),
			answer:   args[1].(*big.Int),
		}
	default:
		return nil, fmt.Errorf("fake chain cannot deploy %s", artifact.ContractName)
	}
	c.deployed = append(c.deployed, artifact.ContractName)

	tx := c.mine(from.Address)
	return &usecase.DeployResult{
		Address:     address,
		Transaction: tx,
		Receipt:     c.receipts[tx.Hash()],
	}, nil
}

func (c *fakeChain) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(big.Int).Set(c.balance(address)), nil
}

func (c *fakeChain) WaitForConfirmations(ctx context.Context, tx *types.Transaction, confirmations uint64) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.waits = append(c.waits, confirmations)
	receipt, ok := c.receipts[tx.Hash()]
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", tx.Hash().Hex())
	}
	return receipt, nil
}

func (c *fakeChain) FundMe(deployment *models.Deployment, from *models.Account) (usecase.FundMe, error) {
	address := common.HexToAddress(deployment.Address)
	if _, ok := c.fundMes[address]; !ok {
		return nil, fmt.Errorf("no FundMe at %s", deployment.Address)
	}
	return &fakeFundMe{chain: c, address: address, signer: from}, nil
}

func (c *fakeChain) PriceFeed(deployment *models.Deployment, from *models.Account) (usecase.PriceFeed, error) {
	address := common.HexToAddress(deployment.Address)
	if _, ok := c.feeds[address]; !ok {
		return nil, fmt.Errorf("no price feed at %s", deployment.Address)
	}
	return &fakePriceFeed{chain: c, address: address}, nil
}

var _ usecase.Chain = (*fakeChain)(nil)

type fakeFundMe struct {
	chain   *fakeChain
	address common.Address
	signer  *models.Account
}

func (f *fakeFundMe) Address() common.Address { return f.address }

func (f *fakeFundMe) Connect(account *models.Account) usecase.FundMe {
	return &fakeFundMe{chain: f.chain, address: f.address, signer: account}
}

func (f *fakeFundMe) state() *fakeFundMeState {
	return f.chain.fundMes[f.address]
}

func (f *fakeFundMe) Fund(ctx context.Context, value *big.Int) (*types.Transaction, error) {
	f.chain.mu.Lock()
	defer f.chain.mu.Unlock()

	if value.Sign() == 0 {
		return nil, &domain.RevertError{Reason: usecase.InsufficientFundingReason}
	}
	from := f.signer.Address
	f.chain.balance(from).Sub(f.chain.balance(from), value)
	f.chain.balance(f.address).Add(f.chain.balance(f.address), value)

	s := f.state()
	if _, ok := s.amounts[from]; !ok {
		s.amounts[from] = new(big.Int)
	}
	s.amounts[from].Add(s.amounts[from], value)
	s.funders = append(s.funders, from)
	return f.chain.mine(from), nil
}

func (f *fakeFundMe) withdraw() (*types.Transaction, error) {
	f.chain.mu.Lock()
	defer f.chain.mu.Unlock()

	s := f.state()
	if f.signer.Address != s.owner {
		return nil, &domain.RevertError{CustomError: notOwnerName}
	}
	for _, funder := range s.funders {
		s.amounts[funder] = new(big.Int)
	}
	s.funders = nil

	amount := new(big.Int).Set(f.chain.balance(f.address))
	if f.chain.leaveDust {
		amount.Sub(amount, big.NewInt(1))
	}
	f.chain.balance(f.address).Sub(f.chain.balance(f.address), amount)
	f.chain.balance(s.owner).Add(f.chain.balance(s.owner), amount)
	return f.chain.mine(s.owner), nil
}

func (f *fakeFundMe) Withdraw(ctx context.Context) (*types.Transaction, error) {
	return f.withdraw()
}

func (f *fakeFundMe) CheaperWithdraw(ctx context.Context) (*types.Transaction, error) {
	return f.withdraw()
}

func (f *fakeFundMe) GetPriceFeed(ctx context.Context) (common.Address, error) {
	return f.state().priceFeed, nil
}

func (f *fakeFundMe) GetOwner(ctx context.Context) (common.Address, error) {
	return f.state().owner, nil
}

func (f *fakeFundMe) GetAddressToAmountFunded(ctx context.Context, funder common.Address) (*big.Int, error) {
	if amount, ok := f.state().amounts[funder]; ok {
		return new(big.Int).Set(amount), nil
	}
	return new(big.Int), nil
}

func (f *fakeFundMe) GetFunders(ctx context.Context, index int64) (common.Address, error) {
	funders := f.state().funders
	if index < 0 || index >= int64(len(funders)) {
		return common.Address{}, &domain.RevertError{}
	}
	return funders[index], nil
}

type fakePriceFeed struct {
	chain   *fakeChain
	address common.Address
}

func (p *fakePriceFeed) Address() common.Address { return p.address }

func (p *fakePriceFeed) Decimals(ctx context.Context) (uint8, error) {
	return p.chain.feeds[p.address].decimals, nil
}

func (p *fakePriceFeed) LatestAnswer(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(p.chain.feeds[p.address].answer), nil
}

// fakeAccounts maps "deployer" to the first signer
type fakeAccounts struct {
	signers []*models.Account
}

func newFakeAccounts(n int) *fakeAccounts {
	signers := make([]*models.Account, n)
	for i := range signers {
		signers[i] = &models.Account{
			Index:   i,
			Address: common.BigToAddress(big.NewInt(int64(0xa0 + i))),
		}
	}
	signers[0].Name = "deployer"
	return &fakeAccounts{signers: signers}
}

func (a *fakeAccounts) NamedAccount(ctx context.Context, name string) (*models.Account, error) {
	if name == "deployer" && len(a.signers) > 0 {
		return a.signers[0], nil
	}
	return nil, domain.UnknownNameErr{Kind: "named account", Name: name}
}

func (a *fakeAccounts) Signers(ctx context.Context) ([]*models.Account, error) {
	if len(a.signers) == 0 {
		return nil, domain.ErrNoAccounts
	}
	return a.signers, nil
}

type fakeArtifacts struct{}

func (fakeArtifacts) GetArtifact(ctx context.Context, contractName string) (*models.Artifact, error) {
	switch contractName {
	case usecase.FundMeName, usecase.MockV3AggregatorName:
		return &models.Artifact{
			ContractName: contractName,
			Format:       models.ArtifactFormatHardhat,
			ABI:          []byte("[]"),
			Bytecode:     []byte{0x60, 0x80, 0x60, 0x40},
		}, nil
	default:
		return nil, fmt.Errorf("%s: %w", contractName, domain.ErrArtifactNotFound)
	}
}

// fakeEnvironments hands out the same environment on every Open
type fakeEnvironments struct {
	env   *usecase.Environment
	err   error
	opens int
}

func (f *fakeEnvironments) Open(ctx context.Context) (*usecase.Environment, error) {
	f.opens++
	if f.err != nil {
		return nil, f.err
	}
	return f.env, nil
}

type testEnv struct {
	env      *usecase.Environment
	chain    *fakeChain
	accounts *fakeAccounts
	factory  *fakeEnvironments
}

func newDevEnv() *testEnv {
	return newTestEnv(&config.Network{
		Name:               "hardhat",
		ChainID:            config.SimulatedChainID,
		Development:        true,
		Simulated:          true,
		BlockConfirmations: 1,
	})
}

func newLiveEnv() *testEnv {
	return newTestEnv(&config.Network{
		Name:               "sepolia",
		ChainID:            11155111,
		BlockConfirmations: 6,
		PriceFeed:          "0x694AA1769357215DE4FAC081bf1f309aDC325306",
	})
}

func newTestEnv(network *config.Network) *testEnv {
	accounts := newFakeAccounts(10)
	chain := newFakeChain(network.ChainID, accounts.signers)
	env := &usecase.Environment{
		Network:     network,
		Project:     config.DefaultProjectConfig(),
		Chain:       chain,
		Accounts:    accounts,
		Deployments: fs.NewMemoryDeploymentStore(),
		Artifacts:   fakeArtifacts{},
	}
	return &testEnv{
		env:      env,
		chain:    chain,
		accounts: accounts,
		factory:  &fakeEnvironments{env: env},
	}
}

// recordingSink keeps every progress event and info line
type recordingSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (s *recordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.events = append(s.events, event)
}
func (s *recordingSink) Info(message string)  { s.infos = append(s.infos, message) }
func (s *recordingSink) Error(message string) { s.errors = append(s.errors, message) }

func newDeployContracts(factory usecase.EnvironmentFactory, sink usecase.ProgressSink) *usecase.DeployContracts {
	return usecase.NewDeployContracts(
		factory,
		usecase.NewDeployMocks(sink, testLogger),
		usecase.NewDeployFundMe(sink, testLogger),
		sink,
		testLogger,
	)
}

// MockConfirmer is a testify mock of the confirmation prompt
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}
