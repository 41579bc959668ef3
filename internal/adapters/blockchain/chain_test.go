package blockchain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

func deployStub(t *testing.T, chain *Chain, from *models.Account, bytecode string) *models.Deployment {
	t.Helper()
	ctx := context.Background()
	priceFeed := common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306")

	result, err := chain.Deploy(ctx, from, testArtifact(t, bytecode), priceFeed)
	require.NoError(t, err)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, types.ReceiptStatusSuccessful, result.Receipt.Status)
	assert.NotEqual(t, common.Address{}, result.Address)
	// constructor(address) is one 32-byte word
	assert.Len(t, result.ConstructorData, 32)

	return &models.Deployment{
		Name:    "FundMe",
		Address: result.Address.Hex(),
		ABI:     []byte(fundMeABI),
	}
}

func TestSimulatedKeys(t *testing.T) {
	first, err := SimulatedKeys(SimulatedAccountCount)
	require.NoError(t, err)
	second, err := SimulatedKeys(SimulatedAccountCount)
	require.NoError(t, err)

	require.Len(t, first, SimulatedAccountCount)
	seen := map[common.Address]bool{}
	for i := range first {
		assert.Equal(t, first[i].D, second[i].D, "key %d must be deterministic", i)
		address := accountsFromKeys(first[i : i+1])[0].Address
		assert.False(t, seen[address], "duplicate address %s", address.Hex())
		seen[address] = true
	}
}

func TestChain_SimulatedGenesis(t *testing.T) {
	chain, accounts := newSimulatedChain(t)

	assert.Equal(t, uint64(SimulatedChainID), chain.ChainID())
	for _, account := range accounts {
		balance, err := chain.BalanceAt(context.Background(), account.Address)
		require.NoError(t, err)
		assert.Equal(t, SimulatedBalance.String(), balance.String())
	}
}

func TestChain_DeployFundAndConfirm(t *testing.T) {
	ctx := context.Background()
	chain, accounts := newSimulatedChain(t)
	deployment := deployStub(t, chain, accounts[0], stopBytecode)

	fundMe, err := chain.FundMe(deployment, accounts[0])
	require.NoError(t, err)

	before, err := chain.BalanceAt(ctx, accounts[0].Address)
	require.NoError(t, err)

	value := big.NewInt(params.Ether)
	tx, err := fundMe.Fund(ctx, value)
	require.NoError(t, err)

	receipt, err := chain.WaitForConfirmations(ctx, tx, 3)
	require.NoError(t, err)

	head, err := chain.backend.BlockNumber(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, head, receipt.BlockNumber.Uint64()+2)

	contractBalance, err := chain.BalanceAt(ctx, fundMe.Address())
	require.NoError(t, err)
	assert.Equal(t, value.String(), contractBalance.String())

	after, err := chain.BalanceAt(ctx, accounts[0].Address)
	require.NoError(t, err)
	gasCost := new(big.Int).Mul(new(big.Int).SetUint64(receipt.GasUsed), receipt.EffectiveGasPrice)
	assert.Equal(t, before.String(), new(big.Int).Add(after, new(big.Int).Add(value, gasCost)).String())
}

func TestChain_ConnectSignsAsOtherAccount(t *testing.T) {
	ctx := context.Background()
	chain, accounts := newSimulatedChain(t)
	deployment := deployStub(t, chain, accounts[0], stopBytecode)

	fundMe, err := chain.FundMe(deployment, accounts[0])
	require.NoError(t, err)

	tx, err := fundMe.Connect(accounts[2]).Withdraw(ctx)
	require.NoError(t, err)

	receipt, err := chain.WaitForConfirmations(ctx, tx, 1)
	require.NoError(t, err)

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(SimulatedChainID)), tx)
	require.NoError(t, err)
	assert.Equal(t, accounts[2].Address, sender)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
}

func TestChain_RevertReasonIsDecoded(t *testing.T) {
	ctx := context.Background()
	chain, accounts := newSimulatedChain(t)
	deployment := deployStub(t, chain, accounts[0], revertingBytecode)

	fundMe, err := chain.FundMe(deployment, accounts[1])
	require.NoError(t, err)

	t.Run("transaction", func(t *testing.T) {
		tx, err := fundMe.Fund(ctx, new(big.Int))
		assert.Nil(t, tx)
		require.Error(t, err)
		assert.True(t, domain.IsRevert(err))
		assert.Equal(t, "You need to spend more ETH!", domain.RevertReason(err))
	})

	t.Run("call", func(t *testing.T) {
		_, err := fundMe.GetFunders(ctx, 0)
		require.Error(t, err)
		assert.True(t, domain.IsRevert(err))
		assert.Equal(t, "You need to spend more ETH!", domain.RevertReason(err))
	})
}

func TestChain_CallWithoutReturnData(t *testing.T) {
	chain, accounts := newSimulatedChain(t)
	deployment := deployStub(t, chain, accounts[0], stopBytecode)

	fundMe, err := chain.FundMe(deployment, accounts[0])
	require.NoError(t, err)

	_, err = fundMe.GetOwner(context.Background())
	require.Error(t, err)
	assert.False(t, domain.IsRevert(err))
}

func TestChain_DeployWithoutKey(t *testing.T) {
	chain, accounts := newSimulatedChain(t)
	keyless := &models.Account{Address: accounts[0].Address}

	_, err := chain.Deploy(context.Background(), keyless, testArtifact(t, stopBytecode), common.Address{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoAccounts)
}

func TestChain_InvalidDeploymentRecord(t *testing.T) {
	chain, accounts := newSimulatedChain(t)

	_, err := chain.FundMe(&models.Deployment{Name: "FundMe", Address: "nope", ABI: []byte(fundMeABI)}, accounts[0])
	assert.Error(t, err)

	_, err = chain.PriceFeed(&models.Deployment{Name: "MockV3Aggregator", Address: common.Address{}.Hex(), ABI: []byte("{")}, accounts[0])
	assert.Error(t, err)
}
