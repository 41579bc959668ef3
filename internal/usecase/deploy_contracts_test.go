package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

func TestDeployContracts_Development(t *testing.T) {
	ctx := context.Background()
	te := newDevEnv()
	sink := &recordingSink{}

	result, err := newDeployContracts(te.factory, sink).Run(ctx, usecase.DeployContractsParams{})
	require.NoError(t, err)

	assert.Equal(t, "hardhat", result.Network)
	assert.Equal(t, []string{"00-deploy-mocks", "01-deploy-fundme"}, result.StepsRun)
	assert.Equal(t, []string{usecase.MockV3AggregatorName, usecase.FundMeName}, te.chain.deployed)
	require.Len(t, result.Deployments, 2)
	assert.Contains(t, sink.infos, "Local network detected deploying mocks!")

	deployer := te.accounts.signers[0]
	mock, err := usecase.GetPriceFeed(ctx, te.env, deployer)
	require.NoError(t, err)

	decimals, err := mock.Decimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(8), decimals)

	answer, err := mock.LatestAnswer(ctx)
	require.NoError(t, err)
	assert.Equal(t, "200000000000", answer.String())

	fundMe, err := usecase.GetFundMe(ctx, te.env, deployer)
	require.NoError(t, err)
	priceFeed, err := fundMe.GetPriceFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, mock.Address(), priceFeed)

	record, err := te.env.Deployments.Get(ctx, usecase.FundMeName)
	require.NoError(t, err)
	assert.Equal(t, deployer.Address.Hex(), record.Deployer)
	assert.Equal(t, []string{mock.Address().String()}, record.Args)
	assert.Equal(t, 1, record.NumDeployments)
	require.NotNil(t, record.Receipt)
	assert.Equal(t, uint64(fakeGasUsed), record.Receipt.GasUsed)
}

func TestDeployContracts_Live(t *testing.T) {
	ctx := context.Background()
	te := newLiveEnv()

	result, err := newDeployContracts(te.factory, &recordingSink{}).Run(ctx, usecase.DeployContractsParams{})
	require.NoError(t, err)

	// the mock step still runs, as a no-op
	assert.Equal(t, []string{"00-deploy-mocks", "01-deploy-fundme"}, result.StepsRun)
	assert.Equal(t, []string{usecase.FundMeName}, te.chain.deployed)

	_, err = te.env.Deployments.Get(ctx, usecase.MockV3AggregatorName)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	fundMe, err := usecase.GetFundMe(ctx, te.env, te.accounts.signers[0])
	require.NoError(t, err)
	priceFeed, err := fundMe.GetPriceFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(te.env.Network.PriceFeed), priceFeed)
}

func TestDeployContracts_LiveWithoutPriceFeed(t *testing.T) {
	te := newLiveEnv()
	te.env.Network.PriceFeed = ""

	_, err := newDeployContracts(te.factory, &recordingSink{}).Run(context.Background(), usecase.DeployContractsParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid price_feed")
	assert.Empty(t, te.chain.deployed)
}

func TestDeployContracts_Tags(t *testing.T) {
	ctx := context.Background()

	t.Run("mocks only", func(t *testing.T) {
		te := newDevEnv()
		result, err := newDeployContracts(te.factory, &recordingSink{}).Run(ctx, usecase.DeployContractsParams{
			Tags: []string{usecase.TagMocks},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"00-deploy-mocks"}, result.StepsRun)
		assert.Equal(t, []string{usecase.MockV3AggregatorName}, te.chain.deployed)
	})

	t.Run("fundme without mock", func(t *testing.T) {
		te := newDevEnv()
		_, err := newDeployContracts(te.factory, &recordingSink{}).Run(ctx, usecase.DeployContractsParams{
			Tags: []string{usecase.TagFundMe},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), `run the "mocks" tag first`)
	})

	t.Run("unknown tag runs nothing", func(t *testing.T) {
		te := newDevEnv()
		result, err := newDeployContracts(te.factory, &recordingSink{}).Run(ctx, usecase.DeployContractsParams{
			Tags: []string{"governance"},
		})
		require.NoError(t, err)
		assert.Empty(t, result.StepsRun)
		assert.Empty(t, te.chain.deployed)
	})
}

func TestDeployContracts_RedeployCountsDeployments(t *testing.T) {
	ctx := context.Background()
	te := newDevEnv()
	uc := newDeployContracts(te.factory, &recordingSink{})

	_, err := uc.Run(ctx, usecase.DeployContractsParams{})
	require.NoError(t, err)
	first, err := te.env.Deployments.Get(ctx, usecase.FundMeName)
	require.NoError(t, err)

	_, err = uc.Fixture(ctx, te.env, usecase.TagAll)
	require.NoError(t, err)
	second, err := te.env.Deployments.Get(ctx, usecase.FundMeName)
	require.NoError(t, err)

	assert.NotEqual(t, first.Address, second.Address)
	assert.Equal(t, 2, second.NumDeployments)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestDeployContracts_OpenError(t *testing.T) {
	factory := &fakeEnvironments{err: errors.New("dial tcp 127.0.0.1:8545: connection refused")}

	_, err := newDeployContracts(factory, &recordingSink{}).Run(context.Background(), usecase.DeployContractsParams{})
	assert.EqualError(t, err, "dial tcp 127.0.0.1:8545: connection refused")
}
