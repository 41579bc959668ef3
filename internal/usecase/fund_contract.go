package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
)

// FundContractParams contains parameters for the fund script
type FundContractParams struct {
	Value   string // ether amount; empty uses [suite] send_value
	Account string // named account, defaults to "deployer"
}

// FundContractResult describes a confirmed funding transaction
type FundContractResult struct {
	Network  string
	Contract common.Address
	Funder   common.Address
	Value    *big.Int
	Funded   *big.Int // funder's recorded total after the transaction
	Receipt  *types.Receipt
}

// FundContract sends ETH to FundMe through fund()
type FundContract struct {
	envs     EnvironmentFactory
	progress ProgressSink
	log      *slog.Logger
}

// NewFundContract creates a new FundContract use case
func NewFundContract(envs EnvironmentFactory, progress ProgressSink, log *slog.Logger) *FundContract {
	return &FundContract{
		envs:     envs,
		progress: progress,
		log:      log,
	}
}

// Run funds the contract and waits for the network's confirmations
func (uc *FundContract) Run(ctx context.Context, params FundContractParams) (*FundContractResult, error) {
	env, err := uc.envs.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	value, err := sendValue(params.Value, env)
	if err != nil {
		return nil, err
	}

	accountName := params.Account
	if accountName == "" {
		accountName = "deployer"
	}
	funder, err := env.Accounts.NamedAccount(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", accountName, err)
	}

	fundMe, err := GetFundMe(ctx, env, funder)
	if err != nil {
		return nil, err
	}

	uc.progress.Info("Funding contract...")
	uc.log.Debug("sending fund", "contract", fundMe.Address().Hex(), "value", value.String(), "from", funder.Label())

	tx, err := fundMe.Fund(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("fund failed: %w", err)
	}
	receipt, err := env.Chain.WaitForConfirmations(ctx, tx, env.Network.Confirmations())
	if err != nil {
		return nil, fmt.Errorf("fund transaction failed: %w", err)
	}
	uc.progress.Info("Funded!")

	funded, err := fundMe.GetAddressToAmountFunded(ctx, funder.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to read funded amount: %w", err)
	}

	return &FundContractResult{
		Network:  env.Network.Name,
		Contract: fundMe.Address(),
		Funder:   funder.Address,
		Value:    value,
		Funded:   funded,
		Receipt:  receipt,
	}, nil
}

// sendValue parses an explicit ether amount or falls back to the project's send_value
func sendValue(explicit string, env *Environment) (*big.Int, error) {
	amount := explicit
	if amount == "" && env.Project != nil {
		amount = env.Project.Suite.SendValue
	}
	if amount == "" {
		amount = "1"
	}
	value, err := domain.ParseEther(amount)
	if err != nil {
		return nil, err
	}
	return value, nil
}
