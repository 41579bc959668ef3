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

// WithdrawFundsParams contains parameters for the withdrawal script
type WithdrawFundsParams struct {
	Cheaper bool // call cheaperWithdraw() instead of withdraw()
	Yes     bool // skip the confirmation prompt on live networks
}

// WithdrawFundsResult describes a completed withdrawal
type WithdrawFundsResult struct {
	Network   string
	Contract  common.Address
	Owner     common.Address
	Withdrawn *big.Int
	GasCost   *big.Int
	Receipt   *types.Receipt
}

// WithdrawFunds withdraws the contract balance to the deployer
type WithdrawFunds struct {
	envs      EnvironmentFactory
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewWithdrawFunds creates a new WithdrawFunds use case
func NewWithdrawFunds(envs EnvironmentFactory, confirmer Confirmer, progress ProgressSink, log *slog.Logger) *WithdrawFunds {
	return &WithdrawFunds{
		envs:      envs,
		confirmer: confirmer,
		progress:  progress,
		log:       log,
	}
}

// Run resolves the deployer, gets its FundMe handle, withdraws and waits for one confirmation
func (uc *WithdrawFunds) Run(ctx context.Context, params WithdrawFundsParams) (*WithdrawFundsResult, error) {
	env, err := uc.envs.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	deployer, err := env.Accounts.NamedAccount(ctx, "deployer")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deployer: %w", err)
	}

	fundMe, err := GetFundMe(ctx, env, deployer)
	if err != nil {
		return nil, err
	}

	balance, err := env.Chain.BalanceAt(ctx, fundMe.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to read contract balance: %w", err)
	}

	if !env.IsDevelopment() && !params.Yes {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Withdraw %s ETH from %s on %s?",
			domain.FormatEther(balance), fundMe.Address().Hex(), env.Network.Name))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrCancelled
		}
	}

	uc.progress.Info("withdrawing contract funding............")
	uc.log.Debug("sending withdraw", "contract", fundMe.Address().Hex(), "cheaper", params.Cheaper)

	var tx *types.Transaction
	if params.Cheaper {
		tx, err = fundMe.CheaperWithdraw(ctx)
	} else {
		tx, err = fundMe.Withdraw(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("withdraw failed: %w", err)
	}

	receipt, err := env.Chain.WaitForConfirmations(ctx, tx, 1)
	if err != nil {
		return nil, fmt.Errorf("withdraw transaction failed: %w", err)
	}
	uc.progress.Info("funds withdrawn")

	return &WithdrawFundsResult{
		Network:   env.Network.Name,
		Contract:  fundMe.Address(),
		Owner:     deployer.Address,
		Withdrawn: balance,
		GasCost:   GasCost(receipt, tx),
		Receipt:   receipt,
	}, nil
}

// GasCost returns gasUsed * effectiveGasPrice, falling back to the tx gas price
// for nodes that omit effectiveGasPrice from receipts
func GasCost(receipt *types.Receipt, tx *types.Transaction) *big.Int {
	price := receipt.EffectiveGasPrice
	if price == nil && tx != nil {
		price = tx.GasPrice()
	}
	if price == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(receipt.GasUsed), price)
}
