package blockchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

const defaultPollInterval = 2 * time.Second

// Chain implements usecase.Chain on top of a Backend
type Chain struct {
	backend      Backend
	chainID      *big.Int
	pollInterval time.Duration
	log          *slog.Logger
}

// NewChain wraps backend. chainID is the ID reported by the node.
func NewChain(backend Backend, chainID *big.Int, log *slog.Logger) *Chain {
	return &Chain{
		backend:      backend,
		chainID:      chainID,
		pollInterval: defaultPollInterval,
		log:          log,
	}
}

func (c *Chain) ChainID() uint64 {
	return c.chainID.Uint64()
}

func (c *Chain) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	return c.backend.BalanceAt(ctx, address, nil)
}

// Deploy sends the creation transaction and waits for one confirmation
func (c *Chain) Deploy(ctx context.Context, from *models.Account, artifact *models.Artifact, args ...interface{}) (*usecase.DeployResult, error) {
	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", artifact.ContractName, err)
	}
	constructorData, err := parsed.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor args of %s: %w", artifact.ContractName, err)
	}

	opts, err := c.transactOpts(ctx, from, nil)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := bind.DeployContract(opts, parsed, artifact.Bytecode, c.backend, args...)
	if err != nil {
		return nil, decodeRevert(&parsed, err)
	}
	c.log.Debug("sent deployment", "contract", artifact.ContractName, "tx", tx.Hash().Hex(), "address", address.Hex())

	receipt, err := c.WaitForConfirmations(ctx, tx, 1)
	if err != nil {
		return nil, err
	}
	if receipt.ContractAddress != (common.Address{}) {
		address = receipt.ContractAddress
	}

	return &usecase.DeployResult{
		Address:         address,
		Transaction:     tx,
		Receipt:         receipt,
		ConstructorData: constructorData,
	}, nil
}

// WaitForConfirmations waits until tx is mined and buried under confirmations-1 blocks.
// Backends that can mine on demand are advanced instead of polled.
func (c *Chain) WaitForConfirmations(ctx context.Context, tx *types.Transaction, confirmations uint64) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, c.revertFromReceipt(ctx, tx, receipt)
	}
	if confirmations <= 1 {
		return receipt, nil
	}

	target := receipt.BlockNumber.Uint64() + confirmations - 1
	miner, canMine := c.backend.(Miner)
	for {
		head, err := c.backend.BlockNumber(ctx)
		if err != nil {
			return receipt, fmt.Errorf("failed to get block number: %w", err)
		}
		if head >= target {
			return receipt, nil
		}
		if canMine {
			miner.Commit()
			continue
		}

		c.log.Debug("waiting for confirmations", "tx", tx.Hash().Hex(), "head", head, "target", target)
		select {
		case <-ctx.Done():
			return receipt, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Chain) FundMe(deployment *models.Deployment, from *models.Account) (usecase.FundMe, error) {
	contract, err := newBoundContract(c, deployment, from)
	if err != nil {
		return nil, err
	}
	return &FundMeContract{contract: contract}, nil
}

func (c *Chain) PriceFeed(deployment *models.Deployment, from *models.Account) (usecase.PriceFeed, error) {
	contract, err := newBoundContract(c, deployment, from)
	if err != nil {
		return nil, err
	}
	return &PriceFeedContract{contract: contract}, nil
}

func (c *Chain) Close() {
	c.backend.Close()
}

func (c *Chain) transactOpts(ctx context.Context, from *models.Account, value *big.Int) (*bind.TransactOpts, error) {
	if from == nil || from.Key == nil {
		return nil, fmt.Errorf("no private key for signer: %w", domain.ErrNoAccounts)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(from.Key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor for %s: %w", from.Label(), err)
	}
	opts.Context = ctx
	opts.Value = value
	return opts, nil
}

// revertFromReceipt replays a failed transaction on its parent block to recover the reason
func (c *Chain) revertFromReceipt(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) error {
	revertErr := &domain.RevertError{TxHash: tx.Hash().Hex()}

	from, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return revertErr
	}
	msg := ethereum.CallMsg{
		From:  from,
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}
	block := new(big.Int).Sub(receipt.BlockNumber, big.NewInt(1))
	_, err = c.backend.CallContract(ctx, msg, block)

	var replayed *domain.RevertError
	if errors.As(decodeRevert(nil, err), &replayed) {
		revertErr.Reason = replayed.Reason
		revertErr.CustomError = replayed.CustomError
		revertErr.Data = replayed.Data
	}
	return revertErr
}

var _ usecase.Chain = (*Chain)(nil)
