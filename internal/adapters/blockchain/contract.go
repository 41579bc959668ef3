package blockchain

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

// boundContract is a contract at a fixed address, signing as one account
type boundContract struct {
	chain   *Chain
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
	from    *models.Account
}

func newBoundContract(chain *Chain, deployment *models.Deployment, from *models.Account) (*boundContract, error) {
	if !common.IsHexAddress(deployment.Address) {
		return nil, fmt.Errorf("deployment %s has invalid address %q", deployment.Name, deployment.Address)
	}
	parsed, err := abi.JSON(bytes.NewReader(deployment.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", deployment.Name, err)
	}
	address := common.HexToAddress(deployment.Address)
	return &boundContract{
		chain:   chain,
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, chain.backend, chain.backend, chain.backend),
		from:    from,
	}, nil
}

// connect returns a copy signing as account
func (c *boundContract) connect(account *models.Account) *boundContract {
	clone := *c
	clone.from = account
	return &clone
}

func (c *boundContract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	opts := &bind.CallOpts{Context: ctx}
	if c.from != nil {
		opts.From = c.from.Address
	}
	var out []interface{}
	if err := c.bound.Call(opts, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, decodeRevert(&c.abi, err))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return out, nil
}

// transact simulates the call first so a revert reason is reported before
// anything is signed, then sends the transaction.
func (c *boundContract) transact(ctx context.Context, value *big.Int, method string, args ...interface{}) (*types.Transaction, error) {
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	if c.from == nil {
		return nil, fmt.Errorf("%s: no signer bound", method)
	}

	msg := ethereum.CallMsg{
		From:  c.from.Address,
		To:    &c.address,
		Value: value,
		Data:  input,
	}
	if _, err := c.chain.backend.CallContract(ctx, msg, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", method, decodeRevert(&c.abi, err))
	}

	opts, err := c.chain.transactOpts(ctx, c.from, value)
	if err != nil {
		return nil, err
	}
	tx, err := c.bound.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, decodeRevert(&c.abi, err))
	}
	return tx, nil
}

func toAddress(v interface{}) common.Address {
	return *abi.ConvertType(v, new(common.Address)).(*common.Address)
}

func toBigInt(v interface{}) *big.Int {
	return abi.ConvertType(v, new(big.Int)).(*big.Int)
}
