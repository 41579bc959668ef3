package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// FundMeContract binds the FundMe ABI of a deployment record
type FundMeContract struct {
	contract *boundContract
}

func (f *FundMeContract) Address() common.Address {
	return f.contract.address
}

func (f *FundMeContract) Connect(account *models.Account) usecase.FundMe {
	return &FundMeContract{contract: f.contract.connect(account)}
}

func (f *FundMeContract) Fund(ctx context.Context, value *big.Int) (*types.Transaction, error) {
	return f.contract.transact(ctx, value, "fund")
}

func (f *FundMeContract) Withdraw(ctx context.Context) (*types.Transaction, error) {
	return f.contract.transact(ctx, nil, "withdraw")
}

func (f *FundMeContract) CheaperWithdraw(ctx context.Context) (*types.Transaction, error) {
	return f.contract.transact(ctx, nil, "cheaperWithdraw")
}

func (f *FundMeContract) GetPriceFeed(ctx context.Context) (common.Address, error) {
	out, err := f.contract.call(ctx, "getPriceFeed")
	if err != nil {
		return common.Address{}, err
	}
	return toAddress(out[0]), nil
}

func (f *FundMeContract) GetOwner(ctx context.Context) (common.Address, error) {
	out, err := f.contract.call(ctx, "getOwner")
	if err != nil {
		return common.Address{}, err
	}
	return toAddress(out[0]), nil
}

func (f *FundMeContract) GetAddressToAmountFunded(ctx context.Context, funder common.Address) (*big.Int, error) {
	out, err := f.contract.call(ctx, "getAddressToAmountFunded", funder)
	if err != nil {
		return nil, err
	}
	return toBigInt(out[0]), nil
}

// GetFunders reverts once the index is past the end of the funders array
func (f *FundMeContract) GetFunders(ctx context.Context, index int64) (common.Address, error) {
	out, err := f.contract.call(ctx, "getFunders", big.NewInt(index))
	if err != nil {
		return common.Address{}, err
	}
	return toAddress(out[0]), nil
}

var _ usecase.FundMe = (*FundMeContract)(nil)
