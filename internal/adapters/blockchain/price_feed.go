package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// PriceFeedContract binds an AggregatorV3Interface deployment (the mock or a live feed)
type PriceFeedContract struct {
	contract *boundContract
}

func (p *PriceFeedContract) Address() common.Address {
	return p.contract.address
}

func (p *PriceFeedContract) Decimals(ctx context.Context) (uint8, error) {
	out, err := p.contract.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals: unexpected type %T", out[0])
	}
	return decimals, nil
}

// LatestAnswer returns the answer field of latestRoundData()
func (p *PriceFeedContract) LatestAnswer(ctx context.Context) (*big.Int, error) {
	out, err := p.contract.call(ctx, "latestRoundData")
	if err != nil {
		return nil, err
	}
	if len(out) < 2 {
		return nil, fmt.Errorf("latestRoundData: expected 5 values, got %d", len(out))
	}
	return toBigInt(out[1]), nil
}

var _ usecase.PriceFeed = (*PriceFeedContract)(nil)
