package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

// GetFundMe returns the registered FundMe bound to signer
func GetFundMe(ctx context.Context, env *Environment, signer *models.Account) (FundMe, error) {
	deployment, err := env.Deployments.Get(ctx, FundMeName)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s on %s: %w", FundMeName, env.Network.Name, err)
	}
	return env.Chain.FundMe(deployment, signer)
}

// GetPriceFeed returns the registered MockV3Aggregator bound to signer
func GetPriceFeed(ctx context.Context, env *Environment, signer *models.Account) (PriceFeed, error) {
	deployment, err := env.Deployments.Get(ctx, MockV3AggregatorName)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s on %s: %w", MockV3AggregatorName, env.Network.Name, err)
	}
	return env.Chain.PriceFeed(deployment, signer)
}
