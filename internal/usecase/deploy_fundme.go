package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
)

// DeployFundMe deploys FundMe wired to the network's price feed
type DeployFundMe struct {
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployFundMe creates the FundMe deployment step
func NewDeployFundMe(progress ProgressSink, log *slog.Logger) *DeployFundMe {
	return &DeployFundMe{
		progress: progress,
		log:      log,
	}
}

func (d *DeployFundMe) Name() string   { return "01-deploy-fundme" }
func (d *DeployFundMe) Tags() []string { return []string{TagAll, TagFundMe} }

// Run deploys FundMe. On development networks the price feed is the deployed
// mock; elsewhere it is the network's configured price_feed.
func (d *DeployFundMe) Run(ctx context.Context, env *Environment) error {
	deployer, err := env.Accounts.NamedAccount(ctx, "deployer")
	if err != nil {
		return fmt.Errorf("failed to resolve deployer: %w", err)
	}

	priceFeed, err := d.priceFeedAddress(ctx, env)
	if err != nil {
		return err
	}
	d.log.Debug("using price feed", "network", env.Network.Name, "address", priceFeed.Hex())

	if _, err := deployNamed(ctx, env, d.progress, deployOptions{
		Name:     FundMeName,
		Contract: FundMeName,
		From:     deployer,
		Args:     []any{priceFeed},
		Tags:     d.Tags(),
	}); err != nil {
		return err
	}

	d.progress.Info("----------------------------------------")
	return nil
}

func (d *DeployFundMe) priceFeedAddress(ctx context.Context, env *Environment) (common.Address, error) {
	if env.IsDevelopment() {
		mock, err := env.Deployments.Get(ctx, MockV3AggregatorName)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return common.Address{}, fmt.Errorf("%s is not deployed on %s, run the %q tag first: %w",
					MockV3AggregatorName, env.Network.Name, TagMocks, err)
			}
			return common.Address{}, err
		}
		return common.HexToAddress(mock.Address), nil
	}

	if !common.IsHexAddress(env.Network.PriceFeed) {
		return common.Address{}, fmt.Errorf("network %s has no valid price_feed configured (got %q)",
			env.Network.Name, env.Network.PriceFeed)
	}
	return common.HexToAddress(env.Network.PriceFeed), nil
}

var _ DeployStep = (*DeployFundMe)(nil)
