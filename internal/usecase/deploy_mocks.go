package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
)

// DeployMocks deploys the MockV3Aggregator price feed on development networks
type DeployMocks struct {
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployMocks creates the mock deployment step
func NewDeployMocks(progress ProgressSink, log *slog.Logger) *DeployMocks {
	return &DeployMocks{
		progress: progress,
		log:      log,
	}
}

func (d *DeployMocks) Name() string   { return "00-deploy-mocks" }
func (d *DeployMocks) Tags() []string { return []string{TagAll, TagMocks} }

// Run deploys the mock with the configured decimals and initial answer.
// It is a no-op on networks outside the development set.
func (d *DeployMocks) Run(ctx context.Context, env *Environment) error {
	if !env.IsDevelopment() {
		d.log.Debug("skipping mocks on non-development network", "network", env.Network.Name)
		return nil
	}

	deployer, err := env.Accounts.NamedAccount(ctx, "deployer")
	if err != nil {
		return fmt.Errorf("failed to resolve deployer: %w", err)
	}

	mocks := env.Project.Mocks
	initialAnswer, ok := new(big.Int).SetString(mocks.InitialAnswer, 10)
	if !ok {
		return fmt.Errorf("invalid mocks.initial_answer %q", mocks.InitialAnswer)
	}

	d.progress.Info("Local network detected deploying mocks!")
	d.log.Debug("deploying price feed mock",
		"network", env.Network.Name,
		"decimals", mocks.Decimals,
		"initialAnswer", initialAnswer.String(),
	)

	if _, err := deployNamed(ctx, env, d.progress, deployOptions{
		Name:     MockV3AggregatorName,
		Contract: MockV3AggregatorName,
		From:     deployer,
		Args:     []any{mocks.Decimals, initialAnswer},
		Tags:     d.Tags(),
	}); err != nil {
		return err
	}

	d.progress.Info("Mocks Deployed!")
	d.progress.Info("----------------------------------------")
	return nil
}

var _ DeployStep = (*DeployMocks)(nil)
