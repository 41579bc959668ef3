package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

// DeployContractsParams contains parameters for running deployment steps
type DeployContractsParams struct {
	Tags []string // empty means every step
}

// DeployContractsResult contains the steps that ran and the resulting registry
type DeployContractsResult struct {
	Network     string
	ChainID     uint64
	StepsRun    []string
	Deployments []*models.Deployment
}

// DeployContracts runs the tagged deployment steps in order
type DeployContracts struct {
	envs     EnvironmentFactory
	steps    []DeployStep
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployContracts creates the deploy use case with the mocks and FundMe steps
func NewDeployContracts(
	envs EnvironmentFactory,
	mocks *DeployMocks,
	fundMe *DeployFundMe,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	return &DeployContracts{
		envs:     envs,
		steps:    []DeployStep{mocks, fundMe},
		progress: progress,
		log:      log,
	}
}

// Run opens the configured network and runs every step matching params.Tags
func (uc *DeployContracts) Run(ctx context.Context, params DeployContractsParams) (*DeployContractsResult, error) {
	env, err := uc.envs.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	ran, err := uc.Fixture(ctx, env, params.Tags...)
	if err != nil {
		return nil, err
	}

	deployments, err := env.Deployments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	return &DeployContractsResult{
		Network:     env.Network.Name,
		ChainID:     env.Chain.ChainID(),
		StepsRun:    ran,
		Deployments: deployments,
	}, nil
}

// Fixture runs the steps matching tags against an already opened environment.
// Every call redeploys, so callers get fresh instances.
func (uc *DeployContracts) Fixture(ctx context.Context, env *Environment, tags ...string) ([]string, error) {
	var ran []string
	for _, step := range uc.steps {
		if !stepMatches(step, tags) {
			continue
		}
		uc.log.Debug("running deploy step", "step", step.Name(), "network", env.Network.Name)
		if err := step.Run(ctx, env); err != nil {
			return ran, fmt.Errorf("deploy step %s failed: %w", step.Name(), err)
		}
		ran = append(ran, step.Name())
	}
	return ran, nil
}
