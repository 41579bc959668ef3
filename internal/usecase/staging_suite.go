package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
)

// RunStagingSuite runs the fund/withdraw round trip against the persisted deployment of a live network
type RunStagingSuite struct {
	envs     EnvironmentFactory
	progress ProgressSink
	log      *slog.Logger
}

// NewRunStagingSuite creates a new RunStagingSuite use case
func NewRunStagingSuite(envs EnvironmentFactory, progress ProgressSink, log *slog.Logger) *RunStagingSuite {
	return &RunStagingSuite{
		envs:     envs,
		progress: progress,
		log:      log,
	}
}

// Run refuses development networks and never redeploys
func (uc *RunStagingSuite) Run(ctx context.Context, params RunSuiteParams) (*SuiteReport, error) {
	env, err := uc.envs.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	if env.IsDevelopment() {
		return nil, fmt.Errorf("staging suite cannot run on %s: %w (use 'fundme test local')",
			env.Network.Name, domain.ErrDevelopmentNetwork)
	}

	value, err := sendValue("", env)
	if err != nil {
		return nil, err
	}

	deployer, err := env.Accounts.NamedAccount(ctx, "deployer")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deployer: %w", err)
	}
	fundMe, err := GetFundMe(ctx, env, deployer)
	if err != nil {
		return nil, err
	}
	confirmations := env.Network.Confirmations()

	start := time.Now()
	report := &SuiteReport{
		Suite:    SuiteStaging,
		Network:  env.Network.Name,
		ChainID:  env.Chain.ChainID(),
		Contract: fundMe.Address().Hex(),
	}
	report.Cases = runCases(ctx, uc.progress, params, []suiteCase{
		{
			group: "FundMe",
			name:  "allows people to fund and withdraw",
			run: func(ctx context.Context, t *suiteT) error {
				if _, err := fundAndWait(ctx, env, fundMe, value, confirmations); err != nil {
					return fmt.Errorf("fund failed: %w", err)
				}
				if _, _, err := withdrawAndWait(ctx, env, fundMe, false, confirmations); err != nil {
					return fmt.Errorf("withdraw failed: %w", err)
				}
				ending, err := env.Chain.BalanceAt(ctx, fundMe.Address())
				if err != nil {
					return err
				}
				uc.log.Debug("ending balance", "contract", fundMe.Address().Hex(), "balance", ending.String())
				assert.Equal(t, "0", ending.String())
				return nil
			},
		},
	})
	report.Duration = time.Since(start)

	return report, nil
}
