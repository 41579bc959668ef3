package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

// InsufficientFundingReason is the revert reason of fund() below the USD minimum
const InsufficientFundingReason = "You need to spend more ETH!"

// multiFunderCount is how many extra signers fund in the multiple funders case
const multiFunderCount = 5

// RunLocalSuite verifies FundMe against freshly deployed instances on a development network
type RunLocalSuite struct {
	envs     EnvironmentFactory
	deploy   *DeployContracts
	progress ProgressSink
	log      *slog.Logger
}

// NewRunLocalSuite creates a new RunLocalSuite use case
func NewRunLocalSuite(envs EnvironmentFactory, deploy *DeployContracts, progress ProgressSink, log *slog.Logger) *RunLocalSuite {
	return &RunLocalSuite{
		envs:     envs,
		deploy:   deploy,
		progress: progress,
		log:      log,
	}
}

// localFixture is the state every local case starts from
type localFixture struct {
	deployer *models.Account
	signers  []*models.Account
	fundMe   FundMe
	mock     PriceFeed
}

// Run executes every local case. Each case redeploys the "all" fixture first.
func (uc *RunLocalSuite) Run(ctx context.Context, params RunSuiteParams) (*SuiteReport, error) {
	env, err := uc.envs.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	if !env.IsDevelopment() {
		return nil, fmt.Errorf("local suite cannot run on %s: %w (use 'fundme test staging')",
			env.Network.Name, domain.ErrNotDevelopmentNetwork)
	}

	value, err := sendValue("", env)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := &SuiteReport{
		Suite:   SuiteLocal,
		Network: env.Network.Name,
		ChainID: env.Chain.ChainID(),
	}
	report.Cases = runCases(ctx, uc.progress, params, uc.cases(env, value))
	report.Duration = time.Since(start)

	if record, err := env.Deployments.Get(ctx, FundMeName); err == nil {
		report.Contract = record.Address
	}

	uc.log.Debug("local suite finished", "passed", report.Passed(), "failed", report.Failed())
	return report, nil
}

// setup redeploys every step and binds both contracts to the deployer
func (uc *RunLocalSuite) setup(ctx context.Context, env *Environment) (*localFixture, error) {
	if _, err := uc.deploy.Fixture(ctx, env, TagAll); err != nil {
		return nil, err
	}

	deployer, err := env.Accounts.NamedAccount(ctx, "deployer")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deployer: %w", err)
	}
	signers, err := env.Accounts.Signers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list signers: %w", err)
	}
	fundMe, err := GetFundMe(ctx, env, deployer)
	if err != nil {
		return nil, err
	}
	mock, err := GetPriceFeed(ctx, env, deployer)
	if err != nil {
		return nil, err
	}

	return &localFixture{
		deployer: deployer,
		signers:  signers,
		fundMe:   fundMe,
		mock:     mock,
	}, nil
}

func (uc *RunLocalSuite) cases(env *Environment, value *big.Int) []suiteCase {
	// withFixture wraps a case body with the per-case redeploy
	withFixture := func(body func(ctx context.Context, t *suiteT, fx *localFixture) error) func(context.Context, *suiteT) error {
		return func(ctx context.Context, t *suiteT) error {
			fx, err := uc.setup(ctx, env)
			if err != nil {
				return err
			}
			return body(ctx, t, fx)
		}
	}

	// funded additionally has the deployer fund value before the body runs
	funded := func(body func(ctx context.Context, t *suiteT, fx *localFixture) error) func(context.Context, *suiteT) error {
		return withFixture(func(ctx context.Context, t *suiteT, fx *localFixture) error {
			if _, err := fundAndWait(ctx, env, fx.fundMe, value, 1); err != nil {
				return fmt.Errorf("failed to fund as deployer: %w", err)
			}
			return body(ctx, t, fx)
		})
	}

	return []suiteCase{
		{
			group: "constructor",
			name:  "sets the aggregator addresses correctly",
			run: withFixture(func(ctx context.Context, t *suiteT, fx *localFixture) error {
				priceFeed, err := fx.fundMe.GetPriceFeed(ctx)
				if err != nil {
					return err
				}
				assert.Equal(t, fx.mock.Address().Hex(), priceFeed.Hex())
				return nil
			}),
		},
		{
			group: "fund",
			name:  "fails if sent insufficient ETH",
			run: withFixture(func(ctx context.Context, t *suiteT, fx *localFixture) error {
				_, err := fundAndWait(ctx, env, fx.fundMe, new(big.Int), 1)
				if assert.Error(t, err, "fund() with no value should revert") {
					assert.True(t, domain.IsRevert(err), "expected a revert, got: %v", err)
					assert.Equal(t, InsufficientFundingReason, domain.RevertReason(err))
				}
				return nil
			}),
		},
		{
			group: "fund",
			name:  "updates the amount funded data structure",
			run: withFixture(func(ctx context.Context, t *suiteT, fx *localFixture) error {
				if _, err := fundAndWait(ctx, env, fx.fundMe, value, 1); err != nil {
					return err
				}
				funded, err := fx.fundMe.GetAddressToAmountFunded(ctx, fx.deployer.Address)
				if err != nil {
					return err
				}
				assert.Equal(t, value.String(), funded.String())
				return nil
			}),
		},
		{
			group: "fund",
			name:  "adds funder to array of funders",
			run: withFixture(func(ctx context.Context, t *suiteT, fx *localFixture) error {
				if _, err := fundAndWait(ctx, env, fx.fundMe, value, 1); err != nil {
					return err
				}
				funder, err := fx.fundMe.GetFunders(ctx, 0)
				if err != nil {
					return err
				}
				assert.Equal(t, fx.deployer.Address.Hex(), funder.Hex())
				return nil
			}),
		},
		{
			group: "withdraw",
			name:  "can withdraw ETH from a single funder",
			run: funded(func(ctx context.Context, t *suiteT, fx *localFixture) error {
				return checkConservation(ctx, t, env, fx, true)
			}),
		},
		{
			group: "withdraw",
			name:  "allows us to withdraw with multiple funders",
			run: funded(func(ctx context.Context, t *suiteT, fx *localFixture) error {
				if len(fx.signers) < multiFunderCount+1 {
					return fmt.Errorf("need %d signers, network has %d: %w",
						multiFunderCount+1, len(fx.signers), domain.ErrNoAccounts)
				}
				funders := fx.signers[1 : multiFunderCount+1]
				for _, funder := range funders {
					if _, err := fundAndWait(ctx, env, fx.fundMe.Connect(funder), value, 1); err != nil {
						return fmt.Errorf("failed to fund as %s: %w", funder.Label(), err)
					}
				}

				if err := checkConservation(ctx, t, env, fx, true); err != nil {
					return err
				}

				_, err := fx.fundMe.GetFunders(ctx, 0)
				assert.True(t, domain.IsRevert(err), "getFunders(0) should revert after withdraw, got: %v", err)

				for _, funder := range funders {
					amount, err := fx.fundMe.GetAddressToAmountFunded(ctx, funder.Address)
					if err != nil {
						return err
					}
					assert.Equal(t, "0", amount.String(), "amount funded by %s", funder.Address.Hex())
				}
				return nil
			}),
		},
		{
			group: "withdraw",
			name:  "only allows owner to withdraw funds",
			run: funded(func(ctx context.Context, t *suiteT, fx *localFixture) error {
				if len(fx.signers) < 2 {
					return fmt.Errorf("need a second signer: %w", domain.ErrNoAccounts)
				}
				attacker := fx.signers[1]
				_, _, err := withdrawAndWait(ctx, env, fx.fundMe.Connect(attacker), false, 1)
				assert.True(t, domain.IsRevert(err), "withdraw() from %s should revert, got: %v", attacker.Address.Hex(), err)

				_, _, err = withdrawAndWait(ctx, env, fx.fundMe, false, 1)
				assert.NoError(t, err, "owner withdraw should succeed")
				return nil
			}),
		},
		{
			group: "withdraw",
			name:  "conserves balances with plain withdraw",
			run: funded(func(ctx context.Context, t *suiteT, fx *localFixture) error {
				return checkConservation(ctx, t, env, fx, false)
			}),
		},
	}
}

// checkConservation withdraws as the deployer and asserts
// contractBefore + deployerBefore == deployerAfter + gasCost and contractAfter == 0.
func checkConservation(ctx context.Context, t *suiteT, env *Environment, fx *localFixture, cheaper bool) error {
	contractBefore, err := env.Chain.BalanceAt(ctx, fx.fundMe.Address())
	if err != nil {
		return err
	}
	before, err := balances(ctx, env, fx.deployer)
	if err != nil {
		return err
	}

	_, gasCost, err := withdrawAndWait(ctx, env, fx.fundMe, cheaper, 1)
	if err != nil {
		return err
	}

	contractAfter, err := env.Chain.BalanceAt(ctx, fx.fundMe.Address())
	if err != nil {
		return err
	}
	after, err := balances(ctx, env, fx.deployer)
	if err != nil {
		return err
	}

	want := new(big.Int).Add(contractBefore, before[0])
	got := new(big.Int).Add(after[0], gasCost)
	assert.Equal(t, want.String(), got.String(), "contract + deployer balance must be conserved minus gas")
	assert.Equal(t, "0", contractAfter.String(), "contract balance after withdraw")
	return nil
}
