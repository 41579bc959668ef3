//go:build integration

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/progress"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// newSimulatedApp wires the full app against the in-process chain, reading
// compiled FundMe and MockV3Aggregator artifacts from FUNDME_ARTIFACTS_DIR.
func newSimulatedApp(t *testing.T) *App {
	t.Helper()

	artifactsDir := os.Getenv("FUNDME_ARTIFACTS_DIR")
	if artifactsDir == "" {
		t.Skip("FUNDME_ARTIFACTS_DIR not set")
	}
	artifactsDir, err := filepath.Abs(artifactsDir)
	require.NoError(t, err)

	root := t.TempDir()
	project := fmt.Sprintf(`default_network = "hardhat"
development_chains = ["hardhat", "localhost"]

[networks.hardhat]
simulated = true

[networks.localhost]
rpc_url = "http://127.0.0.1:8545"
chain_id = 31337

[mocks]
decimals = 8
initial_answer = "200000000000"

[paths]
artifacts = [%q]
`, artifactsDir)
	require.NoError(t, os.WriteFile(filepath.Join(root, "fundme.toml"), []byte(project), 0644))

	v := viper.New()
	v.Set("project_root", root)
	v.Set("timeout", 2*time.Minute)
	v.Set("non_interactive", true)

	app, err := InitApp(v, progress.NewNopSink())
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestIntegration_LocalSuite(t *testing.T) {
	app := newSimulatedApp(t)

	report, err := app.RunLocalSuite.Run(context.Background(), usecase.RunSuiteParams{})
	require.NoError(t, err)

	for _, c := range report.Cases {
		assert.True(t, c.Passed, "%s: err=%v failures=%v", c.FullName(), c.Err, c.Failures)
	}
	assert.Len(t, report.Cases, 8)
}

func TestIntegration_DeployFundWithdraw(t *testing.T) {
	ctx := context.Background()
	app := newSimulatedApp(t)

	deployed, err := app.DeployContracts.Run(ctx, usecase.DeployContractsParams{})
	require.NoError(t, err)
	require.Len(t, deployed.Deployments, 2)

	_, err = app.FundContract.Run(ctx, usecase.FundContractParams{Value: "0"})
	assert.Equal(t, usecase.InsufficientFundingReason, domain.RevertReason(err))

	funded, err := app.FundContract.Run(ctx, usecase.FundContractParams{Value: "1"})
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", funded.Funded.String())

	withdrawn, err := app.WithdrawFunds.Run(ctx, usecase.WithdrawFundsParams{Cheaper: true})
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", withdrawn.Withdrawn.String())

	listed, err := app.ListDeployments.Run(ctx, usecase.ListDeploymentsParams{})
	require.NoError(t, err)
	assert.Len(t, listed.Deployments, 2)
}
