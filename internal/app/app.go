package app

import (
	"github.com/trebuchet-org/fundme-cli/internal/adapters/environment"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	DeployContracts *usecase.DeployContracts
	FundContract    *usecase.FundContract
	WithdrawFunds   *usecase.WithdrawFunds
	RunLocalSuite   *usecase.RunLocalSuite
	RunStagingSuite *usecase.RunStagingSuite
	ListDeployments *usecase.ListDeployments
	ListNetworks    *usecase.ListNetworks
	ManageAnvil     *usecase.ManageAnvil
	ManageConfig    *usecase.ManageConfig

	environments *environment.Factory
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	environments *environment.Factory,
	deployContracts *usecase.DeployContracts,
	fundContract *usecase.FundContract,
	withdrawFunds *usecase.WithdrawFunds,
	runLocalSuite *usecase.RunLocalSuite,
	runStagingSuite *usecase.RunStagingSuite,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
	manageAnvil *usecase.ManageAnvil,
	manageConfig *usecase.ManageConfig,
) (*App, error) {
	return &App{
		Config:          cfg,
		DeployContracts: deployContracts,
		FundContract:    fundContract,
		WithdrawFunds:   withdrawFunds,
		RunLocalSuite:   runLocalSuite,
		RunStagingSuite: runStagingSuite,
		ListDeployments: listDeployments,
		ListNetworks:    listNetworks,
		ManageAnvil:     manageAnvil,
		ManageConfig:    manageConfig,
		environments:    environments,
	}, nil
}

// Close releases the simulated chain, if a command started one
func (a *App) Close() {
	a.environments.Close()
}
