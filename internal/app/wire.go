//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/fundme-cli/internal/adapters"
	"github.com/trebuchet-org/fundme-cli/internal/config"
	"github.com/trebuchet-org/fundme-cli/internal/logging"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployMocks,
		usecase.NewDeployFundMe,
		usecase.NewDeployContracts,
		usecase.NewFundContract,
		usecase.NewWithdrawFunds,
		usecase.NewRunLocalSuite,
		usecase.NewRunStagingSuite,
		usecase.NewListDeployments,
		usecase.NewListNetworks,
		usecase.NewManageAnvil,
		usecase.NewManageConfig,

		// App
		NewApp,
	)
	return nil, nil
}
