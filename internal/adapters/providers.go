package adapters

import (
	"fmt"
	"path/filepath"

	"github.com/google/wire"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/anvil"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/artifacts"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/environment"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/fs"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/interactive"
	"github.com/trebuchet-org/fundme-cli/internal/config"
	domainconfig "github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// ProvideDeploymentRepository provides the registry of the selected network:
// in memory for simulated networks, deployments/<network>/ otherwise
func ProvideDeploymentRepository(cfg *domainconfig.RuntimeConfig) (usecase.DeploymentRepository, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	if cfg.Network.Simulated {
		return fs.NewMemoryDeploymentStore(), nil
	}

	dir := domainconfig.DefaultDeploymentsDir
	if cfg.Project != nil && cfg.Project.Paths.Deployments != "" {
		dir = cfg.Project.Paths.Deployments
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	return fs.NewDeploymentStore(dir, cfg.Network.Name, cfg.Network.ChainID)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	ProvideDeploymentRepository,

	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),
)

// ChainSet provides the network environment
var ChainSet = wire.NewSet(
	environment.NewFactory,
	wire.Bind(new(usecase.EnvironmentFactory), new(*environment.Factory)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AnvilSet provides the local node manager
var AnvilSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.AnvilManager), new(*anvil.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ChainSet,
	InteractiveSet,
	ConfigSet,
	AnvilSet,
)
