package adapters

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/fs"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

func TestProvideDeploymentRepository(t *testing.T) {
	t.Run("simulated network stays in memory", func(t *testing.T) {
		repo, err := ProvideDeploymentRepository(&config.RuntimeConfig{
			ProjectRoot: t.TempDir(),
			Network:     &config.Network{Name: "hardhat", Simulated: true},
			Project:     config.DefaultProjectConfig(),
		})
		require.NoError(t, err)
		assert.IsType(t, &fs.MemoryDeploymentStore{}, repo)
	})

	t.Run("live network persists under the project", func(t *testing.T) {
		root := t.TempDir()
		repo, err := ProvideDeploymentRepository(&config.RuntimeConfig{
			ProjectRoot: root,
			Network:     &config.Network{Name: "sepolia", ChainID: 11155111},
			Project:     config.DefaultProjectConfig(),
		})
		require.NoError(t, err)

		store, ok := repo.(*fs.DeploymentStore)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "deployments", "sepolia"), store.Dir())

		require.NoError(t, repo.Save(context.Background(), &models.Deployment{
			Name:    "FundMe",
			Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			ChainID: 11155111,
		}))
		assert.FileExists(t, filepath.Join(root, "deployments", "sepolia", "FundMe.json"))
	})

	t.Run("no network", func(t *testing.T) {
		_, err := ProvideDeploymentRepository(&config.RuntimeConfig{})
		assert.Error(t, err)
	})
}
