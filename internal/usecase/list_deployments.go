package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	ContractName string
	Tag          string
}

// ListDeploymentsResult contains the registry records of the current network
type ListDeploymentsResult struct {
	Network     string
	ChainID     uint64
	Deployments []*models.Deployment
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	repo   DeploymentRepository
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, repo DeploymentRepository, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		repo:   repo,
		sink:   sink,
	}
}

// Run lists deployments without connecting to the network
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*ListDeploymentsResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	deployments, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	deployments = lo.Filter(deployments, func(d *models.Deployment, _ int) bool {
		if params.ContractName != "" && !strings.EqualFold(d.ContractName, params.ContractName) {
			return false
		}
		if params.Tag != "" && !lo.Contains(d.Tags, params.Tag) {
			return false
		}
		return true
	})
	sort.Slice(deployments, func(i, j int) bool {
		return deployments[i].Name < deployments[j].Name
	})

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(deployments),
		Total:   len(deployments),
		Message: "Deployments loaded",
	})

	result := &ListDeploymentsResult{
		Deployments: deployments,
	}
	if uc.config.Network != nil {
		result.Network = uc.config.Network.Name
		result.ChainID = uc.config.Network.ChainID
	}
	return result, nil
}
