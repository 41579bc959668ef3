package fs

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// MemoryDeploymentStore keeps records for the lifetime of the process.
// Used for simulated networks, whose chain disappears on exit.
type MemoryDeploymentStore struct {
	mu          sync.RWMutex
	deployments map[string]*models.Deployment
}

func NewMemoryDeploymentStore() *MemoryDeploymentStore {
	return &MemoryDeploymentStore{deployments: make(map[string]*models.Deployment)}
}

func (s *MemoryDeploymentStore) Get(ctx context.Context, name string) (*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deployment, ok := s.deployments[name]
	if !ok {
		return nil, unknownDeployment(name, lo.Keys(s.deployments))
	}
	return deployment.Clone(), nil
}

func (s *MemoryDeploymentStore) List(ctx context.Context) ([]*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedDeployments(s.deployments), nil
}

func (s *MemoryDeploymentStore) Save(ctx context.Context, deployment *models.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deployments[deployment.Name] = deployment.Clone()
	return nil
}

func (s *MemoryDeploymentStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deployments[name]; !ok {
		return unknownDeployment(name, lo.Keys(s.deployments))
	}
	delete(s.deployments, name)
	return nil
}

func (s *MemoryDeploymentStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deployments = make(map[string]*models.Deployment)
	return nil
}

var _ usecase.DeploymentRepository = (*MemoryDeploymentStore)(nil)
