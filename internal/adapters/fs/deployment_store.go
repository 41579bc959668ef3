package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// ChainIDFile marks the chain a network directory belongs to (hardhat-deploy layout)
const ChainIDFile = ".chainId"

// DeploymentStore persists one network's deployments as deployments/<network>/<Name>.json
type DeploymentStore struct {
	dir         string
	chainID     uint64
	mu          sync.RWMutex
	deployments map[string]*models.Deployment
}

// NewDeploymentStore loads the records under root/<network>
func NewDeploymentStore(root, network string, chainID uint64) (*DeploymentStore, error) {
	s := &DeploymentStore{
		dir:         filepath.Join(root, network),
		chainID:     chainID,
		deployments: make(map[string]*models.Deployment),
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load deployments from %s: %w", s.dir, err)
	}
	return s, nil
}

// Dir returns the network directory
func (s *DeploymentStore) Dir() string {
	return s.dir
}

func (s *DeploymentStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return err
		}
		var deployment models.Deployment
		if err := json.Unmarshal(data, &deployment); err != nil {
			return fmt.Errorf("invalid deployment file %s: %w", entry.Name(), err)
		}
		deployment.Name = strings.TrimSuffix(entry.Name(), ".json")
		s.deployments[deployment.Name] = &deployment
	}
	return nil
}

func (s *DeploymentStore) Get(ctx context.Context, name string) (*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deployment, ok := s.deployments[name]
	if !ok {
		return nil, unknownDeployment(name, lo.Keys(s.deployments))
	}
	return deployment.Clone(), nil
}

func (s *DeploymentStore) List(ctx context.Context) ([]*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedDeployments(s.deployments), nil
}

func (s *DeploymentStore) Save(ctx context.Context, deployment *models.Deployment) error {
	if deployment.Name == "" {
		return fmt.Errorf("deployment has no name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dir, err)
	}
	if s.chainID != 0 {
		if err := writeFileAtomic(filepath.Join(s.dir, ChainIDFile), []byte(strconv.FormatUint(s.chainID, 10))); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(deployment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", deployment.Name, err)
	}
	if err := writeFileAtomic(s.path(deployment.Name), data); err != nil {
		return err
	}

	s.deployments[deployment.Name] = deployment.Clone()
	return nil
}

func (s *DeploymentStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deployments[name]; !ok {
		return unknownDeployment(name, lo.Keys(s.deployments))
	}
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	delete(s.deployments, name)
	return nil
}

// Reset removes every record of the network
func (s *DeploymentStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range s.deployments {
		if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	s.deployments = make(map[string]*models.Deployment)
	return nil
}

func (s *DeploymentStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// writeFileAtomic writes to a temp file in the same directory and renames it over path
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func unknownDeployment(name string, known []string) error {
	return domain.UnknownNameErr{
		Kind:        "deployment",
		Name:        name,
		Suggestions: suggest(name, known),
	}
}

// suggest returns up to three fuzzy matches of name among candidates
func suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	out := make([]string, 0, 3)
	for i := 0; i < len(matches) && i < 3; i++ {
		out = append(out, matches[i].Str)
	}
	return out
}

// sortedDeployments returns copies of the records ordered by name
func sortedDeployments(deployments map[string]*models.Deployment) []*models.Deployment {
	out := lo.Map(lo.Values(deployments), func(d *models.Deployment, _ int) *models.Deployment {
		return d.Clone()
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var _ usecase.DeploymentRepository = (*DeploymentStore)(nil)
