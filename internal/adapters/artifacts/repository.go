package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// hardhatArtifact is the hh-sol-artifact-1 layout
type hardhatArtifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

// foundryBytecode is forge's {"object": "0x..."} form
type foundryBytecode struct {
	Object string `json:"object"`
}

// Repository finds compiled contracts under the configured artifact directories.
// The directory walk happens once, on first use.
type Repository struct {
	root  string
	dirs  []string
	once  sync.Once
	index map[string][]string // contract name -> artifact files, in directory order
	err   error
}

// NewRepository creates a repository over cfg.Project.Paths.Artifacts
func NewRepository(cfg *config.RuntimeConfig) *Repository {
	dirs := []string{"artifacts", "out"}
	if cfg.Project != nil && len(cfg.Project.Paths.Artifacts) > 0 {
		dirs = cfg.Project.Paths.Artifacts
	}
	return NewRepositoryWithDirs(cfg.ProjectRoot, dirs...)
}

// NewRepositoryWithDirs creates a repository over explicit directories; relative ones resolve against root
func NewRepositoryWithDirs(root string, dirs ...string) *Repository {
	return &Repository{root: root, dirs: dirs}
}

func (r *Repository) GetArtifact(ctx context.Context, contractName string) (*models.Artifact, error) {
	r.once.Do(func() { r.err = r.buildIndex() })
	if r.err != nil {
		return nil, r.err
	}

	paths := r.index[contractName]
	if len(paths) == 0 {
		return nil, r.notFound(contractName)
	}
	return loadArtifact(contractName, paths[0])
}

func (r *Repository) buildIndex() error {
	r.index = make(map[string][]string)
	for _, dir := range r.dirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.root, dir)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			name := d.Name()
			if filepath.Ext(name) != ".json" || strings.HasSuffix(name, ".dbg.json") {
				return nil
			}
			contract := strings.TrimSuffix(name, ".json")
			r.index[contract] = append(r.index[contract], path)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to index artifacts in %s: %w", dir, err)
		}
	}
	return nil
}

func (r *Repository) notFound(contractName string) error {
	msg := fmt.Sprintf("%s (searched %s)", contractName, strings.Join(r.dirs, ", "))
	matches := fuzzy.Find(contractName, lo.Keys(r.index))
	if len(matches) > 0 {
		msg += fmt.Sprintf(", did you mean %s?", matches[0].Str)
	} else if len(r.index) == 0 {
		msg += ", compile the contracts first"
	}
	return fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, msg)
}

func loadArtifact(contractName, path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var raw hardhatArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid artifact %s: %w", path, err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", path)
	}

	artifact := &models.Artifact{
		ContractName: contractName,
		SourceName:   raw.SourceName,
		Path:         path,
		ABI:          raw.ABI,
	}

	var code string
	switch {
	case len(raw.Bytecode) == 0:
	case raw.Bytecode[0] == '"':
		artifact.Format = models.ArtifactFormatHardhat
		if err := json.Unmarshal(raw.Bytecode, &code); err != nil {
			return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
		}
	default:
		artifact.Format = models.ArtifactFormatFoundry
		var object foundryBytecode
		if err := json.Unmarshal(raw.Bytecode, &object); err != nil {
			return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
		}
		code = object.Object
		// forge nests artifacts as out/<Source>.sol/<Contract>.json
		artifact.SourceName = filepath.Base(filepath.Dir(path))
	}
	if raw.ContractName != "" {
		artifact.ContractName = raw.ContractName
	}

	if code != "" && code != "0x" {
		if strings.Contains(code, "__") {
			return nil, fmt.Errorf("artifact %s has unlinked library references", path)
		}
		if !strings.HasPrefix(code, "0x") {
			code = "0x" + code
		}
		artifact.Bytecode, err = hexutil.Decode(code)
		if err != nil {
			return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
		}
	}
	return artifact, nil
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
