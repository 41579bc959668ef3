package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

// Logical names of the contracts this tool deploys
const (
	MockV3AggregatorName = "MockV3Aggregator"
	FundMeName           = "FundMe"
)

// Deployment tags
const (
	TagAll    = "all"
	TagMocks  = "mocks"
	TagFundMe = "fundme"
)

// DeployStep is one tagged deployment script. Steps run in registration order.
type DeployStep interface {
	Name() string
	Tags() []string
	Run(ctx context.Context, env *Environment) error
}

// deployOptions mirrors the options of a named deploy: which artifact, from whom, with what args
type deployOptions struct {
	Name     string
	Contract string
	From     *models.Account
	Args     []any
	Tags     []string
}

// deployNamed deploys an artifact and records it in the registry under opts.Name
func deployNamed(ctx context.Context, env *Environment, progress ProgressSink, opts deployOptions) (*models.Deployment, error) {
	if opts.Contract == "" {
		opts.Contract = opts.Name
	}

	artifact, err := env.Artifacts.GetArtifact(ctx, opts.Contract)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact for %s: %w", opts.Name, err)
	}
	if !artifact.HasBytecode() {
		return nil, fmt.Errorf("artifact %s has no creation bytecode (abstract contract or interface?)", opts.Contract)
	}

	result, err := env.Chain.Deploy(ctx, opts.From, artifact, opts.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", opts.Name, err)
	}

	now := time.Now().UTC()
	deployment := &models.Deployment{
		Name:            opts.Name,
		ContractName:    artifact.ContractName,
		Network:         env.Network.Name,
		ChainID:         env.Chain.ChainID(),
		Address:         result.Address.Hex(),
		ABI:             artifact.ABI,
		Args:            lo.Map(opts.Args, func(arg any, _ int) string { return fmt.Sprint(arg) }),
		ConstructorData: hexutil.Encode(result.ConstructorData),
		BytecodeHash:    crypto.Keccak256Hash(artifact.Bytecode).Hex(),
		Deployer:        opts.From.Address.Hex(),
		TransactionHash: result.Transaction.Hash().Hex(),
		Tags:            opts.Tags,
		NumDeployments:  1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if result.Receipt != nil {
		deployment.Receipt = &models.DeploymentReceipt{
			BlockNumber: result.Receipt.BlockNumber.Uint64(),
			GasUsed:     result.Receipt.GasUsed,
			Status:      result.Receipt.Status,
		}
		if result.Receipt.EffectiveGasPrice != nil {
			deployment.Receipt.EffectiveGasPrice = result.Receipt.EffectiveGasPrice.String()
		}
	}

	if previous, err := env.Deployments.Get(ctx, opts.Name); err == nil {
		deployment.NumDeployments = previous.NumDeployments + 1
		deployment.CreatedAt = previous.CreatedAt
	}

	if err := env.Deployments.Save(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to record deployment of %s: %w", opts.Name, err)
	}

	gasUsed := uint64(0)
	if deployment.Receipt != nil {
		gasUsed = deployment.Receipt.GasUsed
	}
	progress.Info(fmt.Sprintf("deploying %q (tx: %s)...: deployed at %s with %d gas",
		opts.Name, deployment.TransactionHash, deployment.Address, gasUsed))

	return deployment, nil
}

// stepMatches reports whether a step carries any of the requested tags
func stepMatches(step DeployStep, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	return lo.Some(step.Tags(), tags)
}
