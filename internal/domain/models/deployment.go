package models

import (
	"encoding/json"
	"slices"
	"time"
)

// Deployment represents a named contract deployment record.
// The JSON layout follows hardhat-deploy's deployments/<network>/<Name>.json.
type Deployment struct {
	// Core identification
	Name         string `json:"-"`            // logical name, e.g. "FundMe"; the file name on disk
	ContractName string `json:"contractName"` // artifact the code came from
	Network      string `json:"network"`
	ChainID      uint64 `json:"chainId"`
	Address      string `json:"address"`

	// Interface and construction
	ABI             json.RawMessage `json:"abi"`
	Args            []string        `json:"args"` // constructor args, rendered as strings
	ConstructorData string          `json:"constructorData,omitempty"`
	BytecodeHash    string          `json:"bytecodeHash,omitempty"`

	// Transaction
	Deployer        string             `json:"deployer"`
	TransactionHash string             `json:"transactionHash"`
	Receipt         *DeploymentReceipt `json:"receipt,omitempty"`

	// Metadata
	Tags           []string  `json:"tags,omitempty"`
	NumDeployments int       `json:"numDeployments"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// DeploymentReceipt is the subset of the deployment receipt kept in the registry
type DeploymentReceipt struct {
	BlockNumber       uint64 `json:"blockNumber"`
	GasUsed           uint64 `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice,omitempty"`
	Status            uint64 `json:"status"`
}

// Clone returns a deep copy, so registries never share records with callers
func (d *Deployment) Clone() *Deployment {
	if d == nil {
		return nil
	}
	c := *d
	c.ABI = slices.Clone(d.ABI)
	c.Args = slices.Clone(d.Args)
	c.Tags = slices.Clone(d.Tags)
	if d.Receipt != nil {
		receipt := *d.Receipt
		c.Receipt = &receipt
	}
	return &c
}
