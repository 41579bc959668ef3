package models

import (
	"encoding/json"
)

// ArtifactFormat identifies the toolchain that produced an artifact
type ArtifactFormat string

const (
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
	ArtifactFormatFoundry ArtifactFormat = "foundry"
)

// Artifact is a compiled contract: its interface and creation code
type Artifact struct {
	ContractName string
	SourceName   string // e.g. "contracts/FundMe.sol"
	Path         string // file the artifact was read from
	Format       ArtifactFormat
	ABI          json.RawMessage
	Bytecode     []byte
}

// HasBytecode reports whether the artifact can be deployed (interfaces and
// abstract contracts compile to empty creation code)
func (a *Artifact) HasBytecode() bool {
	return len(a.Bytecode) > 0
}
