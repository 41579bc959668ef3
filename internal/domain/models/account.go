package models

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// Account is a signing identity on a network
type Account struct {
	Name    string // named-account alias ("deployer"), empty for unnamed signers
	Index   int    // position in the network's signer list
	Address common.Address
	Key     *ecdsa.PrivateKey
}

// Label returns the alias if set, the address otherwise
func (a *Account) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Address.Hex()
}
