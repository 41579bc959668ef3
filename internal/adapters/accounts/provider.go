package accounts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// Provider resolves named accounts against the signer list of one network
type Provider struct {
	signers []*models.Account
	named   map[string]int
}

// NewProvider creates a provider over keys; named maps aliases to signer indexes
func NewProvider(keys []*ecdsa.PrivateKey, named map[string]int) *Provider {
	aliases := lo.Invert(named)

	signers := make([]*models.Account, len(keys))
	for i, key := range keys {
		signers[i] = &models.Account{
			Name:    aliases[i],
			Index:   i,
			Address: crypto.PubkeyToAddress(key.PublicKey),
			Key:     key,
		}
	}

	return &Provider{signers: signers, named: named}
}

// NamedAccount resolves an alias from [named_accounts]
func (p *Provider) NamedAccount(ctx context.Context, name string) (*models.Account, error) {
	index, ok := p.named[name]
	if !ok {
		names := lo.Keys(p.named)
		sort.Strings(names)
		return nil, domain.UnknownNameErr{
			Kind: "named account",
			Name: name,
			Suggestions: lo.Map(fuzzy.Find(name, names), func(m fuzzy.Match, _ int) string {
				return m.Str
			}),
		}
	}
	if index >= len(p.signers) {
		return nil, fmt.Errorf("named account %s is signer #%d but the network has %d: %w",
			name, index, len(p.signers), domain.ErrNoAccounts)
	}

	account := *p.signers[index]
	account.Name = name
	return &account, nil
}

// Signers returns all signers in order
func (p *Provider) Signers(ctx context.Context) ([]*models.Account, error) {
	if len(p.signers) == 0 {
		return nil, domain.ErrNoAccounts
	}
	return p.signers, nil
}

// LoadKeys returns the signing keys of a network: generated keys for simulated
// networks, the configured keys otherwise, and the well-known dev node keys for
// development networks that configure none.
func LoadKeys(network *config.Network) ([]*ecdsa.PrivateKey, error) {
	if network.Simulated {
		return blockchain.SimulatedKeys(blockchain.SimulatedAccountCount)
	}

	hexKeys := network.Accounts
	if len(hexKeys) == 0 && network.Development {
		hexKeys = DevNodeKeys
	}

	keys := make([]*ecdsa.PrivateKey, 0, len(hexKeys))
	for i, hexKey := range hexKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key #%d for network %s: %w", i, network.Name, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

var _ usecase.AccountProvider = (*Provider)(nil)
