package blockchain

import (
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

const fundMeABI = `[
	{"type":"constructor","inputs":[{"name":"priceFeed","type":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"fund","inputs":[],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"withdraw","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"cheaperWithdraw","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"getPriceFeed","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"getOwner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"getAddressToAmountFunded","inputs":[{"name":"funder","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getFunders","inputs":[{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"error","name":"FundMe__NotOwner","inputs":[]}
]`

const (
	// returns a single STOP opcode as runtime code; accepts any call and any value
	stopBytecode = "0x6001600c60003960016000f300"
	// runtime code reverts every call with Error("You need to spend more ETH!")
	revertingBytecode = "0x6070600c60003960706000f36064600c60003960646000fd08c379a00000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000001b596f75206e65656420746f207370656e64206d6f726520455448210000000000"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testArtifact(t *testing.T, bytecode string) *models.Artifact {
	t.Helper()
	code, err := hexutil.Decode(bytecode)
	require.NoError(t, err)
	return &models.Artifact{
		ContractName: "FundMe",
		SourceName:   "contracts/FundMe.sol",
		Format:       models.ArtifactFormatHardhat,
		ABI:          json.RawMessage(fundMeABI),
		Bytecode:     code,
	}
}

func accountsFromKeys(keys []*ecdsa.PrivateKey) []*models.Account {
	accounts := make([]*models.Account, 0, len(keys))
	for i, key := range keys {
		accounts = append(accounts, &models.Account{
			Index:   i,
			Address: crypto.PubkeyToAddress(key.PublicKey),
			Key:     key,
		})
	}
	return accounts
}

// newSimulatedChain starts a simulated chain with three funded signers
func newSimulatedChain(t *testing.T) (*Chain, []*models.Account) {
	t.Helper()
	keys, err := SimulatedKeys(3)
	require.NoError(t, err)

	backend := NewSimulatedBackend(keys)
	chain := NewChain(backend, big.NewInt(SimulatedChainID), testLogger())
	t.Cleanup(chain.Close)
	return chain, accountsFromKeys(keys)
}
