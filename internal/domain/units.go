package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

var weiPerEther = new(big.Rat).SetInt(big.NewInt(params.Ether))

// ParseEther converts a decimal ether amount ("1", "0.05") to wei.
// Amounts with more than 18 fractional digits are rejected.
func ParseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	amount = strings.TrimSuffix(strings.TrimSuffix(amount, "ether"), "eth")
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}

	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	wei := r.Mul(r, weiPerEther)
	if !wei.IsInt() {
		return nil, fmt.Errorf("%w: %s has more than 18 decimals", ErrInvalidAmount, amount)
	}
	return new(big.Int).Set(wei.Num()), nil
}

// FormatEther renders a wei amount in ether, trimming trailing zeros
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	s := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether)).FloatString(18)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
