package blockchain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
)

type dataError struct {
	msg  string
	data interface{}
}

func (e *dataError) Error() string          { return e.msg }
func (e *dataError) ErrorData() interface{} { return e.data }

func TestDecodeRevert(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(fundMeABI))
	require.NoError(t, err)

	reasonData, err := hexutil.Decode("0x08c379a00000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000001b596f75206e65656420746f207370656e64206d6f726520455448210000000000")
	require.NoError(t, err)
	notOwner := crypto.Keccak256([]byte("FundMe__NotOwner()"))[:4]

	tests := []struct {
		name       string
		err        error
		wantRevert bool
		wantReason string
		wantCustom string
	}{
		{
			name:       "nil",
			err:        nil,
			wantRevert: false,
		},
		{
			name:       "unrelated error passes through",
			err:        errors.New("connection refused"),
			wantRevert: false,
		},
		{
			name:       "Error(string) payload",
			err:        &dataError{msg: "execution reverted: You need to spend more ETH!", data: hexutil.Encode(reasonData)},
			wantRevert: true,
			wantReason: "You need to spend more ETH!",
		},
		{
			name:       "custom error from ABI",
			err:        fmt.Errorf("call failed: %w", &dataError{msg: "execution reverted", data: hexutil.Encode(notOwner)}),
			wantRevert: true,
			wantCustom: "FundMe__NotOwner",
		},
		{
			name:       "message only, wrapped with %v",
			err:        errors.New("failed to estimate gas needed: execution reverted: You need to spend more ETH!"),
			wantRevert: true,
			wantReason: "You need to spend more ETH!",
		},
		{
			name:       "bare execution reverted",
			err:        errors.New("execution reverted"),
			wantRevert: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeRevert(&parsed, tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.wantRevert, domain.IsRevert(got))
			if !tt.wantRevert {
				assert.Same(t, tt.err, got)
				return
			}
			var revertErr *domain.RevertError
			require.ErrorAs(t, got, &revertErr)
			assert.Equal(t, tt.wantReason, revertErr.Reason)
			assert.Equal(t, tt.wantCustom, revertErr.CustomError)
		})
	}
}
