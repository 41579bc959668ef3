package blockchain

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
)

const executionReverted = "execution reverted"

// decodeRevert turns node errors that carry a revert into *domain.RevertError.
// Other errors are returned unchanged. contractABI may be nil.
func decodeRevert(contractABI *abi.ABI, err error) error {
	if err == nil || domain.IsRevert(err) {
		return err
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data := revertData(dataErr.ErrorData()); len(data) > 0 {
			return newRevertError(contractABI, data)
		}
	}

	// bind wraps gas estimation failures with %v, so only the message survives
	msg := err.Error()
	idx := strings.Index(msg, executionReverted)
	if idx < 0 {
		return err
	}
	reason := strings.TrimSpace(strings.TrimPrefix(msg[idx+len(executionReverted):], ":"))
	return &domain.RevertError{Reason: reason}
}

// newRevertError decodes Error(string), Panic(uint256) or a custom error from the ABI
func newRevertError(contractABI *abi.ABI, data []byte) *domain.RevertError {
	revertErr := &domain.RevertError{Data: data}
	if reason, err := abi.UnpackRevert(data); err == nil {
		revertErr.Reason = reason
		return revertErr
	}
	if contractABI != nil && len(data) >= 4 {
		for name, customErr := range contractABI.Errors {
			if bytes.Equal(customErr.ID[:4], data[:4]) {
				revertErr.CustomError = name
				break
			}
		}
	}
	return revertErr
}

func revertData(v interface{}) []byte {
	switch data := v.(type) {
	case string:
		decoded, err := hexutil.Decode(data)
		if err != nil {
			return nil
		}
		return decoded
	case []byte:
		return data
	default:
		return nil
	}
}
