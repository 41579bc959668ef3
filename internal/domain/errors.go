package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrArtifactNotFound is returned when no compiled artifact matches a contract name
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrNoAccounts is returned when a network has no signing accounts configured
	ErrNoAccounts = errors.New("no accounts configured")

	// ErrNotDevelopmentNetwork is returned when a local-only operation targets a live network
	ErrNotDevelopmentNetwork = errors.New("not a development network")

	// ErrDevelopmentNetwork is returned when a staging-only operation targets a development network
	ErrDevelopmentNetwork = errors.New("development network")

	// ErrInvalidAmount is returned when an ether amount cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrCancelled is returned when the user declines a confirmation prompt
	ErrCancelled = errors.New("cancelled by user")

	// ErrNetworkMismatch is returned when the RPC endpoint reports an unexpected chain ID
	ErrNetworkMismatch = errors.New("network mismatch")
)

// RevertError is returned when a contract call or transaction is reverted by the EVM
type RevertError struct {
	// Reason is the decoded Error(string) message, if any
	Reason string
	// CustomError is the name of the matched custom error, if any
	CustomError string
	// Data holds the raw revert payload
	Data []byte
	// TxHash is set when the revert comes from a mined transaction
	TxHash string
}

func (e *RevertError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("execution reverted: %s", e.Reason)
	case e.CustomError != "":
		return fmt.Sprintf("execution reverted: custom error %s", e.CustomError)
	case e.TxHash != "":
		return fmt.Sprintf("transaction %s reverted", e.TxHash)
	default:
		return "execution reverted"
	}
}

// IsRevert reports whether err is (or wraps) a RevertError
func IsRevert(err error) bool {
	var revertErr *RevertError
	return errors.As(err, &revertErr)
}

// RevertReason returns the revert reason carried by err, or "" if err is not a revert
func RevertReason(err error) string {
	var revertErr *RevertError
	if errors.As(err, &revertErr) {
		return revertErr.Reason
	}
	return ""
}

// UnknownNameErr is returned when a lookup by name fails, carrying close matches
type UnknownNameErr struct {
	Kind        string // "network", "deployment", ...
	Name        string
	Suggestions []string
}

func (e UnknownNameErr) Error() string {
	msg := fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e UnknownNameErr) Unwrap() error {
	return ErrNotFound
}
