package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
)

// SuiteKind selects one of the two verification entry points
type SuiteKind string

const (
	SuiteLocal   SuiteKind = "local"
	SuiteStaging SuiteKind = "staging"
)

// RunSuiteParams contains parameters shared by both suites
type RunSuiteParams struct {
	// Filter keeps only cases whose "group name" contains it (case-insensitive)
	Filter string
	// FailFast stops after the first failing case
	FailFast bool
}

// CaseResult is the outcome of one suite case
type CaseResult struct {
	Group    string
	Name     string
	Passed   bool
	Failures []string
	Err      error
	Duration time.Duration
}

// FullName returns "group name"
func (c CaseResult) FullName() string {
	if c.Group == "" {
		return c.Name
	}
	return c.Group + " " + c.Name
}

// SuiteReport collects every case of one suite run
type SuiteReport struct {
	Suite    SuiteKind
	Network  string
	ChainID  uint64
	Contract string
	Cases    []CaseResult
	Duration time.Duration
}

// Passed returns the number of passing cases
func (r *SuiteReport) Passed() int {
	return lo.CountBy(r.Cases, func(c CaseResult) bool { return c.Passed })
}

// Failed returns the number of failing cases
func (r *SuiteReport) Failed() int {
	return len(r.Cases) - r.Passed()
}

// OK reports whether every case passed
func (r *SuiteReport) OK() bool {
	return r.Failed() == 0
}

// suiteT records assertion failures so testify's assert package can be used
// outside of go test.
type suiteT struct {
	failures []string
}

func (t *suiteT) Errorf(format string, args ...interface{}) {
	t.failures = append(t.failures, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (t *suiteT) failed() bool {
	return len(t.failures) > 0
}

// suiteCase is one named check; a returned error aborts the case
type suiteCase struct {
	group string
	name  string
	run   func(ctx context.Context, t *suiteT) error
}

func (c suiteCase) fullName() string {
	return strings.TrimSpace(c.group + " " + c.name)
}

// runCases executes cases in order, honoring the filter and fail-fast settings
func runCases(ctx context.Context, progress ProgressSink, params RunSuiteParams, cases []suiteCase) []CaseResult {
	filter := strings.ToLower(params.Filter)
	selected := lo.Filter(cases, func(c suiteCase, _ int) bool {
		return filter == "" || strings.Contains(strings.ToLower(c.fullName()), filter)
	})

	results := make([]CaseResult, 0, len(selected))
	for i, c := range selected {
		if err := ctx.Err(); err != nil {
			break
		}
		progress.OnProgress(ctx, ProgressEvent{
			Stage:   "suite",
			Current: i + 1,
			Total:   len(selected),
			Message: c.fullName(),
			Spinner: true,
		})

		t := &suiteT{}
		start := time.Now()
		err := c.run(ctx, t)
		result := CaseResult{
			Group:    c.group,
			Name:     c.name,
			Failures: t.failures,
			Err:      err,
			Passed:   err == nil && !t.failed(),
			Duration: time.Since(start),
		}
		results = append(results, result)

		if !result.Passed && params.FailFast {
			break
		}
	}
	return results
}

// fundAndWait sends fund(value) from the handle's signer and waits one confirmation
func fundAndWait(ctx context.Context, env *Environment, fundMe FundMe, value *big.Int, confirmations uint64) (*types.Receipt, error) {
	tx, err := fundMe.Fund(ctx, value)
	if err != nil {
		return nil, err
	}
	return env.Chain.WaitForConfirmations(ctx, tx, confirmations)
}

// withdrawAndWait calls withdraw or cheaperWithdraw and returns the receipt and its gas cost
func withdrawAndWait(ctx context.Context, env *Environment, fundMe FundMe, cheaper bool, confirmations uint64) (*types.Receipt, *big.Int, error) {
	var (
		tx  *types.Transaction
		err error
	)
	if cheaper {
		tx, err = fundMe.CheaperWithdraw(ctx)
	} else {
		tx, err = fundMe.Withdraw(ctx)
	}
	if err != nil {
		return nil, nil, err
	}
	receipt, err := env.Chain.WaitForConfirmations(ctx, tx, confirmations)
	if err != nil {
		return receipt, nil, err
	}
	return receipt, GasCost(receipt, tx), nil
}

// balances reads the current balance of every address, in order
func balances(ctx context.Context, env *Environment, accounts ...*models.Account) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(accounts))
	for _, account := range accounts {
		balance, err := env.Chain.BalanceAt(ctx, account.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to read balance of %s: %w", account.Label(), err)
		}
		out = append(out, balance)
	}
	return out, nil
}
