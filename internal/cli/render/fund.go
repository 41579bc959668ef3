package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

var labelStyle = color.New(color.Faint)

// FundRenderer renders the fund script result
type FundRenderer struct {
	out io.Writer
}

// NewFundRenderer creates a new fund renderer
func NewFundRenderer(out io.Writer) *FundRenderer {
	return &FundRenderer{out: out}
}

func (r *FundRenderer) Render(result *usecase.FundContractResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Sent %s ETH to FundMe at %s on %s",
		domain.FormatEther(result.Value), result.Contract.Hex(), result.Network)))
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Funder:     "), result.Funder.Hex())
	fmt.Fprintf(r.out, "%s %s ETH\n", labelStyle.Sprint("Total funded:"), domain.FormatEther(result.Funded))
	if result.Receipt != nil {
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Transaction:"), result.Receipt.TxHash.Hex())
	}
	return nil
}

// WithdrawRenderer renders the withdrawal script result
type WithdrawRenderer struct {
	out io.Writer
}

// NewWithdrawRenderer creates a new withdraw renderer
func NewWithdrawRenderer(out io.Writer) *WithdrawRenderer {
	return &WithdrawRenderer{out: out}
}

func (r *WithdrawRenderer) Render(result *usecase.WithdrawFundsResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Withdrew %s ETH from FundMe at %s on %s",
		domain.FormatEther(result.Withdrawn), result.Contract.Hex(), result.Network)))
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Owner:      "), result.Owner.Hex())
	fmt.Fprintf(r.out, "%s %s ETH\n", labelStyle.Sprint("Gas cost:   "), domain.FormatEther(result.GasCost))
	if result.Receipt != nil {
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Transaction:"), result.Receipt.TxHash.Hex())
	}
	return nil
}
