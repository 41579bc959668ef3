package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// AnvilRenderer renders the local node lifecycle
type AnvilRenderer struct {
	out io.Writer
}

// NewAnvilRenderer creates a new anvil renderer
func NewAnvilRenderer(out io.Writer) *AnvilRenderer {
	return &AnvilRenderer{out: out}
}

// Render prints the outcome of start, stop, restart and status
func (r *AnvilRenderer) Render(result *usecase.ManageAnvilResult) error {
	switch result.Operation {
	case usecase.AnvilStart, usecase.AnvilRestart:
		fmt.Fprintln(r.out, FormatSuccess(result.Message))
		r.renderEndpoint(result)
		fmt.Fprintf(r.out, "Use it with: fundme <command> --network %s\n", result.Network)
	case usecase.AnvilStop:
		fmt.Fprintln(r.out, FormatSuccess(result.Message))
	case usecase.AnvilStatus:
		r.renderStatus(result)
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
	return nil
}

func (r *AnvilRenderer) renderEndpoint(result *usecase.ManageAnvilResult) {
	faint := color.New(color.FgHiBlack)
	faint.Fprintf(r.out, "  RPC URL:  %s\n", result.Status.RPCURL)
	faint.Fprintf(r.out, "  Chain ID: %d\n", result.Status.ChainID)
	faint.Fprintf(r.out, "  Logs:     %s\n", result.Status.LogFile)
}

func (r *AnvilRenderer) renderStatus(result *usecase.ManageAnvilResult) {
	status := result.Status
	color.New(color.Bold).Fprintf(r.out, "anvil for %s (chain %d)\n", result.Network, result.ChainID)

	if !status.Running {
		fmt.Fprintf(r.out, "  Status:   %s\n", color.RedString("not running"))
		color.New(color.FgHiBlack).Fprintf(r.out, "  PID file: %s\n", result.Node.PidFile)
		return
	}

	fmt.Fprintf(r.out, "  Status:   %s (PID %d)\n", color.GreenString("running"), status.PID)
	switch {
	case status.Error != "":
		fmt.Fprintf(r.out, "  RPC:      %s\n", color.YellowString(status.Error))
	case status.RPCHealthy:
		fmt.Fprintf(r.out, "  RPC:      %s\n", color.GreenString("responding"))
	default:
		fmt.Fprintf(r.out, "  RPC:      %s\n", color.RedString("not responding"))
	}
	r.renderEndpoint(result)
}

// RenderLogsHeader precedes the streamed log output
func (r *AnvilRenderer) RenderLogsHeader(result *usecase.ManageAnvilResult) error {
	color.New(color.Bold).Fprintf(r.out, "anvil for %s logs (Ctrl+C to exit)\n", result.Network)
	color.New(color.FgHiBlack).Fprintf(r.out, "%s\n\n", result.Node.LogFile)
	return nil
}
