package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme-cli/internal/cli/render"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// NewDevCmd creates the dev command with subcommands
func NewDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
	}
	cmd.AddCommand(newDevAnvilCmd())
	return cmd
}

func newDevAnvilCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anvil",
		Short: "Run the anvil node behind the localhost network",
		Long: `Run a local anvil node for the localhost development network.

The port comes from rpc_url and the chain ID from chain_id in
[networks.localhost] of fundme.toml (http://127.0.0.1:8545 and 31337 by
default). --port and --chain-id only confirm those values; a mismatch is an
error, so the node always answers where --network localhost looks for it.`,
		Example: `  fundme dev anvil start
  fundme deploy --network localhost
  fundme test local --network localhost
  fundme dev anvil stop`,
	}

	for _, op := range []struct {
		operation usecase.AnvilOperation
		short     string
	}{
		{usecase.AnvilStart, "Start the node; fails if it is already running"},
		{usecase.AnvilStop, "Stop the node if it is running"},
		{usecase.AnvilRestart, "Stop and start the node, dropping its chain state"},
		{usecase.AnvilStatus, "Show whether the node runs and answers with the expected chain ID"},
		{usecase.AnvilLogs, "Follow the node's log file"},
	} {
		cmd.AddCommand(newDevAnvilOpCmd(op.operation, op.short))
	}
	return cmd
}

func newDevAnvilOpCmd(operation usecase.AnvilOperation, short string) *cobra.Command {
	params := usecase.ManageAnvilParams{Operation: operation}

	cmd := &cobra.Command{
		Use:   string(operation),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ManageAnvil.Execute(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderer := render.NewAnvilRenderer(out)
			if operation == usecase.AnvilLogs {
				if err := renderer.RenderLogsHeader(result); err != nil {
					return err
				}
				return app.ManageAnvil.StreamLogs(cmd.Context(), result.Node, out)
			}

			if app.Config.JSON {
				return render.Encode(out, render.FormatJSON, result)
			}
			return renderer.Render(result)
		},
	}

	if operation == usecase.AnvilStart || operation == usecase.AnvilRestart {
		cmd.Flags().StringVar(&params.Port, "port", "", "Expected RPC port (must match the localhost rpc_url)")
		cmd.Flags().StringVar(&params.ChainID, "chain-id", "", "Expected chain ID (must match the localhost chain_id)")
	}
	return cmd
}
