package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme-cli/internal/cli/render"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// NewFundCmd creates the fund command
func NewFundCmd() *cobra.Command {
	params := usecase.FundContractParams{}

	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Send ETH to the deployed FundMe contract",
		Example: `  fundme fund
  fundme fund --value 0.1 --network sepolia`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.FundContract.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.Encode(cmd.OutOrStdout(), render.FormatJSON, result)
			}
			return render.NewFundRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&params.Value, "value", "", "Amount in ETH (defaults to [suite] send_value)")
	cmd.Flags().StringVar(&params.Account, "account", "", "Named account to fund from (defaults to deployer)")

	return cmd
}
