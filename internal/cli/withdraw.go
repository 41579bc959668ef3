package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme-cli/internal/cli/render"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// NewWithdrawCmd creates the withdraw command
func NewWithdrawCmd() *cobra.Command {
	params := usecase.WithdrawFundsParams{}

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw the contract balance to the deployer",
		Long: `Withdraw the whole FundMe balance to the deployer and wait for one confirmation.
On live networks the withdrawal is confirmed interactively when stdin is a
terminal, unless --yes or --non-interactive is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.WithdrawFunds.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.Encode(cmd.OutOrStdout(), render.FormatJSON, result)
			}
			return render.NewWithdrawRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&params.Cheaper, "cheaper", false, "Use cheaperWithdraw()")
	cmd.Flags().BoolVarP(&params.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
