package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme-cli/internal/cli/render"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the deployment steps",
		Long: `Run the deployment steps in order: the MockV3Aggregator price feed (development
networks only) and FundMe. Each deployment is recorded in the registry under its name.`,
		Example: `  fundme deploy
  fundme deploy --tags mocks
  fundme deploy --network sepolia`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployContracts.Run(cmd.Context(), usecase.DeployContractsParams{Tags: tags})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.Encode(cmd.OutOrStdout(), render.FormatJSON, result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Only run steps with these tags (all, mocks, fundme)")

	return cmd
}
