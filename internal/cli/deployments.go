package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme-cli/internal/cli/render"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	params := usecase.ListDeploymentsParams{}
	var output string

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List the deployments recorded for the network",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			format, err := outputFormat(output, app.Config.JSON)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout(), format).Render(result)
		},
	}

	cmd.Flags().StringVar(&params.ContractName, "contract", "", "Filter by contract name")
	cmd.Flags().StringVar(&params.Tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

// outputFormat resolves --output, with --json taking precedence
func outputFormat(output string, jsonFlag bool) (render.Format, error) {
	if jsonFlag {
		return render.FormatJSON, nil
	}
	return render.ParseFormat(output)
}
