package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme-cli/internal/cli/render"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// NewTestCmd creates the test command with the local and staging suites
func NewTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Verify the FundMe contract",
		Long: `Verify the FundMe contract on the selected network.

  local    redeploys before every case; development networks only
  staging  uses the existing deployment; live networks only`,
	}

	cmd.AddCommand(newTestSuiteCmd(usecase.SuiteLocal,
		"Run the unit suite against fresh deployments on a development network"))
	cmd.AddCommand(newTestSuiteCmd(usecase.SuiteStaging,
		"Fund and withdraw against the deployed contract on a live network"))

	return cmd
}

func newTestSuiteCmd(kind usecase.SuiteKind, short string) *cobra.Command {
	params := usecase.RunSuiteParams{}

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var report *usecase.SuiteReport
			switch kind {
			case usecase.SuiteLocal:
				report, err = app.RunLocalSuite.Run(cmd.Context(), params)
			case usecase.SuiteStaging:
				report, err = app.RunStagingSuite.Run(cmd.Context(), params)
			}
			if err != nil {
				return err
			}

			format := render.FormatTable
			if app.Config.JSON {
				format = render.FormatJSON
			}
			if err := render.NewSuiteRenderer(cmd.OutOrStdout(), format).Render(report); err != nil {
				return err
			}

			if !report.OK() {
				return fmt.Errorf("%d of %d cases failed", report.Failed(), len(report.Cases))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&params.Filter, "grep", "g", "", "Only run cases whose name contains this text")
	cmd.Flags().BoolVar(&params.FailFast, "bail", false, "Stop after the first failing case")

	return cmd
}
