package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/domain/models"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

var (
	nameStyle      = color.New(color.FgGreen, color.Bold)
	addressStyle   = color.New(color.FgWhite)
	tagsStyle      = color.New(color.FgCyan)
	timestampStyle = color.New(color.Faint)
	headerStyle    = color.New(color.BgCyan, color.FgBlack, color.Bold)
)

// deploymentView is the serialized form of a registry record
type deploymentView struct {
	Name            string    `json:"name" yaml:"name"`
	Contract        string    `json:"contract" yaml:"contract"`
	Address         string    `json:"address" yaml:"address"`
	Network         string    `json:"network" yaml:"network"`
	ChainID         uint64    `json:"chainId" yaml:"chainId"`
	Deployer        string    `json:"deployer" yaml:"deployer"`
	TransactionHash string    `json:"transactionHash" yaml:"transactionHash"`
	BlockNumber     uint64    `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	Args            []string  `json:"args,omitempty" yaml:"args,omitempty"`
	Tags            []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt       time.Time `json:"createdAt" yaml:"createdAt"`
}

func newDeploymentView(d *models.Deployment) deploymentView {
	view := deploymentView{
		Name:            d.Name,
		Contract:        d.ContractName,
		Address:         d.Address,
		Network:         d.Network,
		ChainID:         d.ChainID,
		Deployer:        d.Deployer,
		TransactionHash: d.TransactionHash,
		Args:            d.Args,
		Tags:            d.Tags,
		CreatedAt:       d.CreatedAt,
	}
	if d.Receipt != nil {
		view.BlockNumber = d.Receipt.BlockNumber
	}
	return view
}

// DeploymentsRenderer renders registry listings
type DeploymentsRenderer struct {
	out    io.Writer
	format Format
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, format Format) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out:    out,
		format: format,
	}
}

// Render renders the deployments of one network
func (r *DeploymentsRenderer) Render(result *usecase.ListDeploymentsResult) error {
	if r.format != FormatTable {
		return Encode(r.out, r.format, lo.Map(result.Deployments, func(d *models.Deployment, _ int) deploymentView {
			return newDeploymentView(d)
		}))
	}

	if len(result.Deployments) == 0 {
		fmt.Fprintf(r.out, "No deployments found on %s\n", result.Network)
		return nil
	}

	fmt.Fprintln(r.out, headerStyle.Sprintf(" %s (chain %d) ", result.Network, result.ChainID))
	fmt.Fprintln(r.out, deploymentsTable(result.Deployments))
	return nil
}

func deploymentsTable(deployments []*models.Deployment) string {
	t := newTable()
	t.AppendHeader(table.Row{"Name", "Contract", "Address", "Tags", "Deployed"})
	for _, d := range deployments {
		tags := ""
		if len(d.Tags) > 0 {
			tags = tagsStyle.Sprint(strings.Join(d.Tags, ", "))
		}
		deployed := ""
		if !d.CreatedAt.IsZero() {
			deployed = timestampStyle.Sprint(d.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		t.AppendRow(table.Row{
			nameStyle.Sprint(d.Name),
			d.ContractName,
			addressStyle.Sprint(d.Address),
			tags,
			deployed,
		})
	}
	return t.Render()
}

// DeployRenderer renders the outcome of the deploy command
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render lists the records the steps wrote
func (r *DeployRenderer) Render(result *usecase.DeployContractsResult) error {
	if len(result.StepsRun) == 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("No deployment step matched on %s", result.Network)))
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Ran %s on %s (chain %d)",
		strings.Join(result.StepsRun, ", "), result.Network, result.ChainID)))
	if len(result.Deployments) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, deploymentsTable(result.Deployments))
	}
	return nil
}
