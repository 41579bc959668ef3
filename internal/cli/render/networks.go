package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

type networkView struct {
	Name        string `json:"name" yaml:"name"`
	ChainID     uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	RPCURL      string `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
	Development bool   `json:"development" yaml:"development"`
	Simulated   bool   `json:"simulated" yaml:"simulated"`
	Current     bool   `json:"current" yaml:"current"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out    io.Writer
	format Format
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, format Format) *NetworksRenderer {
	return &NetworksRenderer{
		out:    out,
		format: format,
	}
}

// Render renders the configured networks, marking the selected one
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if r.format != FormatTable {
		return Encode(r.out, r.format, lo.Map(result.Networks, func(n usecase.NetworkStatus, _ int) networkView {
			view := networkView{
				Name:        n.Name,
				ChainID:     n.ChainID,
				RPCURL:      n.RPCURL,
				Development: n.Development,
				Simulated:   n.Simulated,
				Current:     n.Name == result.Current,
			}
			if n.Error != nil {
				view.Error = n.Error.Error()
			}
			return view
		}))
	}

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in fundme.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable()
	t.AppendHeader(table.Row{"", "Name", "Chain ID", "Class", "RPC"})
	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Current {
			marker = color.New(color.FgGreen).Sprint("*")
		}
		if network.Error != nil {
			t.AppendRow(table.Row{marker, network.Name, "-", "-", color.New(color.FgRed).Sprintf("error: %v", network.Error)})
			continue
		}
		rpc := network.RPCURL
		if network.Simulated {
			rpc = color.New(color.Faint).Sprint("in-process")
		}
		t.AppendRow(table.Row{marker, network.Name, network.ChainID, networkClass(network), rpc})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func networkClass(n usecase.NetworkStatus) string {
	if n.Development {
		return color.New(color.FgYellow).Sprint("development")
	}
	return color.New(color.FgCyan).Sprint("live")
}
