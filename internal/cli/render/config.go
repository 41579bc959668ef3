package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// ConfigRenderer renders the local configuration
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// RenderShow prints every key with its stored value
func (r *ConfigRenderer) RenderShow(result *usecase.ConfigResult) error {
	if !result.Exists {
		fmt.Fprintln(r.out, "No local config file found, project defaults apply")
		fmt.Fprintf(r.out, "Set one with: fundme config set <key> <value>\n")
		return nil
	}

	fmt.Fprintln(r.out, "📋 Local config:")
	fmt.Fprintln(r.out)

	t := newTable()
	for _, key := range domain.ValidConfigKeys() {
		value := result.Config.Get(key)
		if value == "" {
			value = color.New(color.Faint).Sprint("(project default)")
		}
		t.AppendRow(table.Row{key, value})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "📁 %s\n", result.ConfigPath)
	return nil
}

// RenderSet confirms a stored value
func (r *ConfigRenderer) RenderSet(result *usecase.ConfigResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Set %s to: %s", result.Key, result.Value)))
	fmt.Fprintf(r.out, "📁 Config saved to: %s\n", result.ConfigPath)
	return nil
}

// RenderRemove confirms a cleared value
func (r *ConfigRenderer) RenderRemove(result *usecase.ConfigResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %s from config", result.Key)))
	fmt.Fprintf(r.out, "📁 Config saved to: %s\n", result.ConfigPath)
	return nil
}
