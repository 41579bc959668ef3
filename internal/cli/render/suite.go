package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	passStyle    = color.New(color.FgGreen)
	failStyle    = color.New(color.FgRed)
	groupStyle   = color.New(color.Bold)
	durationGate = 75 * time.Millisecond
)

type caseView struct {
	Group      string   `json:"group" yaml:"group"`
	Name       string   `json:"name" yaml:"name"`
	Passed     bool     `json:"passed" yaml:"passed"`
	Failures   []string `json:"failures,omitempty" yaml:"failures,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS int64    `json:"durationMs" yaml:"durationMs"`
}

type suiteView struct {
	Suite    string     `json:"suite" yaml:"suite"`
	Network  string     `json:"network" yaml:"network"`
	ChainID  uint64     `json:"chainId" yaml:"chainId"`
	Contract string     `json:"contract,omitempty" yaml:"contract,omitempty"`
	Passed   int        `json:"passed" yaml:"passed"`
	Failed   int        `json:"failed" yaml:"failed"`
	Cases    []caseView `json:"cases" yaml:"cases"`
}

// SuiteRenderer prints a suite report in a mocha-like layout
type SuiteRenderer struct {
	out    io.Writer
	format Format
}

// NewSuiteRenderer creates a new suite renderer
func NewSuiteRenderer(out io.Writer, format Format) *SuiteRenderer {
	return &SuiteRenderer{
		out:    out,
		format: format,
	}
}

// Render prints every case grouped by its group, then the pass/fail summary
func (r *SuiteRenderer) Render(report *usecase.SuiteReport) error {
	if r.format != FormatTable {
		return Encode(r.out, r.format, newSuiteView(report))
	}

	title := cases.Title(language.English).String(string(report.Suite))
	fmt.Fprintf(r.out, "\n%s suite on %s (chain %d)\n", title, report.Network, report.ChainID)
	if report.Contract != "" {
		fmt.Fprintf(r.out, "FundMe at %s\n", report.Contract)
	}

	group := ""
	failures := make([]usecase.CaseResult, 0)
	for _, c := range report.Cases {
		if c.Group != group {
			group = c.Group
			fmt.Fprintf(r.out, "\n  %s\n", groupStyle.Sprint(group))
		}
		if c.Passed {
			fmt.Fprintf(r.out, "    %s %s%s\n", passStyle.Sprint("✓"), c.Name, formatDuration(c.Duration))
			continue
		}
		failures = append(failures, c)
		fmt.Fprintf(r.out, "    %s\n", failStyle.Sprintf("%d) %s", len(failures), c.Name))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  %s %s\n", passStyle.Sprintf("%d passing", report.Passed()),
		timestampStyle.Sprintf("(%s)", report.Duration.Round(time.Millisecond)))
	if len(failures) == 0 {
		return nil
	}
	fmt.Fprintf(r.out, "  %s\n", failStyle.Sprintf("%d failing", len(failures)))

	for i, c := range failures {
		fmt.Fprintf(r.out, "\n  %d) %s\n", i+1, c.FullName())
		for _, msg := range caseMessages(c) {
			fmt.Fprintf(r.out, "     %s\n", failStyle.Sprint(indent(msg, "     ")))
		}
	}
	return nil
}

func newSuiteView(report *usecase.SuiteReport) suiteView {
	return suiteView{
		Suite:    string(report.Suite),
		Network:  report.Network,
		ChainID:  report.ChainID,
		Contract: report.Contract,
		Passed:   report.Passed(),
		Failed:   report.Failed(),
		Cases: lo.Map(report.Cases, func(c usecase.CaseResult, _ int) caseView {
			view := caseView{
				Group:      c.Group,
				Name:       c.Name,
				Passed:     c.Passed,
				Failures:   c.Failures,
				DurationMS: c.Duration.Milliseconds(),
			}
			if c.Err != nil {
				view.Error = c.Err.Error()
			}
			return view
		}),
	}
}

// caseMessages returns the aborting error first, then every failed assertion
func caseMessages(c usecase.CaseResult) []string {
	messages := make([]string, 0, len(c.Failures)+1)
	if c.Err != nil {
		messages = append(messages, "Error: "+c.Err.Error())
	}
	return append(messages, c.Failures...)
}

// formatDuration shows slow cases like mocha does
func formatDuration(d time.Duration) string {
	if d < durationGate {
		return ""
	}
	return timestampStyle.Sprintf(" (%s)", d.Round(time.Millisecond))
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
