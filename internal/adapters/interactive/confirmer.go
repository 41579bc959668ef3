package interactive

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
	"github.com/trebuchet-org/fundme-cli/internal/usecase"
)

// Prompter runs a yes/no prompt
type Prompter func(label string) (bool, error)

// ConfirmerAdapter asks for confirmation on the terminal
type ConfirmerAdapter struct {
	config   *config.RuntimeConfig
	terminal func() bool
	prompt   Prompter
}

// NewConfirmerAdapter creates a confirmer reading answers from os.Stdin
func NewConfirmerAdapter(cfg *config.RuntimeConfig) *ConfirmerAdapter {
	return NewConfirmerAdapterWithInput(cfg, os.Stdin)
}

// NewConfirmerAdapterWithInput creates a confirmer reading answers from stdin
func NewConfirmerAdapterWithInput(cfg *config.RuntimeConfig, stdin *os.File) *ConfirmerAdapter {
	return &ConfirmerAdapter{
		config:   cfg,
		terminal: func() bool { return isTerminal(stdin) },
		prompt:   promptConfirm,
	}
}

// Confirm approves without asking when prompts are disabled or nobody is at
// the keyboard, so scripted runs behave like --yes.
func (c *ConfirmerAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if !c.Interactive() {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return c.prompt(prompt)
}

// Interactive reports whether prompts are shown
func (c *ConfirmerAdapter) Interactive() bool {
	return !c.config.NonInteractive && c.terminal()
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func promptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt):
		return false, nil
	default:
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
}

var _ usecase.Confirmer = (*ConfirmerAdapter)(nil)
