package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/diogo/netchat/internal/api"
	"github.com/diogo/netchat/internal/chat"
	"github.com/diogo/netchat/internal/models"
	"github.com/diogo/netchat/internal/tui"
)

// GeneratorFactory builds the inference backend once the credential is known
type GeneratorFactory func(ctx context.Context, apiKey string, model models.Model, logger zerolog.Logger) (api.Generator, error)

// Dependencies holds the external dependencies for the commands.
// Tests replace them to run commands without a terminal or network.
type Dependencies struct {
	NewGenerator GeneratorFactory

	// RunChat runs the interactive TUI until the user quits
	RunChat func(ctrl *chat.Controller, opts tui.Options) error

	// Copy writes text to the system clipboard
	Copy func(string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is a terminal
	IsTTY func() bool
	// StdinIsPipe reports whether stdin carries piped input
	StdinIsPipe func() bool
	// TermWidth returns the terminal width, or 0 if unknown
	TermWidth func() int
}

// NewDependencies creates a Dependencies struct with production implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewGenerator: newGeminiGenerator,
		RunChat:      tui.RunChat,
		Copy:         clipboard.WriteAll,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		IsTTY: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
		StdinIsPipe: func() bool {
			stat, err := os.Stdin.Stat()
			return err == nil && (stat.Mode()&os.ModeCharDevice) == 0
		},
		TermWidth: func() int {
			width, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				return 0
			}
			return width
		},
	}
}

func newGeminiGenerator(ctx context.Context, apiKey string, model models.Model, logger zerolog.Logger) (api.Generator, error) {
	return api.NewClient(ctx, apiKey, api.WithModel(model), api.WithLogger(logger))
}
