package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/netchat/internal/render"
)

var errNoQuestion = errors.New("no question given: pass it as an argument, with -f, or on stdin")

type askFlags struct {
	file   string
	output string
	raw    bool
}

func newAskCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	af := &askFlags{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the reply",
		Long: `Ask a single question in a fresh session and print the reply.

The question is read from the arguments, from a file (-f), or from stdin.
Replies are rendered as markdown on a terminal and printed as plain text
otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(deps, af.file, args)
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, flags, af, question)
		},
	}

	cmd.Flags().StringVarP(&af.file, "file", "f", "", "Read the question from a file")
	cmd.Flags().StringVarP(&af.output, "output", "o", "", "Save the reply to a file")
	cmd.Flags().BoolVar(&af.raw, "raw", false, "Print the reply without decoration")

	return cmd
}

// readQuestion picks the question source: file, then arguments, then stdin
func readQuestion(deps *Dependencies, file string, args []string) (string, error) {
	var question string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		question = string(data)
	case len(args) > 0:
		question = strings.Join(args, " ")
	case deps.StdinIsPipe != nil && deps.StdinIsPipe():
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		question = string(data)
	}

	if strings.TrimSpace(question) == "" {
		return "", errNoQuestion
	}
	return question, nil
}

// runAsk performs one round trip. A failed invocation is still a reply:
// its error text is printed and the command succeeds.
func runAsk(cmd *cobra.Command, deps *Dependencies, flags *rootFlags, af *askFlags, question string) error {
	a, err := bootstrap(cmd.Context(), deps, flags)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.TUITheme != "" {
		render.SetPalette(a.cfg.TUITheme)
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	decorated := !af.raw && deps.IsTTY != nil && deps.IsTTY()

	var spin *spinner
	if decorated {
		spin = newSpinner(stderr, "Thinking")
		spin.start()
	}

	reply, _ := a.ctrl.Submit(cmd.Context(), question)
	failed := a.ctrl.LastError() != nil

	if spin != nil {
		if failed {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Reply received")
		}
	}

	text := reply.Content
	palette := render.CurrentPalette()

	if !failed && !af.raw && a.cfg.CopyToClipboard && deps.Copy != nil {
		if err := deps.Copy(text); err != nil {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(palette.Warning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(palette.Accent).Render("✓ Copied to clipboard"))
		}
	}

	if af.output != "" {
		if err := os.WriteFile(af.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !af.raw {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(palette.Accent).Render(
				fmt.Sprintf("✓ Reply saved to %s", af.output)))
		}
		return nil
	}

	if !decorated {
		fmt.Fprint(stdout, text)
		if !af.raw && !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(stdout)
		}
		return nil
	}

	width := 0
	if deps.TermWidth != nil {
		width = deps.TermWidth()
	}
	fmt.Fprintln(stdout, renderReply(text, a.model.Name, width, a.cfg.Markdown, palette, failed))
	return nil
}
