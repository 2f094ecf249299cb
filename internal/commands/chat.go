package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/netchat/internal/render"
	"github.com/diogo/netchat/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

The conversation keeps its context until it is cleared or the program exits.
Type 'exit' or 'quit', or press Esc, to end the session. Ctrl+L or /clear
starts over.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, flags)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, flags *rootFlags) error {
	a, err := bootstrap(cmd.Context(), deps, flags)
	if err != nil {
		return err
	}
	defer a.close()

	applyTheme(cmd, a.cfg.TUITheme)

	return deps.RunChat(a.ctrl, tui.Options{
		ModelName: a.model.Name,
		Markdown:  render.FromConfig(a.cfg.Markdown),
		Copy:      deps.Copy,
		Logger:    a.logger,
	})
}

// applyTheme switches the palette, warning about unknown names
func applyTheme(cmd *cobra.Command, name string) {
	if name == "" {
		return
	}
	if !render.SetPalette(name) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unknown theme %q, using %s\n", name, render.CurrentPalette().Name)
		return
	}
	tui.UpdateTheme()
}
