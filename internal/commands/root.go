// Package commands provides CLI commands for netchat.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/netchat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootFlags are the persistent flags shared by every subcommand
type rootFlags struct {
	model   string
	topic   string
	theme   string
	version bool
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "netchat",
		Short: "Topic-restricted expert chat backed by Gemini",
		Long: `netchat is a terminal chat with a Gemini model that is instructed to
answer questions about a single topic (network and server troubleshooting
by default). The conversation lives only for the duration of the session.

The GEMINI_API_KEY environment variable must be set. A .env file in the
working directory is loaded first.

Examples:
  netchat                               Start interactive chat
  netchat ask "Why is port 443 closed?" Ask a single question
  cat error.log | netchat ask           Read the question from stdin
  netchat config set topic "DNS"        Change the chat topic
  netchat instruction                   Print the active instruction`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.version {
				fmt.Fprintf(cmd.OutOrStdout(), "netchat %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(cmd, deps, flags)
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&flags.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	cmd.PersistentFlags().StringVar(&flags.topic, "topic", "", "Override the chat topic")
	cmd.PersistentFlags().StringVar(&flags.theme, "theme", "", "TUI color theme (tokyonight, catppuccin, nord, dracula)")
	cmd.Flags().BoolVarP(&flags.version, "version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(deps, flags))
	cmd.AddCommand(newAskCmd(deps, flags))
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(newInstructionCmd(flags))

	return cmd
}

var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		os.Exit(1)
	}
}
