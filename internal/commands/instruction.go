package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/netchat/internal/prompt"
)

func newInstructionCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "instruction",
		Short: "Print the instruction sent with every request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt.New(cfg.Topic).Text())
			return nil
		},
	}
}
