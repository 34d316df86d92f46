package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Run one advice cycle without the interactive loop",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(dir)
			if err != nil {
				return err
			}

			advice := a.orch.Run(cmd.Context(), strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "FINANCIER ADVICE: %s\n", advice)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "workspace directory")

	return cmd
}
