package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive advice loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(dir)
			if err != nil {
				return err
			}
			return runChat(cmd, a)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "workspace directory")

	return cmd
}

func runChat(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "AI Financier active. Enter text or the path to an audio file. Type 'exit' to quit.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break // EOF is a clean exit
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isExit(line) {
			break
		}

		advice := a.orch.Run(cmd.Context(), line)
		fmt.Fprintf(out, "\nFINANCIER ADVICE: %s\n\n", advice)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	}
	return false
}
