package main

import (
	"os"

	"github.com/financier-dev/financier/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
