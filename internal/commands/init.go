package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/financier-dev/financier/internal/auditlog"
	"github.com/financier-dev/financier/internal/config"
	"github.com/financier-dev/financier/internal/ledger"
	"github.com/financier-dev/financier/internal/model"
	"github.com/financier-dev/financier/internal/profile"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a financier workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "user name for the profile")

	return cmd
}

// runInit writes the config, data directory, default profile, empty market
// context, and the ledger header. Everything it creates is also created
// lazily on first use; init just makes the workspace visible up front.
func runInit(dir, name string) error {
	dataDir := filepath.Join(dir, config.Default().DataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// Write financier.yaml.
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
		if err := config.Save(cfgPath, config.Default()); err != nil {
			return err
		}
	}

	// Write the default profile.
	p := model.DefaultProfile()
	if name != "" {
		p.Name = name
	}
	if err := profile.NewStore(dataDir).Save(p); err != nil {
		return err
	}

	// Write the ledger header.
	ledgerPath := filepath.Join(dataDir, ledger.FileName)
	if _, err := os.Stat(ledgerPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(ledgerPath, []byte(ledger.Header+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing ledger header: %w", err)
		}
	}

	// Leave an empty market context for the external collaborator to fill.
	marketPath := filepath.Join(dataDir, auditlog.MarketFile)
	if _, err := os.Stat(marketPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(marketPath, []byte{}, 0o644); err != nil {
			return fmt.Errorf("writing market context: %w", err)
		}
	}

	fmt.Printf("Initialized financier workspace at %s\n", dir)
	return nil
}
