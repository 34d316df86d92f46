package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/financier-dev/financier/internal/model"
)

// FileName is the ledger file inside the data directory.
const FileName = "transactions.csv"

// Service provides append and windowed-read access to the ledger. All other
// access paths are deliberately absent: the ledger is append-only and is
// never parsed as anything but CSV.
type Service struct {
	path string
}

// NewService creates a ledger Service rooted at the given data directory.
func NewService(dataDir string) *Service {
	return &Service{path: filepath.Join(dataDir, FileName)}
}

// Append adds one entry, creating the file and header row on first use.
func (s *Service) Append(e model.Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendEntries(f, []model.Entry{e}); err != nil {
		return fmt.Errorf("appending entry: %w", err)
	}
	return nil
}

// ReadAll returns every entry in insertion order. A missing or unreadable
// ledger degrades to an empty slice, never an error: the pipeline favors
// availability over strict correctness.
func (s *Service) ReadAll() []model.Entry {
	f, err := os.Open(s.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil
	}
	return entries
}

// ReadRecent returns the last n entries in insertion order.
func (s *Service) ReadRecent(n int) []model.Entry {
	entries := s.ReadAll()
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
