// Package profile persists the user bio as profile.json.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/financier-dev/financier/internal/model"
)

// FileName is the profile file inside the data directory.
const FileName = "profile.json"

// Store reads and writes the persisted profile.
type Store struct {
	path string
}

// NewStore creates a profile Store rooted at the given data directory.
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, FileName)}
}

// Load returns the stored profile. On first run it writes the defaults to
// disk and returns them. A corrupt file degrades to defaults rather than
// failing the cycle.
func (s *Store) Load() (model.Profile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		p := model.DefaultProfile()
		if err := s.Save(p); err != nil {
			return p, fmt.Errorf("writing default profile: %w", err)
		}
		return p, nil
	}
	if err != nil {
		return model.DefaultProfile(), nil
	}

	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return model.DefaultProfile(), nil
	}
	return p, nil
}

// Save overwrites the profile file. The write goes through a temp file and a
// rename so a crash mid-write cannot leave a half-written profile.
func (s *Store) Save(p model.Profile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing profile: %w", err)
	}
	return nil
}
