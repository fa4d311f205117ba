// Package media implements the flat content directory holding downloaded
// attachment files, addressed by identity-derived filenames.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store manages a single flat directory of media files shared by all
// channels. Filenames are derived from message identity, so a purge followed
// by a re-fetch regenerates the same names.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("media directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory attachments are downloaded into.
func (s *Store) Dir() string {
	return s.dir
}

// Purge removes every regular file in the store. Subdirectories are not
// expected and are left alone.
func (s *Store) Purge() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read media directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// SweepOrphans removes files whose names do not appear in the referenced
// set and returns the number removed. Removal failures for individual files
// are skipped so one stuck file cannot abort the sweep.
func (s *Store) SweepOrphans(referenced []string) (int, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		keep[name] = struct{}{}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read media directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			continue
		}
		removed++
	}
	return removed, nil
}

// Filename builds the stored name for an attachment from its message
// identity. The channel name is sanitized to a filesystem-safe slug and the
// extension is normalized to a single leading dot.
func Filename(channel string, externalID int64, ext string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, channel)

	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s-%d.%s", slug, externalID, ext)
}
