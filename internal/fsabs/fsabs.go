// Package fsabs implements the §6 file-system abstraction
// ("file_exists", "read_all_text", "get_files(dir, pattern, recursive)")
// that keeps the parser itself string-in/string-out: file I/O is the
// caller's concern, not the core's (grounded on the teacher's
// core/filewalker.go, which matches discovered paths against glob
// patterns with doublestar rather than filepath.Match).
package fsabs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// FS is the file-system abstraction spec.md §6 asks for. The zero value of
// OS (below) is a ready-to-use implementation backed by the real disk.
type FS interface {
	FileExists(path string) bool
	ReadAllText(path string) (string, error)
	GetFiles(dir, pattern string, recursive bool) ([]string, error)
}

// OS is the default FS backed directly by the operating system.
type OS struct{}

func (OS) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (OS) ReadAllText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("fsabs: read %s: %w", path, err)
	}
	return string(b), nil
}

// GetFiles lists files under dir matching a doublestar glob pattern (e.g.
// "*.gd" or "**/*.gd"). recursive controls whether subdirectories are
// descended into at all; when false only dir's direct entries are
// considered, matching pattern against the base name.
func (OS) GetFiles(dir, pattern string, recursive bool) ([]string, error) {
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("fsabs: read dir %s: %w", dir, err)
		}
		var out []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			matched, err := doublestar.Match(pattern, e.Name())
			if err != nil {
				return nil, fmt.Errorf("fsabs: bad pattern %q: %w", pattern, err)
			}
			if matched {
				out = append(out, filepath.Join(dir, e.Name()))
			}
		}
		sort.Strings(out)
		return out, nil
	}

	var out []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matched, matchErr := doublestar.Match(pattern, d.Name())
		if matchErr != nil {
			return fmt.Errorf("fsabs: bad pattern %q: %w", pattern, matchErr)
		}
		if matched {
			out = append(out, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("fsabs: walk %s: %w", dir, walkErr)
	}
	sort.Strings(out)
	return out, nil
}
