package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/RyanBlaney/soundscape/results"
)

// discovery is the outcome of expanding command-line paths.
type discovery struct {
	files   []string
	skipped []string // already have a CSV
}

// discover expands files and directories into supported audio files, sorted.
// Directories are walked recursively. With resume set, files that already
// have an output CSV are skipped.
func discover(paths []string, supports func(string) bool, resume bool) (*discovery, error) {
	seen := make(map[string]bool)
	d := &discovery{}

	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		if resume && results.HasCSV(path) {
			d.skipped = append(d.skipped, path)
			return
		}
		d.files = append(d.files, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !supports(root) {
				return nil, fmt.Errorf("%s: unsupported audio format", root)
			}
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && supports(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	slices.Sort(d.skipped)
	return d, nil
}
