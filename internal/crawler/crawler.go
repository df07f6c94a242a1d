package crawler

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// Extensions lists the file extensions treated as Python source.
var Extensions = []string{".py", ".pyx", ".pxd"}

// Crawler scans a directory for Python source files.
type Crawler struct {
	fs      afero.Fs
	ignored []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler(fs afero.Fs) *Crawler {
	return &Crawler{
		fs:      fs,
		ignored: []string{".git", ".hg", ".tox", ".venv", "venv", "__pycache__", "node_modules", "build", "dist"},
	}
}

// IsPython reports whether path names a Python source file.
func IsPython(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// ScanProject walks root and calls onFile for every Python file, in lexical
// order. A root that is itself a file is passed through when it is Python.
func (c *Crawler) ScanProject(root string, onFile func(path string) error) error {
	return afero.Walk(c.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if info.IsDir() {
			if path != root && slices.Contains(c.ignored, info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsPython(path) {
			return nil
		}
		return onFile(path)
	})
}

// Collect expands paths into the Python files they name or contain.
// Duplicates are dropped.
func (c *Crawler) Collect(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, p := range paths {
		err := c.ScanProject(p, func(path string) error {
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
