package mirror

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Entry is a single path discovered under an input root.
type Entry struct {
	Path  string
	IsDir bool
}

// Walk enumerates every entry under root (not including root itself) in
// lexical order. A missing or unreadable root is a hard error: the pipelines
// must not quietly produce an empty output tree.
func Walk(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("can't read input root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input root %s is not a directory", root)
	}

	var entries []Entry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		entries = append(entries, Entry{Path: path, IsDir: d.IsDir()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return entries, nil
}

// Parents returns the sorted distinct set of directories containing the
// entries accepted by keep. A nil keep accepts every entry.
func Parents(entries []Entry, keep func(Entry) bool) []string {
	dirs := make(map[string]struct{})
	for _, e := range entries {
		if keep != nil && !keep(e) {
			continue
		}
		dirs[filepath.Dir(e.Path)] = struct{}{}
	}
	keys := make([]string, 0, len(dirs))
	for d := range dirs {
		keys = append(keys, d)
	}
	slices.Sort(keys)
	return keys
}

// Mirror maps paths under an input root to the corresponding paths under an
// output root.
type Mirror struct {
	InRoot  string
	OutRoot string
}

// Rel returns the path of p relative to the input root.
func (m Mirror) Rel(p string) (string, error) {
	rel, err := filepath.Rel(m.InRoot, p)
	if err != nil {
		return "", fmt.Errorf("path %s is not under input root %s: %w", p, m.InRoot, err)
	}
	return rel, nil
}

// OutPath maps a path under the input root to its mirrored output path.
func (m Mirror) OutPath(p string) (string, error) {
	rel, err := m.Rel(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.OutRoot, rel), nil
}

// Rebuild removes the output root with everything in it and creates it anew.
func (m Mirror) Rebuild() error {
	if err := os.RemoveAll(m.OutRoot); err != nil {
		return fmt.Errorf("can't clean output root %s: %w", m.OutRoot, err)
	}
	if err := os.MkdirAll(m.OutRoot, 0o755); err != nil {
		return fmt.Errorf("can't create output root %s: %w", m.OutRoot, err)
	}
	return nil
}

// Map creates the mirrored counterpart of every given input directory.
// Directory-creation failure aborts the run, with the offending path
// reported.
func (m Mirror) Map(dirs []string) error {
	for _, dir := range dirs {
		out, err := m.OutPath(dir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return fmt.Errorf("can't create output directory %s: %w", out, err)
		}
	}
	return nil
}
