package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FlattenResult summarizes what Flatten did.
type FlattenResult struct {
	Moved       int
	RemovedDirs int
}

// Flatten moves every .xlsx found in subdirectories of root up into root
// itself, then removes the directories that were left empty. Name collisions
// get a _1, _2, ... suffix before the extension. A missing root is created
// and treated as already flat.
func Flatten(root string) (FlattenResult, error) {
	var res FlattenResult

	if _, err := os.Stat(root); os.IsNotExist(err) {
		if err := os.MkdirAll(root, 0755); err != nil {
			return res, fmt.Errorf("failed to create input directory: %w", err)
		}
		return res, nil
	}

	nested, err := NewDiscovery(root).FindExcelFiles(root)
	if err != nil {
		return res, err
	}

	for _, f := range nested {
		if filepath.Dir(f.Path) == filepath.Clean(root) {
			continue
		}
		dest := uniqueDestination(root, f.Name)
		if err := os.Rename(f.Path, dest); err != nil {
			return res, fmt.Errorf("failed to move %s: %w", f.Path, err)
		}
		slog.Debug("moved workbook to input root",
			slog.String("from", f.Path),
			slog.String("to", dest))
		res.Moved++
	}

	removed, err := removeEmptyDirs(root)
	if err != nil {
		return res, err
	}
	res.RemovedDirs = removed
	return res, nil
}

// uniqueDestination returns a path inside dir for name that does not collide
// with an existing file.
func uniqueDestination(dir, name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}
}

// removeEmptyDirs deletes empty directories under root, deepest first. The
// root itself is kept.
func removeEmptyDirs(root string) (int, error) {
	var dirs []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && path != filepath.Clean(root) {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	// Deepest paths first so parents empty out as children go.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err == nil {
			slog.Debug("removed empty directory", slog.String("dir", dir))
			removed++
		}
	}
	return removed, nil
}
