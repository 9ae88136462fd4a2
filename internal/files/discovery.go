package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindExcelFiles finds all .xlsx workbooks under dir, recursively. Excel lock
// files ("~$" prefix) are skipped. Results are sorted by path so repeated
// runs process workbooks in a stable order.
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	var found []FileInfo
	err := filepath.WalkDir(fullPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".xlsx") || isLockFile(name) {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		found = append(found, FileInfo{
			Path:    path,
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", fullPath, err)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})
	return found, nil
}

// FindJSONFiles finds all .json files directly inside dir, sorted by name.
func (d *Discovery) FindJSONFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var found []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})
	return found, nil
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// isLockFile reports whether a file name is an Excel temp/lock artifact.
func isLockFile(name string) bool {
	return strings.HasPrefix(name, "~$")
}
