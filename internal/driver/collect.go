package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"uclint/internal/config"
)

// listSources returns the sorted C# files under root. Directories named in
// the manifest's exclude list and hidden directories are skipped. A file root
// is returned as is.
func listSources(root string, m *config.Manifest) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || m.Excluded(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".cs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// детерминированный порядок
	sort.Strings(files)
	return files, nil
}
