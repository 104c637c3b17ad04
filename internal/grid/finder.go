package grid

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// findGridFiles resolves a path into the list of grid files to load: the
// path itself if it is a file, otherwise every .hcl file under it,
// recursively, in walk order.
func findGridFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
