package cucumber

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const (
	featureFileExtension = ".feature"
)

// findFeatures returns the feature files below path, descending into
// sub-directories, or path itself when it names a single file.
func findFeatures(path string) ([]string, error) {
	var files []string

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	switch mode := fi.Mode(); {
	case mode.IsDir():
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(d.Name()) == featureFileExtension {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
	case mode.IsRegular():
		files = append(files, path)
	}

	return files, nil
}
