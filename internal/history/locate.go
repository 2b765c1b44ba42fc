package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when no viewing-history file exists under the data
// directory.
var ErrNotFound = errors.New("viewing activity not found")

const (
	viewingActivityFile = "ViewingActivity.csv"
	contentDir          = "CONTENT_INTERACTION"
)

// Locate finds the viewing-history CSV under dir. It tries, in order:
//
//	dir/ViewingActivity.csv
//	dir/CONTENT_INTERACTION/ViewingActivity.csv
//	dir/<account>/CONTENT_INTERACTION/ViewingActivity.csv
//	the first *.csv directly in dir
//
// where <account> is the first non-hidden subdirectory, which is how the full
// Netflix data download is laid out.
func Locate(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("data directory %s: %w", dir, ErrNotFound)
		}
		return "", fmt.Errorf("checking data directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory: %w", dir, ErrNotFound)
	}

	candidates := []string{
		filepath.Join(dir, viewingActivityFile),
		filepath.Join(dir, contentDir, viewingActivityFile),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			candidates = append(candidates, filepath.Join(dir, e.Name(), contentDir, viewingActivityFile))
			break
		}
	}

	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}

	csvs, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return "", fmt.Errorf("globbing %s: %w", dir, err)
	}
	sort.Strings(csvs)
	if len(csvs) > 0 {
		return csvs[0], nil
	}

	return "", fmt.Errorf("no %s under %s: %w", viewingActivityFile, dir, ErrNotFound)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
