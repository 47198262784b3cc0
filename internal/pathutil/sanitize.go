package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeOutputPath cleans a file path for writing, makes it absolute and
// rejects symlinks and existing directories. A file that does not exist yet
// is accepted.
func SanitizeOutputPath(path string) (string, error) {
	abs, info, err := inspect(path)
	if err != nil {
		return "", err
	}
	if info != nil && info.IsDir() {
		return "", fmt.Errorf("pathutil: output path is a directory: %s", abs)
	}
	return abs, nil
}

// SanitizeOutputDir is SanitizeOutputPath for the directory that receives a
// generated package. An existing path must be a directory.
func SanitizeOutputDir(path string) (string, error) {
	abs, info, err := inspect(path)
	if err != nil {
		return "", err
	}
	if info != nil && !info.IsDir() {
		return "", fmt.Errorf("pathutil: output path is not a directory: %s", abs)
	}
	return abs, nil
}

// inspect returns the cleaned absolute path and its Lstat info, or nil info
// when nothing exists there yet.
func inspect(path string) (string, os.FileInfo, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", nil, fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", nil, fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
		}
		return abs, info, nil
	case os.IsNotExist(err):
		return abs, nil, nil
	default:
		return "", nil, fmt.Errorf("pathutil: cannot stat path: %w", err)
	}
}
