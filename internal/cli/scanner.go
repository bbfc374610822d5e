package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/utils"
)

// SnapshotExtension is the file extension of metadata snapshots
const SnapshotExtension = ".rtmd"

// SnapshotScanner resolves configured metadata paths into snapshot files
type SnapshotScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewSnapshotScanner creates a new snapshot scanner
func NewSnapshotScanner() *SnapshotScanner {
	return &SnapshotScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanSnapshots resolves each path into snapshot files. A file is taken as is, a directory
// contributes its .rtmd files, and Go-style patterns like "./metadata/..." are scanned
// recursively. Files are returned in the order the paths were given, without duplicates.
func (s *SnapshotScanner) ScanSnapshots(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(found []string) {
		for _, f := range found {
			clean := filepath.Clean(f)
			if !seen[clean] {
				seen[clean] = true
				files = append(files, clean)
			}
		}
	}

	for _, path := range paths {
		if strings.HasSuffix(path, "/...") {
			baseDir := strings.TrimSuffix(path, "/...")
			if baseDir == "" {
				baseDir = "."
			}
			found, err := s.fileProcessor.WalkFiles(baseDir, utils.FileWalkOptions{
				FileFilter:      utils.ExtensionFilter(SnapshotExtension),
				DirectoryFilter: utils.DefaultDirectoryFilter(),
			})
			if err != nil {
				return nil, errors.WrapFileSystemError("scan", baseDir, err)
			}
			add(found)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.WrapFileSystemError("stat", path, err).
				WithSuggestions(
					"Check the metadata paths in the configuration file",
					"Use 'dir/...' to scan a directory and its subdirectories",
				)
		}
		if !info.IsDir() {
			add([]string{path})
			continue
		}

		found, err := s.fileProcessor.ListFiles(path, utils.ExtensionFilter(SnapshotExtension))
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", path, err)
		}
		add(found)
	}

	return files, nil
}
