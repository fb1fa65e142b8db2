package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FilesystemFixtures reads fixtures from files under a base directory.
type FilesystemFixtures struct {
	basePath string
}

func NewFilesystemFixtures(basePath string) (*FilesystemFixtures, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat data path %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory", basePath)
	}

	return &FilesystemFixtures{
		basePath: basePath,
	}, nil
}

func (f *FilesystemFixtures) ReadFixture(ctx context.Context, name string) ([]byte, string, error) {
	for _, ext := range FixtureExtensions {
		path := filepath.Join(f.basePath, name+ext)

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, "", fmt.Errorf("failed to read fixture file %s: %w", path, err)
		}
		return data, ext, nil
	}

	return nil, "", fmt.Errorf("%s in %s: %w", name, f.basePath, ErrFixtureNotFound)
}
