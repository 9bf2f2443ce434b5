package prefs_filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"anime.bike/mastoshare/pkg/prefs"
	"github.com/spf13/afero"
)

const (
	fileMode = 0600
	dirMode  = 0700
	suffix   = ".json"
)

// FilesystemStorage stores one file per key using an afero.Fs filesystem
type FilesystemStorage struct {
	fs   afero.Fs
	root string
}

// NewFilesystemStorage creates a new filesystem storage backend
func NewFilesystemStorage(fs afero.Fs, rootDir string) *FilesystemStorage {
	return &FilesystemStorage{
		fs:   fs,
		root: rootDir,
	}
}

// NewOSFilesystemStorage creates a filesystem storage using the OS filesystem
func NewOSFilesystemStorage(rootDir string) *FilesystemStorage {
	return NewFilesystemStorage(afero.NewOsFs(), rootDir)
}

// NewMemoryFilesystemStorage creates a filesystem storage using in-memory filesystem
func NewMemoryFilesystemStorage() *FilesystemStorage {
	return NewFilesystemStorage(afero.NewMemMapFs(), "/")
}

// DefaultDir returns $XDG_CONFIG_HOME/mastoshare, falling back to ~/.config/mastoshare
func DefaultDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "mastoshare"), nil
}

// Get reads the file for key
func (fs *FilesystemStorage) Get(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := fs.buildPath(key)
	if err != nil {
		return nil, err
	}

	exists, err := afero.Exists(fs.fs, fullPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, prefs.ErrNotFound
	}
	return afero.ReadFile(fs.fs, fullPath)
}

// Set writes value to a temporary file and renames it over the file for key
func (fs *FilesystemStorage) Set(ctx context.Context, key string, value []byte) error {
	fullPath, err := fs.buildPath(key)
	if err != nil {
		return err
	}

	if err := fs.fs.MkdirAll(filepath.Dir(fullPath), dirMode); err != nil {
		return err
	}

	tmpPath := fullPath + ".tmp"
	if err := afero.WriteFile(fs.fs, tmpPath, value, fileMode); err != nil {
		return err
	}
	if err := fs.fs.Rename(tmpPath, fullPath); err != nil {
		fs.fs.Remove(tmpPath)
		return err
	}
	return nil
}

// Remove deletes the file for key
func (fs *FilesystemStorage) Remove(ctx context.Context, key string) error {
	fullPath, err := fs.buildPath(key)
	if err != nil {
		return err
	}

	exists, err := afero.Exists(fs.fs, fullPath)
	if err != nil {
		return err
	}
	if !exists {
		return prefs.ErrNotFound
	}
	return fs.fs.Remove(fullPath)
}

// Path returns the file that holds key
func (fs *FilesystemStorage) Path(key string) (string, error) {
	return fs.buildPath(key)
}

func (fs *FilesystemStorage) buildPath(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(fs.root, key+suffix), nil
}
