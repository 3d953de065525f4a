// Package store reads source documents and writes converted documents.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Sentinel errors for storage operations.
var (
	ErrReadInput   = errors.New("cannot read input document")
	ErrWriteOutput = errors.New("cannot write output document")
)

// FS is the filesystem the documents live on.
type FS interface {
	fs.FS
	MkdirAll(path string, perm fs.FileMode) error
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// OS is the host filesystem. Paths are used as given.
type OS struct{}

// Open implements [fs.FS].
func (OS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// MkdirAll implements [FS].
func (OS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFile implements [FS].
func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Read returns the document stored at path.
func Read(fsys FS, path string) (string, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	return string(data), nil
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(fsys FS, dir string) error {
	if err := fsys.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// OutputPath returns "<dir>/<stem of input>.md".
func OutputPath(dir, input string) string {
	base := filepath.Base(input)

	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".md")
}

// Write stores doc under dir, named after input, and returns its path.
func Write(fsys FS, dir, input, doc string) (string, error) {
	if err := EnsureDir(fsys, dir); err != nil {
		return "", err
	}

	path := OutputPath(dir, input)

	if err := fsys.WriteFile(path, []byte(doc), fileMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return path, nil
}
