package main

import (
	"os"
	"path/filepath"
)

// osFileSystem is the CLI's concrete orchestrator.FS backed by the real
// filesystem; the core package never assumes a filesystem exists.
type osFileSystem struct{}

func (osFileSystem) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (osFileSystem) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// cliPath resolves the library directory, and relative paths against a
// base directory supplied per call.
type cliPath struct {
	libDir string
}

func (p cliPath) GetLibDir() string { return p.libDir }

func (p cliPath) GetFromBase(base, relative string) string {
	return filepath.Join(base, relative)
}
