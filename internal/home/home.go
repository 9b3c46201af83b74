package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the doclayout home directory.
	DefaultDirName = ".doclayout"

	// DocsDirName is the subdirectory for parsed document output.
	DocsDirName = "docs"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the doclayout home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.doclayout).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// DocsPath returns the path to the parsed documents directory.
func (d *Dir) DocsPath() string {
	return filepath.Join(d.path, DocsDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.DocsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// DocDir returns the output directory for one parsed document.
func (d *Dir) DocDir(docID string) string {
	return filepath.Join(d.DocsPath(), docID)
}

// EnsureDocDir creates the output directory for a document.
func (d *Dir) EnsureDocDir(docID string) error {
	return os.MkdirAll(d.DocDir(docID), 0o755)
}

// HierarchyPath returns the path of a document's parsed hierarchy file.
func (d *Dir) HierarchyPath(docID string) string {
	return filepath.Join(d.DocDir(docID), "hierarchy.json")
}

// GraphDir returns the directory holding a document's exported graph
// sections.
func (d *Dir) GraphDir(docID string) string {
	return filepath.Join(d.DocDir(docID), "graph")
}

// EnsureGraphDir creates the graph export directory for a document.
func (d *Dir) EnsureGraphDir(docID string) error {
	return os.MkdirAll(d.GraphDir(docID), 0o755)
}
