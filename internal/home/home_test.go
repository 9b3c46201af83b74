package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-doclayout")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-doclayout" {
			t.Errorf("expected path /tmp/test-doclayout, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-doclayout")

	t.Run("DocsPath", func(t *testing.T) {
		expected := "/tmp/test-doclayout/docs"
		if dir.DocsPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.DocsPath())
		}
	})

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-doclayout/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})

	t.Run("document paths", func(t *testing.T) {
		if got := dir.HierarchyPath("doc1"); got != "/tmp/test-doclayout/docs/doc1/hierarchy.json" {
			t.Errorf("HierarchyPath = %s", got)
		}
		if got := dir.GraphDir("doc1"); got != "/tmp/test-doclayout/docs/doc1/graph" {
			t.Errorf("GraphDir = %s", got)
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	homeDir := filepath.Join(tmpDir, "doclayout-test")

	dir, err := New(homeDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Directory shouldn't exist yet
	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	// Create it
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	// Now it should exist
	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	// Docs directory should also exist
	if _, err := os.Stat(dir.DocsPath()); os.IsNotExist(err) {
		t.Error("docs directory should exist after EnsureExists")
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	// Config doesn't exist
	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	// Create a config file
	configPath := dir.ConfigPath()
	if err := os.WriteFile(configPath, []byte("test: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Now it should exist
	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}

func TestDir_EnsureDocDir(t *testing.T) {
	dir, _ := New(t.TempDir())

	if err := dir.EnsureDocDir("abc"); err != nil {
		t.Fatalf("EnsureDocDir failed: %v", err)
	}
	if _, err := os.Stat(dir.DocDir("abc")); err != nil {
		t.Errorf("doc dir missing: %v", err)
	}

	if err := dir.EnsureGraphDir("abc"); err != nil {
		t.Fatalf("EnsureGraphDir failed: %v", err)
	}
	if _, err := os.Stat(dir.GraphDir("abc")); err != nil {
		t.Errorf("graph dir missing: %v", err)
	}
}
