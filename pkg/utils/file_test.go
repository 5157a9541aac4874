package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveDir(t *testing.T) {
	t.Run("returns an absolute path for an existing directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		got, err := ResolveDir(tmpDir)
		if err != nil {
			t.Fatalf("ResolveDir(%q) failed: %v", tmpDir, err)
		}
		if got != tmpDir {
			t.Errorf("ResolveDir(%q) = %q, expected the same path", tmpDir, got)
		}
	})

	t.Run("resolves a relative path against the cwd", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Chdir(tmpDir)
		got, err := ResolveDir(".")
		if err != nil {
			t.Fatalf("ResolveDir(\".\") failed: %v", err)
		}
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Getwd() failed: %v", err)
		}
		if got != wd {
			t.Errorf("ResolveDir(\".\") = %q, expected %q", got, wd)
		}
	})

	t.Run("fails for a missing directory", func(t *testing.T) {
		if _, err := ResolveDir(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("ResolveDir() succeeded for a missing directory")
		}
	})

	t.Run("fails for a regular file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "plain.txt")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
		_, err := ResolveDir(file)
		if err == nil {
			t.Fatal("ResolveDir() succeeded for a regular file")
		}
		if !strings.Contains(err.Error(), "not a directory") {
			t.Errorf("ResolveDir() error = %v, expected a not-a-directory error", err)
		}
	})
}

func TestRelPath(t *testing.T) {
	base := filepath.Join("/srv", "projects")
	path := filepath.Join(base, "Vector_search", "app")
	if got := RelPath(base, path); got != filepath.Join("Vector_search", "app") {
		t.Errorf("RelPath() = %q, expected %q", got, filepath.Join("Vector_search", "app"))
	}

	// unrelatable paths fall back to the input
	if got := RelPath("relative/base", "/absolute/path"); got != "/absolute/path" {
		t.Errorf("RelPath() = %q, expected the input path back", got)
	}
}

func TestCreateDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := CreateDir(path); err != nil {
		t.Fatalf("CreateDir(%q) failed: %v", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%q is not a directory", path)
	}
	if err := CreateDir(path); err != nil {
		t.Errorf("CreateDir() on an existing directory failed: %v", err)
	}
}
