package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestCopyEnvFiles(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	writeFile(t, filepath.Join(src, ".env"), "A=1")
	writeFile(t, filepath.Join(src, ".env.local"), "B=2")
	writeFile(t, filepath.Join(src, ".env.production"), "C=3")
	writeFile(t, filepath.Join(src, "config", "secrets.env"), "D=4")
	writeFile(t, filepath.Join(src, "README.md"), "docs")

	copied, err := CopyEnvFiles(src, dest, []string{".env", ".env.*", "config/*.env", ".env.missing"})
	if err != nil {
		t.Fatalf("CopyEnvFiles: %v", err)
	}

	want := []string{".env", ".env.local", ".env.production", filepath.Join("config", "secrets.env")}
	if !reflect.DeepEqual(copied, want) {
		t.Errorf("copied = %v, want %v", copied, want)
	}
	if _, err := os.Stat(filepath.Join(dest, "README.md")); !os.IsNotExist(err) {
		t.Error("README.md copied although no pattern matched it")
	}
	data, err := os.ReadFile(filepath.Join(dest, "config", "secrets.env"))
	if err != nil || string(data) != "D=4" {
		t.Errorf("secrets.env = %q, %v", data, err)
	}
}

func TestCopyEnvFiles_PreservesModeAndTime(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	path := filepath.Join(src, ".env")
	writeFile(t, path, "TOKEN=x")

	mtime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if _, err := CopyEnvFiles(src, dest, []string{".env"}); err != nil {
		t.Fatalf("CopyEnvFiles: %v", err)
	}

	info, err := os.Stat(filepath.Join(dest, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), mtime)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestCopyEnvFiles_SkipsDirectoriesAndDuplicates(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, ".env"), "A=1")
	if err := os.MkdirAll(filepath.Join(src, ".env.d"), 0755); err != nil {
		t.Fatal(err)
	}

	copied, err := CopyEnvFiles(src, dest, []string{".env", ".env*"})
	if err != nil {
		t.Fatalf("CopyEnvFiles: %v", err)
	}
	if !reflect.DeepEqual(copied, []string{".env"}) {
		t.Errorf("copied = %v, want [.env]", copied)
	}
}

func TestCopyEnvFiles_BadPattern(t *testing.T) {
	if _, err := CopyEnvFiles(t.TempDir(), t.TempDir(), []string{"["}); err == nil {
		t.Error("expected error for malformed pattern")
	}
}
