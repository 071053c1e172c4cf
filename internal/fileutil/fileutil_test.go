package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"retake/internal/fileutil"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o640); err != nil {
		t.Fatalf("write src: %v", err)
	}

	dst := filepath.Join(dir, "nested", "dst.txt")
	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("dst content = %q", data)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat dst: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("permissions not preserved: %v", info.Mode().Perm())
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should survive a copy: %v", err)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	if err := fileutil.CopyFile("/nonexistent/file", filepath.Join(t.TempDir(), "out")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "staged.txt")
	dst := filepath.Join(dir, "final.txt")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatalf("write dst: %v", err)
	}

	if err := fileutil.ReplaceFile(src, dst); err != nil {
		t.Fatalf("ReplaceFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("dst content = %q", data)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source should be gone after replace, stat err = %v", err)
	}
}
