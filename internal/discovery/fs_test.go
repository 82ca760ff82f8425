package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTestFilesRecursive(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "tests")
	files := []string{
		"test_b.py",
		"test_a.py",
		"helper.py",
		"test_notes.txt",
		"a_test.py",
		filepath.Join("unit", "test_c.py"),
	}
	for _, name := range files {
		writeFile(t, filepath.Join(dir, name))
	}

	got, err := TestFiles(dir, "test_", ".py")
	if err != nil {
		t.Fatalf("TestFiles returned error: %v", err)
	}

	want := []TestFile{
		{Name: "test_a.py", Path: filepath.Join(dir, "test_a.py")},
		{Name: "test_b.py", Path: filepath.Join(dir, "test_b.py")},
		{Name: "test_c.py", Path: filepath.Join(dir, "unit", "test_c.py")},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d files, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestTestFilesMissingFolder(t *testing.T) {
	root := t.TempDir()

	if _, err := TestFiles(filepath.Join(root, "tests"), "test_", ".py"); !errors.Is(err, ErrNoFolder) {
		t.Fatalf("expected ErrNoFolder, got %v", err)
	}

}

func TestTestFilesRegularFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tests")
	writeFile(t, file)

	got, err := TestFiles(file, "test_", ".py")
	if err != nil {
		t.Fatalf("expected no error for a file, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no files, got %+v", got)
	}
}

func TestTestFilesEmptyFolder(t *testing.T) {
	got, err := TestFiles(t.TempDir(), "test_", ".py")
	if err != nil {
		t.Fatalf("TestFiles returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no files, got %+v", got)
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("def test_ok():\n    pass\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}
