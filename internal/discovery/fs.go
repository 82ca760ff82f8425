package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoFolder indicates that the test folder does not exist.
var ErrNoFolder = errors.New("no tests folder found")

// TestFile is a discovered test file.
type TestFile struct {
	Name string
	Path string
}

// TestFiles walks dir recursively and returns files named prefix*ext, in
// lexical walk order. Paths keep dir as their prefix. A dir that exists but
// is not a directory holds no test files.
func TestFiles(dir, prefix, ext string) ([]TestFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoFolder
		}
		return nil, fmt.Errorf("stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return []TestFile{}, nil
	}

	var files []TestFile
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			files = append(files, TestFile{Name: name, Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", dir, err)
	}
	return files, nil
}
