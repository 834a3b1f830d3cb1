package formats

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

// ReadLevelFile reads and decodes a level file from fsys.
func ReadLevelFile(fsys billy.Filesystem, path string) (*Level, error) {
	data, err := readFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return DecodeLevel(data)
}

// WriteLevelFile encodes level and writes it to path, creating parent
// directories as needed.
func WriteLevelFile(fsys billy.Filesystem, path string, level *Level) error {
	data, err := EncodeLevel(level)
	if err != nil {
		return err
	}
	return writeFile(fsys, path, data)
}

// ReadModelFile reads and decodes a model file from fsys.
func ReadModelFile(fsys billy.Filesystem, path string) (*Model, error) {
	data, err := readFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return DecodeModel(data)
}

// WriteModelFile encodes model and writes it to path.
func WriteModelFile(fsys billy.Filesystem, path string, model *Model) error {
	data, err := EncodeModel(model)
	if err != nil {
		return err
	}
	return writeFile(fsys, path, data)
}

func readFile(fsys billy.Filesystem, path string) ([]byte, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func writeFile(fsys billy.Filesystem, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
