package convert

import (
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"
)

// SaveDebugLevel writes req as YAML so an export can be replayed later.
func SaveDebugLevel(fsys billy.Filesystem, path string, req *LevelExport) error {
	return saveYAML(fsys, path, req)
}

// LoadDebugLevel reads an export request written by SaveDebugLevel.
func LoadDebugLevel(fsys billy.Filesystem, path string) (*LevelExport, error) {
	req := &LevelExport{}
	if err := loadYAML(fsys, path, req); err != nil {
		return nil, err
	}
	return req, nil
}

// SaveDebugModel writes req as YAML.
func SaveDebugModel(fsys billy.Filesystem, path string, req *ModelExport) error {
	return saveYAML(fsys, path, req)
}

// LoadDebugModel reads an export request written by SaveDebugModel.
func LoadDebugModel(fsys billy.Filesystem, path string) (*ModelExport, error) {
	req := &ModelExport{}
	if err := loadYAML(fsys, path, req); err != nil {
		return nil, err
	}
	return req, nil
}

func saveYAML(fsys billy.Filesystem, path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
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

func loadYAML(fsys billy.Filesystem, path string, v any) error {
	f, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
