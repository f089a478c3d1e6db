// Package export writes mind maps to disk: the JSON document users move
// between sessions, and PNG or SVG pictures of the canvas.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultJSONName is the file name used by WriteJSON.
const DefaultJSONName = "mindmap.json"

// ErrNotJSON is returned by ReadJSON for paths without a .json extension.
var ErrNotJSON = errors.New("please select a valid JSON file")

// WriteJSON writes data to dir/mindmap.json and returns the path. The file
// is replaced atomically so a watcher never sees a half-written document.
func WriteJSON(dir string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	return writeAtomic(filepath.Join(dir, DefaultJSONName), data)
}

// WriteJSONTo writes data to path atomically.
func WriteJSONTo(path string, data []byte) error {
	_, err := writeAtomic(path, data)
	return err
}

// ReadJSON reads a mind-map document. Only .json files are accepted.
func ReadJSON(path string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotJSON)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeAtomic(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("replace %s: %w", path, err)
	}
	return path, nil
}
