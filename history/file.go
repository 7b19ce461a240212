package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// DefaultFile is the name of the history file in the user's home directory.
const DefaultFile = ".calculator_history.json"

// DefaultPath returns the path of the history file in the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, DefaultFile), nil
}

// FileBackend stores items as an indented JSON array in a single file. Each
// store replaces the file atomically.
type FileBackend struct {
	Path string
}

// NewFileBackend creates a file backend. An empty path selects DefaultPath.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileBackend{Path: filepath.Clean(path)}, nil
}

// Load reads the history file. A missing file is an empty history.
func (f *FileBackend) Load(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	items, err := decodeItems(data)
	if err != nil {
		return nil, fmt.Errorf("decode history %s: %w", f.Path, err)
	}
	return items, nil
}

// Store writes items to the history file, creating its directory if needed.
func (f *FileBackend) Store(ctx context.Context, items []Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = []Item{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	if err := atomic.WriteFile(f.Path, &buf); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// decodeItems decodes a JSON array of items. Elements that are not objects
// with string "expression" and "result" fields are skipped.
func decodeItems(data []byte) ([]Item, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		expr, ok := m["expression"].(string)
		if !ok {
			continue
		}
		result, ok := m["result"].(string)
		if !ok {
			continue
		}
		items = append(items, Item{Expression: expr, Result: result})
	}
	return items, nil
}
