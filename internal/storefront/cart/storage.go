package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage persists the full cart as a single JSON blob, the same shape the
// original storefront keeps under its localStorage key.
type Storage interface {
	Load() ([]LineItem, error)
	Save(items []LineItem) error
}

type fileStorage struct {
	path string
}

func NewFileStorage(path string) Storage {
	return &fileStorage{path: path}
}

func (f *fileStorage) Load() ([]LineItem, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cart file: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing cart file: %w", err)
	}
	return items, nil
}

// Save writes to a temp file and renames it into place, so a crash mid-write
// never leaves a truncated cart behind.
func (f *fileStorage) Save(items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".cart-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cart file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cart file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cart file: %w", err)
	}
	return nil
}
