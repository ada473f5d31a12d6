package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AhmedZafar5533/marbo-go/app/models"
)

// FileStore persists the cart as a single JSON array of line items in one
// file, mirroring the original device-storage layout.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (models.Cart, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.EmptyCart(), nil
		}
		return models.EmptyCart(), fmt.Errorf("failed to read cart file: %w", err)
	}

	var inputs []models.LineItemInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		// Corrupt stored data is downgraded to an empty cart, never an error.
		return models.EmptyCart(), nil
	}

	cart := models.Cart{Items: models.NormalizeItems(inputs)}
	cart.Recount()
	return cart, nil
}

func (s *FileStore) Save(ctx context.Context, cart models.Cart) error {
	data, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cart directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cart file: %w", err)
	}
	return nil
}
