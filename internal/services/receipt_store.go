package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ReceiptStore keeps uploaded receipt images on disk under a single
// directory. Callers only ever hold the opaque reference; the ledger core
// never inspects the bytes behind it.
type ReceiptStore struct {
	Dir string
}

func NewReceiptStore(dir string) (*ReceiptStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("receipt directory is not configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %w", err)
	}
	return &ReceiptStore{Dir: dir}, nil
}

// Store writes the receipt bytes and returns the opaque reference for the
// claim row.
func (s *ReceiptStore) Store(data []byte) (string, error) {
	ref := uuid.NewString()
	path := filepath.Join(s.Dir, ref)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to store receipt: %w", err)
	}
	return ref, nil
}

// Resolve maps a reference back to the stored file. References are
// validated as UUIDs so a claim row can never point outside the store.
func (s *ReceiptStore) Resolve(ref string) (string, error) {
	if _, err := uuid.Parse(ref); err != nil {
		return "", fmt.Errorf("invalid receipt reference")
	}
	path := filepath.Join(s.Dir, ref)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("receipt not found")
	}
	return path, nil
}
