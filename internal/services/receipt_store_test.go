package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReceiptStoreRoundTrip(t *testing.T) {
	store, err := NewReceiptStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewReceiptStore failed: %v", err)
	}

	payload := []byte("fake receipt image bytes")
	ref, err := store.Store(payload)
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if ref == "" {
		t.Fatal("Store returned an empty reference")
	}

	path, err := store.Resolve(ref)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read stored receipt: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("stored bytes = %q, want %q", got, payload)
	}
}

func TestReceiptStoreRejectsNonUUIDReferences(t *testing.T) {
	dir := t.TempDir()
	store, err := NewReceiptStore(dir)
	if err != nil {
		t.Fatalf("NewReceiptStore failed: %v", err)
	}

	// Plant a file outside the store; a traversal reference must not
	// reach it.
	outside := filepath.Join(filepath.Dir(dir), "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0644); err != nil {
		t.Fatalf("failed to plant outside file: %v", err)
	}

	for _, ref := range []string{
		"",
		"../secret.txt",
		"not-a-uuid",
		"9a3f3c1e-d0cf-4f57-a2bd", // truncated
	} {
		if _, err := store.Resolve(ref); err == nil {
			t.Errorf("Resolve(%q) succeeded, want error", ref)
		}
	}
}

func TestReceiptStoreUnknownReference(t *testing.T) {
	store, err := NewReceiptStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewReceiptStore failed: %v", err)
	}

	if _, err := store.Resolve("9a3f3c1e-d0cf-4f57-a2bd-74c7bb5c8e01"); err == nil {
		t.Error("Resolve of a never-stored reference succeeded, want error")
	}
}

func TestReceiptStoreRequiresDirectory(t *testing.T) {
	if _, err := NewReceiptStore(""); err == nil {
		t.Error("NewReceiptStore(\"\") succeeded, want error")
	}
}
