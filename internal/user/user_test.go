package user

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIdentityIsStable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	first, err := Identity()
	if err != nil {
		t.Fatalf("Identity() failed: %v", err)
	}
	if first == "" {
		t.Fatal("Identity() returned empty ID")
	}

	second, err := Identity()
	if err != nil {
		t.Fatalf("Second Identity() failed: %v", err)
	}
	if second != first {
		t.Errorf("Identity changed between calls: %q then %q", first, second)
	}
}

func TestIdentityReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".tablero")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "identity"), []byte("fixed-id\n"), 0600); err != nil {
		t.Fatalf("Failed to seed identity: %v", err)
	}

	id, err := Identity()
	if err != nil {
		t.Fatalf("Identity() failed: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("Expected 'fixed-id', got %q", id)
	}
}

func TestUsername(t *testing.T) {
	if Username() == "" {
		t.Error("Username() should never return an empty string")
	}
}
