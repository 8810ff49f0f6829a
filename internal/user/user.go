// Package user resolves the caller identity every operation is scoped by.
//
// The identity is an opaque ID generated once per installation and kept at
// ~/.tablero/identity. Boards created under it are invisible to any other
// identity, which keeps multiple accounts on a shared machine apart.
package user

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const identityFile = "identity"

// Identity returns the stable caller ID for this installation, creating
// and persisting a fresh one on first run.
func Identity() (string, error) {
	dir, err := identityDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, identityFile)
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", err
	}
	return id, nil
}

// Username returns the current system username, for display only.
// It tries multiple methods with fallbacks:
// 1. user.Current() - most reliable, gets username from OS
// 2. USER environment variable - fallback for restricted environments
// 3. "unknown" - final fallback to ensure a non-empty value
func Username() string {
	currentUser, err := user.Current()
	if err != nil {
		username := os.Getenv("USER")
		if username == "" {
			return "unknown"
		}
		return username
	}
	return currentUser.Username
}

func identityDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".tablero"), nil
}
