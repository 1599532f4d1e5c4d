package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// loadOrInitAdminToken returns the admin token stored under dataDir,
// minting and persisting a fresh one on first run.
func loadOrInitAdminToken(dataDir string) (string, error) {
	path := filepath.Join(dataDir, "admin.token")

	switch data, err := os.ReadFile(path); {
	case err == nil:
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read admin token: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("mint admin token: %w", err)
	}
	token := hex.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("persist admin token: %w", err)
	}
	return token, nil
}
