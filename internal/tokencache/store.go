// Package tokencache persists session tokens between CLI invocations.
package tokencache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parcelwatch/postnl/pkg/postnl"
)

// Load reads a cached token from path. A missing file returns (nil, nil).
func Load(path string) (*postnl.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading token cache: %w", err)
	}

	var token postnl.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token cache: %w", err)
	}

	return &token, nil
}

// Save writes the token to path with owner-only permissions.
func Save(path string, token *postnl.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating token cache dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}
	return nil
}
