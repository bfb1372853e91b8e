// Package tokenstore persists the access/refresh token pair between runs,
// standing in for the browser's localStorage. Tokens are encrypted at rest
// with a machine-local key created on first use.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/internal/security"
	"github.com/twinhealth/healthdash/pkg/model"
)

const (
	keyFileName   = "credentials.key"
	tokenFileName = "credentials.enc"
)

// Store is a file-backed token store rooted at a data directory
type Store struct {
	dir       string
	encryptor *security.Encryptor
	logger    *zap.Logger
}

// Open prepares the store under dir, creating the directory and the
// encryption key on first use. Key and token files are owner-only.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("token store directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token store directory: %w", err)
	}

	key, err := loadOrCreateKey(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, err
	}

	encryptor, err := security.NewEncryptor(key)
	if err != nil {
		return nil, err
	}

	return &Store{
		dir:       dir,
		encryptor: encryptor,
		logger:    logger,
	}, nil
}

// Save writes the token pair atomically (temp file + rename)
func (s *Store) Save(tokens model.Tokens) error {
	plaintext, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	sealed, err := s.encryptor.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt tokens: %w", err)
	}

	path := filepath.Join(s.dir, tokenFileName)
	tmp, err := os.CreateTemp(s.dir, tokenFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set token file mode: %w", err)
	}
	if _, err := tmp.WriteString(sealed); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close token file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}

	s.logger.Debug("tokens persisted", zap.String("path", path))

	return nil
}

// Load reads the stored pair. The second return is false when no pair is
// stored; that is not an error.
func (s *Store) Load() (*model.Tokens, bool, error) {
	sealed, err := os.ReadFile(filepath.Join(s.dir, tokenFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read token file: %w", err)
	}

	plaintext, err := s.encryptor.Decrypt(string(sealed))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decrypt token file: %w", err)
	}

	var tokens model.Tokens
	if err := json.Unmarshal(plaintext, &tokens); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal tokens: %w", err)
	}
	if tokens.Access == "" && tokens.Refresh == "" {
		return nil, false, nil
	}
	return &tokens, true, nil
}

// Clear removes the stored pair. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.dir, tokenFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}

	s.logger.Debug("tokens cleared")

	return nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != security.KeySize {
			return nil, fmt.Errorf("corrupt key file %s: got %d bytes", path, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key, err = security.NewKey()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	return key, nil
}
