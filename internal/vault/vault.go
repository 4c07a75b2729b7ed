// Package vault implements symmetric encryption of stored connection
// passwords under a locally persisted master key.
//
// Ciphertext is self-describing: the random nonce used for each encryption
// is embedded ahead of the payload (hex(nonce) ":" hex(sealed)), so any
// blob can be re-encrypted during rotation independent of call order.
package vault

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/dbcove/dbcove/internal/errs"
)

// RedactionMarker is what external callers see in place of a stored
// password. Decrypt treats it as "no password" rather than ciphertext.
const RedactionMarker = "********"

const separator = ":"

// DecryptFunc decrypts one ciphertext under a retired key during rotation.
type DecryptFunc func(ciphertext string) (string, error)

// Vault encrypts and decrypts secrets with a master key persisted at a
// restricted-permission file. Safe for concurrent use.
type Vault struct {
	mu      sync.RWMutex
	keyPath string
	key     []byte
}

// New opens the vault at keyPath, lazily generating and persisting a new
// master key on first use.
func New(keyPath string) (*Vault, error) {
	v := &Vault{keyPath: keyPath}

	key, err := os.ReadFile(keyPath)
	switch {
	case err == nil:
		if len(key) != chacha20poly1305.KeySize {
			return nil, errs.Newf(errs.ErrKindDecryptionFailed,
				"master key file %s has wrong size %d", keyPath, len(key))
		}
		v.key = key
	case os.IsNotExist(err):
		key, err = v.generateAndPersist()
		if err != nil {
			return nil, err
		}
		v.key = key
	default:
		return nil, errs.Wrap(errs.ErrKindPersistenceFailed, "failed to read master key", err)
	}

	return v, nil
}

// Encrypt seals plaintext under the current master key. An empty string
// encrypts to an empty string: absence of a password is not a secret.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	v.mu.RLock()
	key := v.key
	v.mu.RUnlock()

	return sealWith(key, plaintext)
}

// Decrypt opens ciphertext produced by Encrypt. Empty input and the
// redaction marker decrypt to an empty string — the marker is never real
// ciphertext. A corrupt or foreign-key blob returns ErrKindDecryptionFailed.
func (v *Vault) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" || ciphertext == RedactionMarker {
		return "", nil
	}

	v.mu.RLock()
	key := v.key
	v.mu.RUnlock()

	return openWith(key, ciphertext)
}

// Rotate generates a new master key, persists it atomically, and swaps it
// in. It returns a DecryptFunc bound to the retired key so the caller can
// re-encrypt every managed secret before discarding it. If persisting the
// new key fails, the old key stays in effect.
func (v *Vault) Rotate() (DecryptFunc, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	oldKey := v.key

	newKey := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(newKey); err != nil {
		return nil, errs.Wrap(errs.ErrKindPersistenceFailed, "failed to generate master key", err)
	}

	if err := v.persistKey(newKey); err != nil {
		return nil, err
	}
	v.key = newKey

	return func(ciphertext string) (string, error) {
		if ciphertext == "" || ciphertext == RedactionMarker {
			return "", nil
		}
		return openWith(oldKey, ciphertext)
	}, nil
}

// generateAndPersist creates the first master key. Called without the lock
// held only from New, before the vault is shared.
func (v *Vault) generateAndPersist() ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errs.Wrap(errs.ErrKindPersistenceFailed, "failed to generate master key", err)
	}
	if err := v.persistKey(key); err != nil {
		return nil, err
	}
	return key, nil
}

// persistKey writes the key with temp-file-then-rename semantics and
// owner-only permissions where the filesystem supports them.
func (v *Vault) persistKey(key []byte) error {
	dir := filepath.Dir(v.keyPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to create key directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".masterkey-*")
	if err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to create temp key file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(key); err != nil {
		_ = tmp.Close()
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to write master key", err)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to close temp key file", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpName, 0o600); err != nil {
			return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to restrict key permissions", err)
		}
	}

	if err := os.Rename(tmpName, v.keyPath); err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to move master key into place", err)
	}
	return nil
}

// --- cipher primitives ---

func sealWith(key []byte, plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindDecryptionFailed, "failed to build cipher", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errs.Wrap(errs.ErrKindDecryptionFailed, "failed to generate nonce", err)
	}

	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + separator + hex.EncodeToString(sealed), nil
}

func openWith(key []byte, ciphertext string) (string, error) {
	nonceHex, payloadHex, ok := strings.Cut(ciphertext, separator)
	if !ok {
		return "", errs.New(errs.ErrKindDecryptionFailed, "malformed ciphertext: missing nonce")
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindDecryptionFailed, "failed to build cipher", err)
	}

	nonce, err := hex.DecodeString(nonceHex)
	if err != nil || len(nonce) != aead.NonceSize() {
		return "", errs.New(errs.ErrKindDecryptionFailed, "malformed ciphertext: bad nonce")
	}
	payload, err := hex.DecodeString(payloadHex)
	if err != nil {
		return "", errs.New(errs.ErrKindDecryptionFailed, "malformed ciphertext: bad payload")
	}

	plain, err := aead.Open(nil, nonce, payload, nil)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindDecryptionFailed, "ciphertext rejected", err)
	}
	return string(plain), nil
}
