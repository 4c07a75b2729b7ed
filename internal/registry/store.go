package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/dbcove/dbcove/internal/errs"
	"github.com/dbcove/dbcove/internal/logger"
	"github.com/dbcove/dbcove/internal/vault"
)

// Store is the in-memory connection registry backed by a single ordered
// JSON file. Mutating operations serialize behind one mutex; reads copy
// under the read lock. The in-memory map is the source of truth for the
// running process — persistence is best-effort per save.
type Store struct {
	mu    sync.RWMutex
	path  string
	vault *vault.Vault
	log   *logger.Logger

	configs map[string]*Config
	order   []string // insertion order, preserved across save/load

	// broken records ids whose stored password failed decryption at Load.
	// The password is treated as absent; VerifySecrets surfaces the error.
	broken map[string]error
}

// NewStore creates a registry persisting to path, encrypting password
// fields through v.
func NewStore(path string, v *vault.Vault, log *logger.Logger) *Store {
	return &Store{
		path:    path,
		vault:   v,
		log:     log,
		configs: make(map[string]*Config),
		broken:  make(map[string]error),
	}
}

// Load reads the persisted collection and decrypts each password into
// memory. Called once at startup. A missing file is an empty registry.
// A record whose password fails decryption loads with no password; the
// failure is recorded for VerifySecrets, not raised.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to read connection store", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "corrupt connection store", err)
	}

	s.configs = make(map[string]*Config, len(records))
	s.order = s.order[:0]
	s.broken = make(map[string]error)

	for _, rec := range records {
		cfg := &Config{
			ID:       rec.ID,
			Name:     rec.Name,
			Engine:   rec.Engine,
			Host:     rec.Host,
			Port:     rec.Port,
			Database: rec.Database,
			Username: rec.Username,
			Options:  rec.Options,
			Version:  rec.Version,
		}
		if rec.LastUsed != nil {
			cfg.LastConnected = *rec.LastUsed
		}

		plain, err := s.vault.Decrypt(rec.Password)
		if err != nil {
			// Swallowed to "no password" here; surfaced by VerifySecrets.
			s.broken[rec.ID] = err
			s.log.With().Str("connection_id", rec.ID).Err(err).Logger().
				Warn("stored password failed decryption, treating as empty")
		}
		cfg.Password = plain

		s.configs[cfg.ID] = cfg
		s.order = append(s.order, cfg.ID)
	}
	return nil
}

// Save writes the full ordered collection, passwords encrypted, with
// temp-file-then-rename semantics. Plaintext never reaches the file.
func (s *Store) Save() error {
	s.mu.RLock()
	records := make([]record, 0, len(s.order))
	for _, id := range s.order {
		cfg, ok := s.configs[id]
		if !ok {
			continue
		}
		enc, err := s.vault.Encrypt(cfg.Password)
		if err != nil {
			s.mu.RUnlock()
			return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to encrypt password", err)
		}
		rec := record{
			ID:       cfg.ID,
			Name:     cfg.Name,
			Engine:   cfg.Engine,
			Host:     cfg.Host,
			Port:     cfg.Port,
			Database: cfg.Database,
			Username: cfg.Username,
			Password: enc,
			Options:  cfg.Options,
			Version:  cfg.Version,
		}
		if !cfg.LastConnected.IsZero() {
			t := cfg.LastConnected
			rec.LastUsed = &t
		}
		records = append(records, rec)
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to encode connection store", err)
	}
	return atomicWrite(s.path, data)
}

// Upsert inserts or replaces a config. New ids append to the persisted
// order; existing ids keep their position (last writer wins on fields).
func (s *Store) Upsert(cfg *Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.configs[cfg.ID]; !exists {
		s.order = append(s.order, cfg.ID)
	}
	s.configs[cfg.ID] = cfg
}

// Remove deletes a config. Returns ErrKindNotFound for an unknown id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.configs[id]; !ok {
		return errs.Newf(errs.ErrKindNotFound, "connection %q not found", id)
	}
	delete(s.configs, id)
	delete(s.broken, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the config for id, or ErrKindNotFound.
func (s *Store) Get(id string) (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[id]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "connection %q not found", id)
	}
	return cfg, nil
}

// All returns every config in persisted order, passwords redacted.
func (s *Store) All() []Redacted {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Redacted, 0, len(s.order))
	for _, id := range s.order {
		if cfg, ok := s.configs[id]; ok {
			out = append(out, cfg.Redact())
		}
	}
	return out
}

// SecretStatus reports the vault integrity of one stored password.
type SecretStatus struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// VerifySecrets reports, per connection, whether the stored password
// decrypted cleanly at Load. This is the explicit integrity check: silent
// corruption swallowed at load time is visible here.
func (s *Store) VerifySecrets() []SecretStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SecretStatus, 0, len(s.order))
	for _, id := range s.order {
		st := SecretStatus{ID: id, OK: true}
		if err, bad := s.broken[id]; bad {
			st.OK = false
			st.Error = err.Error()
		}
		out = append(out, st)
	}
	return out
}

// Rekey rotates the master key and immediately re-encrypts every stored
// password under it by rewriting the store. Secrets live decrypted in
// memory, so no old-key decryption pass is needed; records that failed
// decryption at Load are rewritten with no password.
func (s *Store) Rekey() error {
	if _, err := s.vault.Rotate(); err != nil {
		return err
	}
	return s.Save()
}

// atomicWrite writes data to path via a temp file in the same directory.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to create store directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".connections-*")
	if err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to create temp store file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to write connection store", err)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to close temp store file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to move store into place", err)
	}
	return nil
}
