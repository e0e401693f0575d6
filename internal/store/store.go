package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/recraft/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// SecretStore implements domain.SecretStore using BoltDB.
// Each service name maps to one bucket; keys within it hold the secrets.
type SecretStore struct {
	db *bolt.DB
	mu sync.RWMutex

	// Memory-only mode when db is nil
	mem map[string]string
}

var _ domain.SecretStore = (*SecretStore)(nil)

// Open opens (or creates) the secret database at path. An empty path
// returns a memory-only store that forgets everything on Close.
func Open(path string) (*SecretStore, error) {
	if path == "" {
		return &SecretStore{mem: make(map[string]string)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	return &SecretStore{db: db}, nil
}

func (s *SecretStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the secret stored for service/key
func (s *SecretStore) Get(service, key string) (string, error) {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		v, ok := s.mem[memKey(service, key)]
		if !ok {
			return "", domain.ErrSecretNotFound
		}
		return v, nil
	}

	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(service))
		if b == nil {
			return domain.ErrSecretNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return domain.ErrSecretNotFound
		}
		// v is only valid inside the transaction
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", err
		}
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(value), nil
}

// Set stores value for service/key, replacing any previous value
func (s *SecretStore) Set(service, key, value string) error {
	if s.db == nil {
		s.mu.Lock()
		s.mem[memKey(service, key)] = value
		s.mu.Unlock()
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(service))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("write secret: %w", err)
	}
	return nil
}

// Delete removes service/key. Missing keys are not an error.
func (s *SecretStore) Delete(service, key string) error {
	if s.db == nil {
		s.mu.Lock()
		delete(s.mem, memKey(service, key))
		s.mu.Unlock()
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(service))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

func memKey(service, key string) string {
	return service + ":" + key
}
