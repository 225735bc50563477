package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

// ErrNotFound is returned by Load when a key has never been saved.
var ErrNotFound = errors.New("save not found")

// Store is a key-value store of snapshots.
type Store interface {
	Load(ctx context.Context, key string) (Snapshot, error)
	Save(ctx context.Context, key string, s Snapshot) error
}

// FileStore keeps one YAML file per key in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".yaml")
}

func (f *FileStore) Load(_ context.Context, key string) (Snapshot, error) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return Snapshot{}, fmt.Errorf("read save %s: %w", key, err)
	}
	return Decode(b)
}

// Save writes to a temp file and renames it over the old save.
func (f *FileStore) Save(_ context.Context, key string, s Snapshot) error {
	b, err := Encode(s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write save %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close save %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("replace save %s: %w", key, err)
	}
	return nil
}

// MemoryStore keeps snapshots in memory; used by tests and the simulator.
type MemoryStore struct {
	mu    sync.RWMutex
	saves map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{saves: make(map[string]Snapshot)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.saves[key]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[key] = s
	return nil
}
