package kvstore

import (
	"context"
	"sync"

	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

var _ repository.CollectionStore = (*MemoryCollectionStore)(nil)

// MemoryCollectionStore colaborador de persistencia en memoria (STORE_DRIVER=memory y tests).
type MemoryCollectionStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
}

// NewMemoryCollectionStore construye un colaborador vacío.
func NewMemoryCollectionStore() *MemoryCollectionStore {
	return &MemoryCollectionStore{data: make(map[string][]byte)}
}

func (m *MemoryCollectionStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryCollectionStore) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	m.saves++
	return nil
}

// Saves número de escrituras realizadas.
func (m *MemoryCollectionStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
