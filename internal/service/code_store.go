package service

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

// CodeEntry es un codigo de un solo uso pendiente. Solo se guarda el digest.
type CodeEntry struct {
	CodeHash  string
	UserID    string
	ExpiresAt time.Time
}

// CodeStore guarda codigos pendientes indexados por clave (proposito + email).
// Check resuelve en una sola operacion atomica expiracion, comparacion y,
// si consume es true, el borrado del codigo.
type CodeStore interface {
	Put(ctx context.Context, key string, entry CodeEntry) error
	Check(ctx context.Context, key, codeHash string, consume bool) (CodeEntry, error)
	Delete(ctx context.Context, key string) error
}

const memoryCodeSweepInterval = time.Minute

type memoryCodeStore struct {
	mu    sync.Mutex
	items map[string]CodeEntry
	now   func() time.Time
	swept time.Time
}

// NewMemoryCodeStore crea un store en memoria; los codigos se pierden al reiniciar.
func NewMemoryCodeStore() CodeStore {
	return newMemoryCodeStore(func() time.Time { return time.Now().UTC() })
}

func newMemoryCodeStore(now func() time.Time) *memoryCodeStore {
	return &memoryCodeStore{
		items: make(map[string]CodeEntry),
		now:   now,
	}
}

func (s *memoryCodeStore) Put(_ context.Context, key string, entry CodeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepExpired()
	s.items[key] = entry
	return nil
}

// sweepExpired borra los codigos vencidos que nadie volvio a consultar.
func (s *memoryCodeStore) sweepExpired() {
	now := s.now()
	if now.Sub(s.swept) < memoryCodeSweepInterval {
		return
	}
	s.swept = now
	for key, entry := range s.items {
		if now.After(entry.ExpiresAt) {
			delete(s.items, key)
		}
	}
}

func (s *memoryCodeStore) Check(_ context.Context, key, codeHash string, consume bool) (CodeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[key]
	if !ok {
		return CodeEntry{}, ErrCodeNotFound
	}
	if s.now().After(entry.ExpiresAt) {
		delete(s.items, key)
		return CodeEntry{}, ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(entry.CodeHash), []byte(codeHash)) != 1 {
		return CodeEntry{}, ErrCodeMismatch
	}
	if consume {
		delete(s.items, key)
	}
	return entry, nil
}

func (s *memoryCodeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
