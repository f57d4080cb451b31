package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

var _ repository.SessionStore = (*Memory)(nil)

type memEntry struct {
	raw     []byte
	expires time.Time
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Memory almacén en proceso. Cada Get devuelve una copia independiente.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memEntry
	now  func() time.Time
}

// NewMemory crea el almacén en memoria.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]memEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, id string) (*entity.Session, error) {
	m.mu.RLock()
	e, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if e.expired(m.now()) {
		m.mu.Lock()
		if cur, ok := m.data[id]; ok && cur.expired(m.now()) {
			delete(m.data, id)
		}
		m.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	s := new(entity.Session)
	if err := json.Unmarshal(e.raw, s); err != nil {
		return nil, fmt.Errorf("sessionstore: deserializar sesión: %w", err)
	}
	return s, nil
}

// Put ttl <= 0 no expira.
func (m *Memory) Put(_ context.Context, s *entity.Session, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("sessionstore: serializar sesión: %w", err)
	}
	e := memEntry{raw: raw}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[s.ID] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.data, id)
	m.mu.Unlock()
	return nil
}

// PurgeExpired borra las sesiones vencidas y devuelve cuántas eran.
func (m *Memory) PurgeExpired(_ context.Context) (int64, error) {
	now := m.now()
	var n int64
	m.mu.Lock()
	for id, e := range m.data {
		if e.expired(now) {
			delete(m.data, id)
			n++
		}
	}
	m.mu.Unlock()
	return n, nil
}

// Len sesiones guardadas; las vencidas cuentan hasta que se leen o se purgan.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
