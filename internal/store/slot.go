package store

import "sync"

// Slot keys. The two slots are independent: surveys live in the
// long-lived document slot, the login session in its own shorter-lived
// slot, matching the original localStorage/sessionStorage split.
const (
	DocumentSlot = "encuestas_admin_local_v1"
	SessionSlot  = "encuestas_sesion_usuario"
)

// SlotStorage is the persistence boundary: a flat key-value space of
// JSON text slots. Implementations are best-effort local storage; there
// is no transaction or recovery discipline beyond defaulting on load.
type SlotStorage interface {
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error
	Delete(key string) error
}

// MemorySlots is an in-process SlotStorage for tests and ephemeral runs.
type MemorySlots struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: map[string]string{}}
}

func (m *MemorySlots) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	return v, ok, nil
}

func (m *MemorySlots) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

func (m *MemorySlots) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}
