package store

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"encuestas-local/internal/models"
)

// Status summarizes the persisted document slot for display.
type Status struct {
	Count  int
	SizeKB float64
}

func (st Status) String() string {
	return fmt.Sprintf("Encuestas guardadas: %d. Espacio utilizado: %.2f KB.", st.Count, st.SizeKB)
}

// Store owns the in-memory survey collection and mirrors it into the
// document slot. It is the only writer of that slot; sessions reference
// documents by id only.
type Store struct {
	mu      sync.RWMutex
	slots   SlotStorage
	surveys []*models.Survey
	now     func() time.Time

	subMu       sync.Mutex
	subscribers []func()
}

func New(slots SlotStorage) *Store {
	return &Store{
		slots:   slots,
		surveys: []*models.Survey{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe registers fn to run after every mutation of the collection,
// so dependents (the session manager) can repair dangling references.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := append(([]func())(nil), s.subscribers...)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Load reads the document slot into memory. An absent slot, unreadable
// JSON or a non-array payload is replaced by the built-in default data,
// which is persisted immediately; Load itself never fails fatally.
func (s *Store) Load() error {
	raw, ok, err := s.slots.Get(DocumentSlot)
	if err != nil {
		return err
	}

	seed := func(reason string) error {
		if reason != "" {
			log.Printf("store: %s, restoring default data", reason)
		}
		s.mu.Lock()
		s.surveys = DefaultSurveys(s.now())
		s.mu.Unlock()
		if err := s.Save(); err != nil {
			return err
		}
		s.notify()
		return nil
	}

	if !ok || strings.TrimSpace(raw) == "" {
		return seed("")
	}
	if !strings.HasPrefix(strings.TrimSpace(raw), "[") {
		return seed("document slot does not hold an array")
	}
	var parsed []*models.Survey
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return seed(fmt.Sprintf("document slot is unreadable (%v)", err))
	}
	if parsed == nil {
		parsed = []*models.Survey{}
	}
	s.mu.Lock()
	s.surveys = parsed
	s.mu.Unlock()
	s.notify()
	return nil
}

// Save serializes the collection and overwrites the document slot.
func (s *Store) Save() error {
	s.mu.RLock()
	raw, err := json.Marshal(s.surveys)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return s.slots.Put(DocumentSlot, string(raw))
}

// List returns the documents in store order.
func (s *Store) List() []*models.Survey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Survey(nil), s.surveys...)
}

// Get returns the document with the given id, or nil.
func (s *Store) Get(id string) *models.Survey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sv := range s.surveys {
		if sv.ID == id {
			return sv
		}
	}
	return nil
}

// First returns the first document in store order, or nil when empty.
// Assignment resolution leans on this ordering.
func (s *Store) First() *models.Survey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.surveys) == 0 {
		return nil
	}
	return s.surveys[0]
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.surveys)
}

// Status reports document count and the JSON-encoded size of the slot.
func (s *Store) Status() Status {
	s.mu.RLock()
	raw, err := json.Marshal(s.surveys)
	n := len(s.surveys)
	s.mu.RUnlock()
	if err != nil {
		return Status{Count: n}
	}
	return Status{Count: n, SizeKB: float64(len(raw)) / 1024}
}

// Put inserts doc or replaces the document with the same id, keeping
// store order stable, then persists and notifies subscribers. Validation
// happens in the editor before a document reaches the store.
func (s *Store) Put(doc *models.Survey) error {
	s.mu.Lock()
	replaced := false
	for i, sv := range s.surveys {
		if sv.ID == doc.ID {
			s.surveys[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		s.surveys = append(s.surveys, doc)
	}
	s.mu.Unlock()
	if err := s.Save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Delete removes the document with the given id. Sessions pointing at it
// are repaired by the subscribed session manager.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	kept := s.surveys[:0]
	removed := false
	for _, sv := range s.surveys {
		if sv.ID == id {
			removed = true
			continue
		}
		kept = append(kept, sv)
	}
	s.surveys = kept
	s.mu.Unlock()
	if !removed {
		return false, nil
	}
	if err := s.Save(); err != nil {
		return true, err
	}
	s.notify()
	return true, nil
}

// Replace swaps in a whole new collection (import path).
func (s *Store) Replace(docs []*models.Survey) error {
	if docs == nil {
		docs = []*models.Survey{}
	}
	s.mu.Lock()
	s.surveys = docs
	s.mu.Unlock()
	if err := s.Save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Reset restores the built-in default data.
func (s *Store) Reset() error {
	return s.Replace(DefaultSurveys(s.now()))
}

// Clear drops every document and deletes the slot itself.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.surveys = []*models.Survey{}
	s.mu.Unlock()
	if err := s.slots.Delete(DocumentSlot); err != nil {
		return err
	}
	s.notify()
	return nil
}
