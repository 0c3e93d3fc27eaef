package member

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory with a mutex per email.
// It backs tests and local runs without infrastructure; it is not durable.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
	locks   map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) keyLock(email string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[email]
	if !ok {
		l = &sync.Mutex{}
		s.locks[email] = l
	}
	return l
}

func (s *MemoryStore) Get(ctx context.Context, email string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[email]
	if !ok {
		return nil, nil
	}
	return rec.clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, email string, fn UpdateFunc) error {
	l := s.keyLock(email)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	var current *Record
	if rec, ok := s.records[email]; ok {
		current = rec.clone()
	}
	s.mu.Unlock()

	updated, err := fn(current)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}

	s.mu.Lock()
	s.records[email] = updated.clone()
	s.mu.Unlock()
	return nil
}
