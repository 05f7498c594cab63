package engine

import "sync"

// SymbolIndex maps symbol names to dense uint32 ids and back.
// Entries are append-only; ids equal insertion order and are never
// reused. Name strings are immutable, so references handed out in
// trades stay valid for the index's lifetime.
//
// The guard exists for the async setup, where the producer resolves
// symbols while the worker reads names during lazy book creation.
type SymbolIndex struct {
	mu    sync.RWMutex
	ids   map[string]uint32
	names []string
}

func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		ids: make(map[string]uint32),
	}
}

// GetOrCreate returns the id for name, appending a new entry on
// first sight.
func (s *SymbolIndex) GetOrCreate(name string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ids[name]; ok {
		return id
	}
	id := uint32(len(s.names))
	s.names = append(s.names, name)
	s.ids[name] = id
	return id
}

// Find is a read-only lookup.
func (s *SymbolIndex) Find(name string) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[name]
	return id, ok
}

// Name returns the canonical name for a known id.
func (s *SymbolIndex) Name(id uint32) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names[id]
}

func (s *SymbolIndex) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}
