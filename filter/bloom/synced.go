package bloom

import "sync"

// Synced guards a BloomFilter with a RWMutex so queries run concurrently
// while writers get exclusive access.
type Synced struct {
	mu sync.RWMutex
	bf *BloomFilter
}

// NewSynced takes ownership of bf; callers must not use bf directly afterwards.
func NewSynced(bf *BloomFilter) *Synced {
	return &Synced{bf: bf}
}

func (s *Synced) Insert(data []byte) *Synced {
	s.mu.Lock()
	s.bf.Insert(data)
	s.mu.Unlock()
	return s
}

func (s *Synced) Contains(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bf.Contains(data)
}

func (s *Synced) Clear() *Synced {
	s.mu.Lock()
	s.bf.Clear()
	s.mu.Unlock()
	return s
}

// Union ORs other into the guarded filter. other is read without locking, so
// pass a Snapshot when it is itself shared.
func (s *Synced) Union(other *BloomFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bf.Union(other)
}

// Snapshot returns a private copy of the current filter state.
func (s *Synced) Snapshot() *BloomFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bf.Clone()
}

// Cap and K never change after construction.
func (s *Synced) Cap() uint64 {
	return s.bf.Cap()
}

func (s *Synced) K() uint64 {
	return s.bf.K()
}
