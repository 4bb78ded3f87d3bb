package splash

import (
	"fmt"
	"sync"
)

// Handle refers to an entry of a ContentStore. The zero Handle is invalid.
// A handle goes stale once its entry is released for the last time, even if
// the slot is later reused for other content.
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether h was ever issued by a store.
func (h Handle) Valid() bool { return h.gen != 0 }

type contentSlot[T any] struct {
	name  string
	value T
	refs  int
	gen   uint32
}

// ContentStore shares loaded assets by name. Each Acquire adds a reference
// and the last Release unloads the asset.
//
// The store is safe for concurrent use so a background import can preload
// files while the library is being built.
type ContentStore[T any] struct {
	mu        sync.Mutex
	load      func(name string) (T, error)
	dispose   func(T)
	slots     []contentSlot[T]
	free      []uint32
	byName    map[string]uint32
	preloaded map[string]T
}

// NewContentStore creates a store that loads entries with load. dispose, if
// not nil, is called when an entry is unloaded.
func NewContentStore[T any](load func(name string) (T, error), dispose func(T)) *ContentStore[T] {
	return &ContentStore[T]{
		load:      load,
		dispose:   dispose,
		byName:    make(map[string]uint32),
		preloaded: make(map[string]T),
	}
}

// SetLoader replaces the load function used for names not yet loaded.
func (s *ContentStore[T]) SetLoader(load func(name string) (T, error)) {
	s.mu.Lock()
	s.load = load
	s.mu.Unlock()
}

// Preload loads name ahead of time without taking a reference. The next
// Acquire of that name uses the preloaded value.
func (s *ContentStore[T]) Preload(name string) error {
	s.mu.Lock()
	_, live := s.byName[name]
	_, ready := s.preloaded[name]
	load := s.load
	s.mu.Unlock()
	if live || ready {
		return nil
	}
	if load == nil {
		return fmt.Errorf("splash: no loader for %q", name)
	}
	v, err := load(name)
	if err != nil {
		return fmt.Errorf("splash: load %q: %w", name, err)
	}
	s.mu.Lock()
	s.preloaded[name] = v
	s.mu.Unlock()
	return nil
}

// Acquire returns a handle to name, loading it on first use.
func (s *ContentStore[T]) Acquire(name string) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byName[name]; ok {
		s.slots[i].refs++
		return Handle{index: i, gen: s.slots[i].gen}, nil
	}

	v, ok := s.preloaded[name]
	if ok {
		delete(s.preloaded, name)
	} else {
		if s.load == nil {
			return Handle{}, fmt.Errorf("splash: no loader for %q", name)
		}
		var err error
		if v, err = s.load(name); err != nil {
			return Handle{}, fmt.Errorf("splash: load %q: %w", name, err)
		}
	}

	var i uint32
	if n := len(s.free); n > 0 {
		i = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, contentSlot[T]{})
		i = uint32(len(s.slots) - 1)
	}
	slot := &s.slots[i]
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	slot.name = name
	slot.value = v
	slot.refs = 1
	s.byName[name] = i
	return Handle{index: i, gen: slot.gen}, nil
}

// Retain adds a reference to a live handle and returns it. Stale or zero
// handles yield the zero Handle.
func (s *ContentStore[T]) Retain(h Handle) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.slot(h)
	if slot == nil {
		return Handle{}
	}
	slot.refs++
	return h
}

// Release drops one reference. The entry is unloaded when none remain.
func (s *ContentStore[T]) Release(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.slot(h)
	if slot == nil {
		return
	}
	slot.refs--
	if slot.refs > 0 {
		return
	}
	if s.dispose != nil {
		s.dispose(slot.value)
	}
	delete(s.byName, slot.name)
	var zero T
	slot.value = zero
	slot.name = ""
	slot.gen++
	s.free = append(s.free, h.index)
}

// Purge unloads the preloaded values that were never acquired and returns
// how many there were.
func (s *ContentStore[T]) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.preloaded)
	for name, v := range s.preloaded {
		if s.dispose != nil {
			s.dispose(v)
		}
		delete(s.preloaded, name)
	}
	return n
}

// Get returns the value behind a live handle.
func (s *ContentStore[T]) Get(h Handle) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot := s.slot(h); slot != nil {
		return slot.value, true
	}
	var zero T
	return zero, false
}

// Refs returns the reference count of name, zero if it is not loaded.
func (s *ContentStore[T]) Refs(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.byName[name]; ok {
		return s.slots[i].refs
	}
	return 0
}

// Len returns the number of loaded entries.
func (s *ContentStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byName)
}

func (s *ContentStore[T]) slot(h Handle) *contentSlot[T] {
	if !h.Valid() || int(h.index) >= len(s.slots) {
		return nil
	}
	slot := &s.slots[h.index]
	if slot.gen != h.gen || slot.refs <= 0 {
		return nil
	}
	return slot
}
