package splash

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"
)

type countingLoader struct {
	loads    atomic.Int32
	disposed []string
	mu       sync.Mutex
}

func (c *countingLoader) load(name string) (string, error) {
	c.loads.Add(1)
	if name == "broken" {
		return "", errBroken
	}
	return "data:" + name, nil
}

func (c *countingLoader) dispose(v string) {
	c.mu.Lock()
	c.disposed = append(c.disposed, v)
	c.mu.Unlock()
}

var errBroken = errors.New("broken asset")

func newCountingStore() (*ContentStore[string], *countingLoader) {
	c := &countingLoader{}
	return NewContentStore(c.load, c.dispose), c
}

func TestContentStoreSharesByName(t *testing.T) {
	s, c := newCountingStore()
	h1, err := s.Acquire("a.png")
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := s.Acquire("a.png")
	if h1 != h2 {
		t.Errorf("handles differ: %v %v", h1, h2)
	}
	if c.loads.Load() != 1 || s.Refs("a.png") != 2 {
		t.Errorf("loads = %d refs = %d", c.loads.Load(), s.Refs("a.png"))
	}
	if v, ok := s.Get(h1); !ok || v != "data:a.png" {
		t.Errorf("Get = %q %v", v, ok)
	}

	s.Release(h1)
	if s.Len() != 1 {
		t.Fatal("entry unloaded while referenced")
	}
	s.Release(h2)
	if s.Len() != 0 || len(c.disposed) != 1 {
		t.Errorf("len = %d disposed = %v", s.Len(), c.disposed)
	}
	if _, ok := s.Get(h1); ok {
		t.Error("released handle should be stale")
	}
}

func TestContentStoreStaleHandleAfterReuse(t *testing.T) {
	s, _ := newCountingStore()
	old, _ := s.Acquire("a")
	s.Release(old)
	fresh, _ := s.Acquire("b")

	if fresh.index != old.index {
		t.Fatalf("slot not reused: %d vs %d", fresh.index, old.index)
	}
	if fresh == old {
		t.Fatal("reused slot must get a new generation")
	}
	if _, ok := s.Get(old); ok {
		t.Error("stale handle resolved")
	}
	if s.Retain(old).Valid() {
		t.Error("Retain of a stale handle should return the zero handle")
	}
	s.Release(old) // no-op
	if s.Refs("b") != 1 {
		t.Errorf("refs(b) = %d, stale release touched it", s.Refs("b"))
	}
}

func TestContentStoreRetain(t *testing.T) {
	s, _ := newCountingStore()
	h, _ := s.Acquire("a")
	if got := s.Retain(h); got != h {
		t.Errorf("Retain = %v, want %v", got, h)
	}
	if s.Refs("a") != 2 {
		t.Errorf("refs = %d, want 2", s.Refs("a"))
	}
	if (Handle{}).Valid() || s.Retain(Handle{}).Valid() {
		t.Error("zero handle must stay invalid")
	}
}

func TestContentStoreErrors(t *testing.T) {
	s, _ := newCountingStore()
	if _, err := s.Acquire("broken"); !errors.Is(err, errBroken) {
		t.Errorf("Acquire err = %v", err)
	}
	if err := s.Preload("broken"); !errors.Is(err, errBroken) {
		t.Errorf("Preload err = %v", err)
	}

	empty := NewContentStore[string](nil, nil)
	if _, err := empty.Acquire("x"); err == nil {
		t.Error("store without loader should fail")
	}
}

func TestContentStorePreloadIsUsedOnce(t *testing.T) {
	s, c := newCountingStore()
	for range 3 {
		if err := s.Preload("a"); err != nil {
			t.Fatal(err)
		}
	}
	if c.loads.Load() != 1 {
		t.Fatalf("loads = %d, want 1", c.loads.Load())
	}
	if s.Len() != 0 {
		t.Error("preload must not take a reference")
	}
	h, _ := s.Acquire("a")
	if c.loads.Load() != 1 {
		t.Error("Acquire reloaded a preloaded entry")
	}
	if v, _ := s.Get(h); v != "data:a" {
		t.Errorf("value = %q", v)
	}
}

func TestContentStoreConcurrentPreload(t *testing.T) {
	s, c := newCountingStore()
	var g errgroup.Group
	g.SetLimit(4)
	for i := range 32 {
		name := fmt.Sprintf("tile%02d.png", i%8)
		g.Go(func() error { return s.Preload(name) })
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if n := c.loads.Load(); n < 8 || n > 32 {
		t.Errorf("loads = %d", n)
	}
	for i := range 8 {
		if _, err := s.Acquire(fmt.Sprintf("tile%02d.png", i)); err != nil {
			t.Fatal(err)
		}
	}
	if s.Len() != 8 {
		t.Errorf("len = %d, want 8", s.Len())
	}
}
