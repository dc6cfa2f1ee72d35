package levelkit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/infinifold/levels/abi"
)

// Handle resolution errors.
var (
	ErrVoidHandle    = errors.New("void handle")
	ErrNullHandle    = errors.New("null handle")
	ErrCrashedHandle = errors.New("handle of a crashed instance")
	ErrStaleHandle   = errors.New("stale handle")
	ErrUnknownHandle = errors.New("unknown handle")
)

type slot[T any] struct {
	value      T
	generation uint32
	used       bool
}

// Slots is a generation-tagged table of level instances. A handle issued by Insert
// stops resolving as soon as its slot is removed, even if the slot is reused.
type Slots[T any] struct {
	mu    sync.Mutex
	slots []slot[T]
	free  []uint32
}

// Insert stores v and returns its handle.
func (s *Slots[T]) Insert(v T) abi.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot[T]{})
	}

	sl := &s.slots[idx]
	sl.generation++
	if sl.generation > abi.MaxGeneration {
		sl.generation = 1
	}
	sl.value = v
	sl.used = true
	return abi.NewHandle(idx, sl.generation)
}

// Get resolves h.
func (s *Slots[T]) Get(h abi.Handle) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, err := s.lookup(h)
	if err != nil {
		var zero T
		return zero, err
	}
	return sl.value, nil
}

// Remove deletes the instance behind h and returns it.
func (s *Slots[T]) Remove(h abi.Handle) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	sl, err := s.lookup(h)
	if err != nil {
		return zero, err
	}
	v := sl.value
	sl.value = zero
	sl.used = false
	s.free = append(s.free, h.Index())
	return v, nil
}

// Len returns the number of live instances.
func (s *Slots[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots) - len(s.free)
}

func (s *Slots[T]) lookup(h abi.Handle) (*slot[T], error) {
	switch {
	case h.IsVoid():
		return nil, ErrVoidHandle
	case h.IsNull():
		return nil, ErrNullHandle
	case h.IsError():
		return nil, ErrCrashedHandle
	case !h.IsLive():
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	idx := h.Index()
	if int(idx) >= len(s.slots) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	sl := &s.slots[idx]
	if !sl.used || sl.generation != h.Generation() {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return sl, nil
}
