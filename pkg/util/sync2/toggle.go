package sync2

import (
	"errors"
	"sync"
)

var (
	ErrToggleNotPrepared = errors.New("not prepared")
)

// Toggle holds a current value and a prepared one. Toggle makes the prepared value current.
type Toggle[T any] struct {
	data     [2]T
	idx      int32
	prepared bool
	lock     sync.RWMutex
}

func NewToggle[T any](o T) *Toggle[T] {
	return &Toggle[T]{
		data: [2]T{o},
	}
}

func (t *Toggle[T]) Current() T {
	t.lock.RLock()
	ret := t.data[t.idx]
	t.lock.RUnlock()
	return ret
}

// SwapOther stores o as the prepared value and returns the value it replaced.
func (t *Toggle[T]) SwapOther(o T) T {
	t.lock.Lock()
	defer t.lock.Unlock()

	tidx := toggleIdx(t.idx)
	origin := t.data[tidx]
	t.data[tidx] = o
	t.prepared = true
	return origin
}

func (t *Toggle[T]) Prepared() bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.prepared
}

// Toggle makes the prepared value current. The previous current value stays in
// the other slot until the next SwapOther.
func (t *Toggle[T]) Toggle() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.prepared {
		return ErrToggleNotPrepared
	}

	t.idx = toggleIdx(t.idx)
	t.prepared = false
	return nil
}

func toggleIdx(idx int32) int32 {
	return (idx + 1) % 2
}
