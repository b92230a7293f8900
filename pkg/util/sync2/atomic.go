package sync2

import "sync/atomic"

// AtomicBool is a bool that can be read and written atomically.
type AtomicBool struct {
	v int32
}

func NewAtomicBool(b bool) AtomicBool {
	var ab AtomicBool
	ab.Set(b)
	return ab
}

func (b *AtomicBool) Set(v bool) {
	atomic.StoreInt32(&b.v, boolToInt32(v))
}

func (b *AtomicBool) Get() bool {
	return atomic.LoadInt32(&b.v) == 1
}

// CompareAndSwap sets the value to n if it currently equals o, and reports whether it did.
func (b *AtomicBool) CompareAndSwap(o, n bool) bool {
	return atomic.CompareAndSwapInt32(&b.v, boolToInt32(o), boolToInt32(n))
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
