package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Interner maps equal values to one dense uint32 handle and back.
// Handles start at 0 and follow first-insertion order; they are never reused.
// Interner is not safe for concurrent use, wrap it in a Table for that.
type Interner[V comparable] struct {
	byID  []V          // handle -> value
	index map[V]uint32 // value -> handle
}

func NewInterner[V comparable]() *Interner[V] {
	return &Interner[V]{
		byID:  make([]V, 0, 64),
		index: make(map[V]uint32, 64),
	}
}

// Intern возвращает handle значения, добавляя его при первом появлении.
func (i *Interner[V]) Intern(v V) uint32 {
	if id, ok := i.index[v]; ok {
		return id
	}

	// переполнение проверяем до любых изменений, чтобы таблица осталась целой
	id, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	i.byID = append(i.byID, v)
	i.index[v] = id
	return id
}

// Resolve returns the value behind h.
// Passing a handle this interner never produced is a programming error and panics.
func (i *Interner[V]) Resolve(h uint32) V {
	v, ok := i.Lookup(h)
	if !ok {
		panic(fmt.Errorf("%w: %d (len %d)", ErrUnknownHandle, h, len(i.byID)))
	}
	return v
}

// Lookup возвращает значение по handle.
// Если handle не валиден, возвращает нулевое значение и false.
func (i *Interner[V]) Lookup(h uint32) (V, bool) {
	if !i.Has(h) {
		var zero V
		return zero, false
	}
	return i.byID[h], true
}

// Has reports whether h was handed out by this interner.
func (i *Interner[V]) Has(h uint32) bool {
	return int(h) < len(i.byID)
}

func (i *Interner[V]) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all values in handle order.
func (i *Interner[V]) Snapshot() []V {
	return slices.Clone(i.byID)
}
