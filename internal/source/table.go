package source

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrUnknownHandle is reported for handles a table never produced.
	ErrUnknownHandle = errors.New("unknown handle")
	// ErrPoisoned is reported once a panic escaped while a table was being updated.
	ErrPoisoned = errors.New("interning table poisoned")
)

// Table is an Interner guarded for concurrent use.
//
// Reads share an RWMutex read lock; inserts take the write lock. If anything
// panics while the write lock is held the table is marked poisoned: the panic
// is re-raised and every later access fails (Intern/Resolve panic, the Try
// variants return ErrPoisoned). Consistency wins over availability here.
type Table[V comparable] struct {
	name     string
	mu       sync.RWMutex
	inner    *Interner[V]
	poisoned atomic.Bool
}

// NewTable creates an empty table; name only shows up in panic messages.
func NewTable[V comparable](name string) *Table[V] {
	return &Table[V]{
		name:  name,
		inner: NewInterner[V](),
	}
}

// Intern returns the handle for v, adding v on first sight.
func (t *Table[V]) Intern(v V) uint32 {
	id, err := t.TryIntern(v)
	if err != nil {
		panic(err)
	}
	return id
}

// TryIntern is Intern with the poisoned state reported as an error.
func (t *Table[V]) TryIntern(v V) (uint32, error) {
	if t.poisoned.Load() {
		return 0, t.poisonErr()
	}

	// быстрый путь: значение уже есть
	t.mu.RLock()
	id, ok := t.inner.index[v]
	t.mu.RUnlock()
	if ok {
		return id, nil
	}

	err := t.update(func(in *Interner[V]) {
		id = in.Intern(v)
	})
	return id, err
}

// Resolve returns the value behind h and panics for foreign or out-of-range handles.
func (t *Table[V]) Resolve(h uint32) V {
	v, err := t.TryResolve(h)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve returns ErrUnknownHandle or ErrPoisoned instead of panicking.
func (t *Table[V]) TryResolve(h uint32) (V, error) {
	var zero V
	if t.poisoned.Load() {
		return zero, t.poisonErr()
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.inner.Lookup(h)
	if !ok {
		return zero, fmt.Errorf("%s: %w: %d (len %d)", t.name, ErrUnknownHandle, h, t.inner.Len())
	}
	return v, nil
}

// Len returns the number of interned values.
func (t *Table[V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.inner.Len()
}

// Snapshot returns a copy of all values in handle order.
func (t *Table[V]) Snapshot() []V {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.inner.Snapshot()
}

// Poisoned reports whether an update panicked.
func (t *Table[V]) Poisoned() bool {
	return t.poisoned.Load()
}

// update runs fn under the write lock. A panic inside fn poisons the table.
func (t *Table[V]) update(fn func(*Interner[V])) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.poisoned.Load() {
		return t.poisonErr()
	}
	defer func() {
		if r := recover(); r != nil {
			t.poisoned.Store(true)
			panic(r)
		}
	}()
	fn(t.inner)
	return nil
}

func (t *Table[V]) poisonErr() error {
	return fmt.Errorf("%s: %w", t.name, ErrPoisoned)
}
