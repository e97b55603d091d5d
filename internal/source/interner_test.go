package source

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// Базовые тесты функциональности

func TestInternerBasic(t *testing.T) {
	interner := NewInterner[string]()

	id1 := interner.Intern("hello")
	if id1 != 0 {
		t.Errorf("первый handle должен быть 0, получили: %d", id1)
	}

	// Повторный Intern той же строки должен вернуть тот же ID
	id2 := interner.Intern("hello")
	if id1 != id2 {
		t.Errorf("Intern должен возвращать одинаковые ID для одинаковых строк: %d != %d", id1, id2)
	}

	if s := interner.Resolve(id1); s != "hello" {
		t.Errorf("Resolve вернул неверную строку: %q", s)
	}

	id3 := interner.Intern("world")
	if id3 == id1 {
		t.Error("Разные строки должны иметь разные ID")
	}
	if interner.Len() != 2 {
		t.Errorf("Len должен быть 2, получили: %d", interner.Len())
	}
}

func TestInternerDensity(t *testing.T) {
	interner := NewInterner[string]()
	values := []string{"a", "b", "a", "c", "b", "d"}
	want := []uint32{0, 1, 0, 2, 1, 3}

	for i, v := range values {
		if got := interner.Intern(v); got != want[i] {
			t.Errorf("Intern(%q) = %d, want %d", v, got, want[i])
		}
	}

	snapshot := interner.Snapshot()
	expected := []string{"a", "b", "c", "d"}
	if len(snapshot) != len(expected) {
		t.Fatalf("Snapshot len = %d, want %d", len(snapshot), len(expected))
	}
	for h, v := range expected {
		if snapshot[h] != v {
			t.Errorf("handle %d = %q, want %q", h, snapshot[h], v)
		}
	}
}

func TestInternerGenericValues(t *testing.T) {
	type key struct {
		path string
		line int
	}
	interner := NewInterner[key]()
	a := interner.Intern(key{"a.dust", 1})
	b := interner.Intern(key{"a.dust", 2})
	again := interner.Intern(key{"a.dust", 1})

	if a != again {
		t.Errorf("equal struct values must share a handle: %d != %d", a, again)
	}
	if a == b {
		t.Error("different struct values must not share a handle")
	}
	if got := interner.Resolve(b); got.line != 2 {
		t.Errorf("Resolve(b) = %+v", got)
	}
}

func TestInternerLookupAndHas(t *testing.T) {
	interner := NewInterner[string]()
	id := interner.Intern("test")

	if !interner.Has(id) {
		t.Error("Has должен возвращать true для валидного ID")
	}
	if interner.Has(9999) {
		t.Error("Has должен возвращать false для несуществующего ID")
	}
	if _, ok := interner.Lookup(9999); ok {
		t.Error("Lookup должен возвращать false для несуществующего ID")
	}
}

func TestInternerResolvePanicsOnUnknownHandle(t *testing.T) {
	interner := NewInterner[string]()
	interner.Intern("only")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Resolve должен паниковать для невалидного ID")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnknownHandle) {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	interner.Resolve(1)
}

func TestInternerSnapshotIsCopy(t *testing.T) {
	interner := NewInterner[string]()
	interner.Intern("hello")

	snapshot := interner.Snapshot()
	snapshot[0] = "modified"
	if s := interner.Resolve(0); s != "hello" {
		t.Error("Изменение snapshot не должно влиять на interner")
	}
}

// Тесты Table

func TestTableConcurrentIntern(t *testing.T) {
	table := NewTable[string]("test table")
	const numGoroutines = 64
	const numStrings = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// Каждая горутина интернирует один и тот же набор строк
	for n := 0; n < numGoroutines; n++ {
		go func() {
			defer wg.Done()
			for i := 0; i < numStrings; i++ {
				table.Intern(fmt.Sprintf("string_%d", i))
			}
		}()
	}
	wg.Wait()

	if table.Len() != numStrings {
		t.Fatalf("Ожидалось %d строк, получили: %d", numStrings, table.Len())
	}

	ids := make(map[uint32]bool)
	for i := 0; i < numStrings; i++ {
		s := fmt.Sprintf("string_%d", i)
		id := table.Intern(s)
		if ids[id] {
			t.Errorf("Дубликат ID для строки %q: %d", s, id)
		}
		ids[id] = true
		if got := table.Resolve(id); got != s {
			t.Errorf("Resolve вернул %q для %q", got, s)
		}
	}
	for id := range ids {
		if int(id) >= numStrings {
			t.Errorf("handle %d is outside the dense range", id)
		}
	}
}

func TestTableTryResolveUnknown(t *testing.T) {
	table := NewTable[string]("symbols")
	table.Intern("x")

	if _, err := table.TryResolve(7); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("TryResolve(7) error = %v, want ErrUnknownHandle", err)
	}
	if table.Poisoned() {
		t.Fatal("a bad read must not poison the table")
	}
}

func TestTablePoisonedAfterPanicInUpdate(t *testing.T) {
	table := NewTable[string]("files")
	table.Intern("a.dust")

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic inside update must propagate")
			}
		}()
		_ = table.update(func(*Interner[string]) { panic("boom") })
	}()

	if !table.Poisoned() {
		t.Fatal("table must be poisoned after a panic under the write lock")
	}
	if _, err := table.TryIntern("b.dust"); !errors.Is(err, ErrPoisoned) {
		t.Errorf("TryIntern error = %v, want ErrPoisoned", err)
	}
	if _, err := table.TryResolve(0); !errors.Is(err, ErrPoisoned) {
		t.Errorf("TryResolve error = %v, want ErrPoisoned", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Intern on a poisoned table must panic")
		}
	}()
	table.Intern("c.dust")
}

func TestTableLockReleasedAfterPanic(t *testing.T) {
	table := NewTable[string]("files")

	func() {
		defer func() { _ = recover() }()
		_ = table.update(func(*Interner[string]) { panic("boom") })
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = table.Len()
	}()
	<-done
}
