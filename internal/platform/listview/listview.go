// Package listview implements the fetch-once list with a debounced,
// case-insensitive substring filter shared by the patient and user views.
package listview

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrBusy is returned when a delete is requested while another one is still
// in flight.
var ErrBusy = errors.New("hay una operación en curso")

// View holds the full collection and a derived filtered projection. The
// match function decides whether an item matches a lowercased search term;
// the key function identifies an item for removal from both slices.
type View[T any] struct {
	mu       sync.Mutex
	items    []T
	filtered []T
	match    func(item T, term string) bool
	key      func(item T) string
	debounce time.Duration
	timer    *time.Timer
	pending  string
	applied  string
	busy     bool
}

func New[T any](match func(T, string) bool, key func(T) string, debounce time.Duration) *View[T] {
	return &View[T]{match: match, key: key, debounce: debounce}
}

// Load fetches the collection once and resets the filter.
func (v *View[T]) Load(fetch func() ([]T, error)) error {
	items, err := fetch()
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = items
	v.filtered = append([]T(nil), items...)
	v.applied = ""
	v.pending = ""
	return nil
}

// Search schedules a filter recomputation after the debounce delay. Rapid
// successive calls collapse into one recomputation; re-searching the value
// already applied is a no-op.
func (v *View[T]) Search(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pending = query
	if v.timer != nil {
		v.timer.Stop()
	}
	if v.debounce == 0 {
		v.applyLocked(query)
		return
	}
	v.timer = time.AfterFunc(v.debounce, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.applyLocked(v.pending)
	})
}

// Flush applies any pending search immediately, without waiting for the
// debounce timer. Views call it before rendering.
func (v *View[T]) Flush() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.timer != nil {
		v.timer.Stop()
	}
	v.applyLocked(v.pending)
}

func (v *View[T]) applyLocked(query string) {
	if query == v.applied {
		return
	}
	v.applied = query

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		v.filtered = append([]T(nil), v.items...)
		return
	}

	filtered := make([]T, 0, len(v.items))
	for _, item := range v.items {
		if v.match(item, term) {
			filtered = append(filtered, item)
		}
	}
	v.filtered = filtered
}

// Items returns the full collection.
func (v *View[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.items...)
}

// Filtered returns the current filtered projection.
func (v *View[T]) Filtered() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.filtered...)
}

// Delete removes the item at the given index of the filtered projection.
// The confirm callback is asked first: declined means no request is issued
// and the collection stays untouched. On success the item is removed from
// both the full and filtered collections without a reload.
func (v *View[T]) Delete(index int, confirm func(T) bool, remove func(T) error) (bool, error) {
	v.mu.Lock()
	if v.busy {
		v.mu.Unlock()
		return false, ErrBusy
	}
	if index < 0 || index >= len(v.filtered) {
		v.mu.Unlock()
		return false, errors.New("índice fuera de rango")
	}
	item := v.filtered[index]
	v.busy = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.busy = false
		v.mu.Unlock()
	}()

	if !confirm(item) {
		return false, nil
	}
	if err := remove(item); err != nil {
		return false, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	key := v.key(item)
	v.items = removeByKey(v.items, v.key, key)
	v.filtered = removeByKey(v.filtered, v.key, key)
	return true, nil
}

func removeByKey[T any](items []T, key func(T) string, k string) []T {
	out := items[:0]
	for _, item := range items {
		if key(item) != k {
			out = append(out, item)
		}
	}
	return out
}
