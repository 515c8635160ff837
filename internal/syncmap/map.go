package syncmap

import (
	"sort"
	"sync"
)

// Map is a thread-safe generic map keyed by name
type Map[T any] struct {
	mux sync.RWMutex
	m   map[string]T
}

// New creates an empty Map
func New[T any]() *Map[T] {
	return &Map[T]{m: make(map[string]T)}
}

// Get returns the value stored under name and whether it was present
func (r *Map[T]) Get(name string) (T, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	v, ok := r.m[name]
	return v, ok
}

// Set adds or replaces the value stored under name
func (r *Map[T]) Set(name string, value T) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.m[name] = value
}

// Keys returns all names in ascending order
func (r *Map[T]) Keys() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	keys := make([]string, 0, len(r.m))
	for k := range r.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns values ordered by key
func (r *Map[T]) List() []T {
	keys := r.Keys()
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]T, 0, len(keys))
	for _, k := range keys {
		if v, ok := r.m[k]; ok {
			ret = append(ret, v)
		}
	}
	return ret
}
