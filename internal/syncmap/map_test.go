package syncmap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup
	for i, name := range []string{"c", "a", "b"} {
		wg.Add(1)
		go func(name string, v int) {
			defer wg.Done()
			m.Set(name, v)
		}(name, i)
	}
	wg.Wait()

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, []int{1, 2, 0}, m.List())

	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = m.Get("d")
	assert.False(t, ok)
}
