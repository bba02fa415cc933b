package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type box struct {
	id  string
	teu int
}

func isTEU(n int) func(*box) bool {
	return func(b *box) bool { return b.teu == n }
}

func TestFilterStore_GetTakesFirstMatch(t *testing.T) {
	s := NewSimulator()
	fs := NewFilterStore[*box](s, "ready")
	fs.Put(&box{"a", 1})
	fs.Put(&box{"b", 2})
	fs.Put(&box{"c", 2})

	var got *box
	s.Spawn("truck", func(p *Process) { got = fs.Get(p, isTEU(2)) })
	require.NoError(t, s.RunUntil(1))

	require.NotNil(t, got)
	assert.Equal(t, "b", got.id)
	assert.Equal(t, 2, fs.Len())
	assert.Equal(t, 1, fs.Count(isTEU(2)))
}

func TestFilterStore_BlockedWaiterDoesNotBlockOthers(t *testing.T) {
	// GIVEN a waiter that only accepts 2-TEU boxes queued ahead of one that accepts anything
	s := NewSimulator()
	fs := NewFilterStore[*box](s, "ready")
	var first, second *box
	s.Spawn("picky", func(p *Process) { first = fs.Get(p, isTEU(2)) })
	s.Spawn("any", func(p *Process) { second = fs.Get(p, nil) })

	// WHEN a 1-TEU box arrives, then a 2-TEU box
	s.Spawn("producer", func(p *Process) {
		p.Timeout(1)
		fs.Put(&box{"small", 1})
		p.Timeout(1)
		fs.Put(&box{"large", 2})
	})
	require.NoError(t, s.RunUntil(10))

	// THEN each waiter got the first item it accepts
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "large", first.id)
	assert.Equal(t, "small", second.id)
	assert.Equal(t, 0, fs.Waiting())
}

func TestFilterStore_ItemOwnedBySingleGetter(t *testing.T) {
	s := NewSimulator()
	fs := NewFilterStore[*box](s, "ready")
	got := map[string]int{}
	for i := 0; i < 3; i++ {
		s.Spawn("truck", func(p *Process) {
			b := fs.Get(p, nil)
			got[b.id]++
		})
	}
	s.Spawn("producer", func(p *Process) {
		for _, id := range []string{"x", "y", "z"} {
			p.Timeout(1)
			fs.Put(&box{id, 1})
		}
	})
	require.NoError(t, s.RunUntil(10))
	assert.Equal(t, map[string]int{"x": 1, "y": 1, "z": 1}, got)
}

func TestFilterStore_ItemsIsCopy(t *testing.T) {
	s := NewSimulator()
	fs := NewFilterStore[int](s, "ints")
	fs.Put(1)
	fs.Put(2)
	items := fs.Items()
	items[0] = 99
	assert.Equal(t, []int{1, 2}, fs.Items())
}
