package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type item struct {
	value int
}

func TestPool(t *testing.T) {
	p := NewPool(
		func() *item { return &item{} },
		func(i *item) { i.value = 0 },
		func(*item) {},
	)

	a := p.Get()
	a.value = 42
	require.Equal(t, uint64(1), p.Allocated())

	p.Put(a, nil)
	require.Equal(t, 0, a.value)
	require.Equal(t, uint64(1), p.Returned())
}
