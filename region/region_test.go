package region

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollection(t *testing.T) {
	c := New[int]()
	require.NoError(t, c.Add("b", 2))
	require.NoError(t, c.Add("a", 1))
	require.NoError(t, c.Add("c", 3))
	require.ErrorIs(t, c.Add("a", 9), ErrExists)

	require.Equal(t, []string{"b", "a", "c"}, c.Names())
	require.Equal(t, 3, c.Len())

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = c.Remove("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
	_, ok = c.Remove("a")
	require.False(t, ok)

	seen := []string{}
	c.Each(func(name string, item int) { seen = append(seen, name) })
	require.Equal(t, []string{"b", "c"}, seen)

	require.Equal(t, []int{2, 3}, c.RemoveAll())
	require.Equal(t, 0, c.Len())
	require.Empty(t, c.Names())
}

func TestEachToleratesRemoval(t *testing.T) {
	c := New[string]()
	require.NoError(t, c.Add("x", "1"))
	require.NoError(t, c.Add("y", "2"))

	seen := []string{}
	c.Each(func(name string, _ string) {
		seen = append(seen, name)
		c.Remove("y")
	})

	require.Equal(t, []string{"x"}, seen)
}
