package grid

import (
	"errors"
	"testing"

	"github.com/milk9111/ogmo/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFillsDefault(t *testing.T) {
	cases := []struct {
		name string
		g    *Grid[int]
		size common.Point
	}{
		{"dims", New(4, 3, 7), common.Point{X: 4, Y: 3}},
		{"extent", NewFromExtent(common.Point{X: 2, Y: 5}, 7), common.Point{X: 2, Y: 5}},
		{"negative_clamps", New(-1, 2, 7), common.Point{X: 0, Y: 2}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.size, c.g.Size())
			for y := 0; y < c.size.Y; y++ {
				for x := 0; x < c.size.X; x++ {
					assert.Equal(t, 7, c.g.Get(x, y), "cell (%d,%d)", x, y)
				}
			}
		})
	}
}

func TestBounds(t *testing.T) {
	g := New(3, 2, "-")
	outside := []common.Point{
		{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 3, Y: 0}, {X: 0, Y: 2}, {X: 3, Y: 2}, {X: 100, Y: -100},
	}

	for _, p := range outside {
		assert.Equal(t, "-", g.Get(p.X, p.Y), "get %v", p)

		err := g.Set(p.X, p.Y, "x")
		require.Error(t, err, "set %v", p)
		assert.True(t, errors.Is(err, ErrOutOfBounds))

		var oob *OutOfBoundsError
		require.True(t, errors.As(err, &oob))
		assert.Equal(t, p.X, oob.X)
		assert.Equal(t, p.Y, oob.Y)
		assert.Equal(t, common.Point{X: 3, Y: 2}, oob.Size)
	}

	require.NoError(t, g.Set(2, 1, "x"))
	assert.Equal(t, "x", g.Get(2, 1))
}

func TestSetDataRowWrap(t *testing.T) {
	g := New(3, 2, 0)
	require.NoError(t, g.SetData([]int{1, 2, 3, 4, 5, 6}))

	want := map[common.Point]int{
		{X: 0, Y: 0}: 1, {X: 1, Y: 0}: 2, {X: 2, Y: 0}: 3,
		{X: 0, Y: 1}: 4, {X: 1, Y: 1}: 5, {X: 2, Y: 1}: 6,
	}
	for p, v := range want {
		assert.Equal(t, v, g.Get(p.X, p.Y), "cell %v", p)
	}
}

func TestSetDataLengthMismatch(t *testing.T) {
	t.Run("short_keeps_defaults", func(t *testing.T) {
		g := New(3, 2, -1)
		require.NoError(t, g.SetData([]int{1, 2, 3, 4}))
		assert.Equal(t, []int{1, 2, 3, 4, -1, -1}, g.Values())
	})

	t.Run("excess_fails", func(t *testing.T) {
		g := New(2, 2, 0)
		err := g.SetData([]int{1, 2, 3, 4, 5})
		require.ErrorIs(t, err, ErrOutOfBounds)

		var oob *OutOfBoundsError
		require.ErrorAs(t, err, &oob)
		assert.Equal(t, 0, oob.X)
		assert.Equal(t, 2, oob.Y)
		assert.Equal(t, []int{1, 2, 3, 4}, g.Values())
	})

	t.Run("zero_width", func(t *testing.T) {
		g := New(0, 3, 0)
		require.ErrorIs(t, g.SetData([]int{1}), ErrOutOfBounds)
		require.NoError(t, g.SetData(nil))
	})
}

func TestContents(t *testing.T) {
	g := New(4, 3, 0)
	flat := []int{10, 11, 12, 13, 20, 21, 22, 23, 30, 31, 32, 33}
	require.NoError(t, g.SetData(flat))

	seen := make(map[common.Point]bool)
	var values []int
	for c := range g.Contents() {
		p := common.Point{X: c.X, Y: c.Y}
		require.False(t, seen[p], "duplicate cell %v", p)
		seen[p] = true
		assert.Equal(t, g.Get(c.X, c.Y), c.Value)
		values = append(values, c.Value)
	}
	assert.Len(t, seen, g.Size().Area())
	assert.Equal(t, flat, values)

	// a second traversal starts over
	var again []int
	for c := range g.Contents() {
		again = append(again, c.Value)
	}
	assert.Equal(t, flat, again)
}

func TestContentsEarlyStop(t *testing.T) {
	g := New(5, 5, 1)
	n := 0
	for range g.Contents() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestNilGrid(t *testing.T) {
	var g *Grid[string]
	assert.Equal(t, "", g.Get(0, 0))
	assert.ErrorIs(t, g.Set(0, 0, "a"), ErrOutOfBounds)
	assert.NoError(t, g.SetData(nil))
	for range g.Contents() {
		t.Fatalf("nil grid should yield nothing")
	}
}
