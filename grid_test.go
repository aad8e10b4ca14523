package lidar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {

	got := Grid(Coordinate{1, 1}, Coordinate{2, 2})

	assert.Equal(t, []Coordinate{{1, 1}, {1, 2}, {2, 1}, {2, 2}}, got)
}

func TestGridSize(t *testing.T) {

	for _, tt := range []struct{ a, b, c, d uint64 }{
		{0, 0, 0, 0},
		{510, 510, 74, 74},
		{100, 101, 200, 200},
		{3, 9, 10, 14},
	} {
		coords := Grid(Coordinate{tt.a, tt.c}, Coordinate{tt.b, tt.d})
		require.Len(t, coords, int((tt.b-tt.a+1)*(tt.d-tt.c+1)))

		// x outer, y inner.
		i := 0
		for x := tt.a; x <= tt.b; x++ {
			for y := tt.c; y <= tt.d; y++ {
				assert.Equal(t, Coordinate{x, y}, coords[i])
				i++
			}
		}
	}
}

func TestGridSwapped(t *testing.T) {

	assert.Empty(t, Grid(Coordinate{2, 1}, Coordinate{1, 1}))
	assert.Empty(t, Grid(Coordinate{1, 2}, Coordinate{1, 1}))
	assert.True(t, Swapped(Coordinate{2, 1}, Coordinate{1, 1}))
	assert.False(t, Swapped(Coordinate{1, 1}, Coordinate{1, 1}))
}

func TestGridEdge(t *testing.T) {

	top := uint64(math.MaxUint64)

	got := Grid(Coordinate{top - 1, top}, Coordinate{top, top})

	assert.Equal(t, []Coordinate{{top - 1, top}, {top, top}}, got)
}
