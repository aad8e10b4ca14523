package lidar

// maxGridHint caps the preallocation of Grid.
const maxGridHint = 1 << 16

// Grid returns every coordinate of the inclusive rectangle between first and
// second, x outer and y inner. Swapped corners give an empty grid.
func Grid(first, second Coordinate) []Coordinate {

	if Swapped(first, second) {
		return nil
	}

	n := uint64(maxGridHint)
	if w, h := second.X-first.X, second.Y-first.Y; w < maxGridHint && h < maxGridHint && (w+1)*(h+1) < n {
		n = (w + 1) * (h + 1)
	}

	coords := make([]Coordinate, 0, n)

	for x := first.X; ; x++ {

		for y := first.Y; ; y++ {

			coords = append(coords, Coordinate{X: x, Y: y})

			// second may sit at the uint64 limit.
			if y == second.Y {
				break
			}
		}

		if x == second.X {
			break
		}
	}

	return coords
}

// Swapped reports whether the corners describe an empty rectangle.
func Swapped(first, second Coordinate) bool {
	return first.X > second.X || first.Y > second.Y
}
