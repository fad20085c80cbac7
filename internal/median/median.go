// Package median samples a stroke path into a short sequence of integer
// points approximating its trajectory.
package median

import "errors"

const (
	// MinPoints and MaxPoints bound the number of samples per stroke.
	MinPoints = 2
	MaxPoints = 10
)

// Point is an integer coordinate pair, origin top-left, y down. It encodes
// as a two-element JSON array.
type Point [2]int

// Placeholders returned instead of real geometry. They keep a record
// complete and must not be read as stroke positions.
var (
	EmptyPlaceholder   = []Point{{0, 0}, {0, 0}}
	InvalidPlaceholder = []Point{{0, 0}, {1, 1}}
)

// PointCount returns clamp(2*segments, MinPoints, MaxPoints).
func PointCount(segments int) int {
	n := 2 * segments
	if n < MinPoints {
		return MinPoints
	}
	if n > MaxPoints {
		return MaxPoints
	}
	return n
}

// Sample returns the median points for one path string. It never fails; see
// SampleErr for the reason a placeholder was returned.
func Sample(data string) []Point {
	pts, _ := SampleErr(data)
	return pts
}

// SampleErr is Sample that also reports why a placeholder was used. The
// returned points are always valid to emit.
func SampleErr(data string) ([]Point, error) {
	c, err := Parse(data)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return clone(EmptyPlaceholder), err
		}
		return clone(InvalidPlaceholder), err
	}
	return c.Sample(), nil
}

// Sample evaluates the curve at PointCount(c.Segments()) uniformly spaced
// parameters, truncating coordinates toward zero.
func (c *Curve) Sample() []Point {
	n := PointCount(c.Segments())
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		x, y := c.At(t)
		out[i] = Point{int(x), int(y)}
	}
	return out
}

func clone(p []Point) []Point {
	return append([]Point(nil), p...)
}
