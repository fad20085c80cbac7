package median

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"cogentcore.org/core/paint/ppath"
	"cogentcore.org/core/paint/ppath/intersect"
)

var (
	// ErrEmpty is returned for path data without any drawable segment.
	ErrEmpty = errors.New("empty path")
	// ErrUnparsable is returned when the path data cannot be parsed.
	ErrUnparsable = errors.New("unparsable path")
	// ErrUnsupported is returned for segment kinds other than lines and
	// quadratic or cubic Béziers, such as elliptical arcs.
	ErrUnsupported = errors.New("unsupported path segment")
)

type point struct {
	X, Y float64
}

func (p point) add(q point) point { return point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p point) lerp(q point, t float64) point {
	return point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// segment is one parametric piece of a curve over t in [0,1].
type segment interface {
	eval(t float64) point
	end() point
}

type line struct{ p0, p1 point }

func (l line) eval(t float64) point { return l.p0.lerp(l.p1, t) }
func (l line) end() point           { return l.p1 }

type quad struct{ p0, p1, p2 point }

func (q quad) eval(t float64) point {
	mt := 1 - t
	return point{
		X: mt*mt*q.p0.X + 2*mt*t*q.p1.X + t*t*q.p2.X,
		Y: mt*mt*q.p0.Y + 2*mt*t*q.p1.Y + t*t*q.p2.Y,
	}
}
func (q quad) end() point { return q.p2 }

type cubic struct{ p0, p1, p2, p3 point }

func (c cubic) eval(t float64) point {
	mt := 1 - t
	mt2, t2 := mt*mt, t*t
	return point{
		X: mt2*mt*c.p0.X + 3*mt2*t*c.p1.X + 3*mt*t2*c.p2.X + t2*t*c.p3.X,
		Y: mt2*mt*c.p0.Y + 3*mt2*t*c.p1.Y + 3*mt*t2*c.p2.Y + t2*t*c.p3.Y,
	}
}
func (c cubic) end() point { return c.p3 }

// Curve is a path parsed into chained segments, parameterized over [0,1].
// Each segment owns a share of the parameter range proportional to its
// length.
type Curve struct {
	segs []segment
	// bounds[i] is the global parameter at which segment i starts;
	// bounds[len(segs)] == 1.
	bounds []float64
}

// Parse converts path data into a Curve with one segment per drawing command:
// M and m start a subpath, L H V C S Q T (and lowercase) add lines and
// Béziers, Z adds the closing line unless the pen is already at the start.
// Zero-length and collinear segments are kept as written. Arcs are rejected
// with ErrUnsupported.
func Parse(data string) (*Curve, error) {
	if strings.TrimSpace(data) == "" {
		return nil, ErrEmpty
	}
	var b builder
	l := &pathLexer{b: []byte(data)}
	for first := true; ; first = false {
		cmd, err := l.command()
		if err != nil {
			return nil, err
		}
		if cmd == 0 {
			break
		}
		upper := cmd &^ 0x20
		if first && upper != 'M' {
			return nil, fmt.Errorf("%w: path must start with a moveto", ErrUnparsable)
		}
		switch upper {
		case 'Z':
			b.close()
			continue
		case 'A':
			return nil, fmt.Errorf("%w: elliptical arc", ErrUnsupported)
		case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T':
		default:
			return nil, fmt.Errorf("%w: unknown command %q", ErrUnparsable, cmd)
		}
		rel := cmd != upper
		for n := 0; n == 0 || l.more(); n++ {
			if err := b.args(l, upper, rel, n); err != nil {
				return nil, err
			}
		}
	}
	if len(b.segs) == 0 {
		return nil, ErrEmpty
	}
	return &Curve{segs: b.segs, bounds: cumulative(b.lengths)}, nil
}

// builder accumulates segments and the pen state while parsing.
type builder struct {
	segs    []segment
	lengths []float64
	cur     point
	start   point
	// ctrl is the last Bézier control point, reflected by S and T.
	ctrl point
	last byte
}

// args reads the n-th argument group of a command and appends its segment.
func (b *builder) args(l *pathLexer, cmd byte, rel bool, n int) error {
	var origin point
	if rel {
		origin = b.cur
	}
	switch cmd {
	case 'M':
		p, err := l.point()
		if err != nil {
			return err
		}
		p = p.add(origin)
		if n > 0 {
			// Extra pairs after a moveto are implicit linetos.
			b.line(p)
			return nil
		}
		b.cur, b.start, b.last = p, p, 'M'
	case 'L':
		p, err := l.point()
		if err != nil {
			return err
		}
		b.line(p.add(origin))
	case 'H':
		x, err := l.number()
		if err != nil {
			return err
		}
		b.line(point{X: x + origin.X, Y: b.cur.Y})
	case 'V':
		y, err := l.number()
		if err != nil {
			return err
		}
		b.line(point{X: b.cur.X, Y: y + origin.Y})
	case 'C', 'S':
		var cp1 point
		if cmd == 'S' {
			cp1 = b.reflect('C', 'S')
		} else {
			p, err := l.point()
			if err != nil {
				return err
			}
			cp1 = p.add(origin)
		}
		cp2, err := l.point()
		if err != nil {
			return err
		}
		end, err := l.point()
		if err != nil {
			return err
		}
		b.cubic(cp1, cp2.add(origin), end.add(origin), cmd)
	case 'Q', 'T':
		var cp point
		if cmd == 'T' {
			cp = b.reflect('Q', 'T')
		} else {
			p, err := l.point()
			if err != nil {
				return err
			}
			cp = p.add(origin)
		}
		end, err := l.point()
		if err != nil {
			return err
		}
		b.quad(cp, end.add(origin), cmd)
	}
	return nil
}

// reflect returns the implied first control point of a smooth Bézier.
func (b *builder) reflect(kinds ...byte) point {
	for _, k := range kinds {
		if b.last == k {
			return point{X: 2*b.cur.X - b.ctrl.X, Y: 2*b.cur.Y - b.ctrl.Y}
		}
	}
	return b.cur
}

func (b *builder) line(p point) {
	b.segs = append(b.segs, line{b.cur, p})
	b.lengths = append(b.lengths, math.Hypot(p.X-b.cur.X, p.Y-b.cur.Y))
	b.cur, b.last = p, 'L'
}

func (b *builder) quad(cp, end point, cmd byte) {
	b.segs = append(b.segs, quad{b.cur, cp, end})
	p := ppath.New()
	p.MoveTo(float32(b.cur.X), float32(b.cur.Y))
	p.QuadTo(float32(cp.X), float32(cp.Y), float32(end.X), float32(end.Y))
	b.lengths = append(b.lengths, float64(intersect.Length(*p)))
	b.cur, b.ctrl, b.last = end, cp, cmd
}

func (b *builder) cubic(cp1, cp2, end point, cmd byte) {
	b.segs = append(b.segs, cubic{b.cur, cp1, cp2, end})
	p := ppath.New()
	p.MoveTo(float32(b.cur.X), float32(b.cur.Y))
	p.CubeTo(float32(cp1.X), float32(cp1.Y), float32(cp2.X), float32(cp2.Y), float32(end.X), float32(end.Y))
	b.lengths = append(b.lengths, float64(intersect.Length(*p)))
	b.cur, b.ctrl, b.last = end, cp2, cmd
}

func (b *builder) close() {
	if b.cur != b.start {
		b.line(b.start)
	}
	b.cur, b.last = b.start, 'Z'
}

// cumulative turns segment lengths into normalized start parameters. When
// the total length is zero every segment gets an equal share.
func cumulative(lengths []float64) []float64 {
	total := 0.0
	for _, l := range lengths {
		total += l
	}
	bounds := make([]float64, len(lengths)+1)
	for i, l := range lengths {
		share := 1 / float64(len(lengths))
		if total > 0 {
			share = l / total
		}
		bounds[i+1] = bounds[i] + share
	}
	bounds[len(lengths)] = 1
	return bounds
}

// Segments returns the number of drawable segments.
func (c *Curve) Segments() int { return len(c.segs) }

// At evaluates the curve at global parameter t, clamped to [0,1].
func (c *Curve) At(t float64) (x, y float64) {
	last := len(c.segs) - 1
	if t >= 1 {
		p := c.segs[last].end()
		return p.X, p.Y
	}
	if t < 0 {
		t = 0
	}
	i := 0
	for i < last && t >= c.bounds[i+1] {
		i++
	}
	local := 0.0
	if span := c.bounds[i+1] - c.bounds[i]; span > 0 {
		local = (t - c.bounds[i]) / span
	}
	if local > 1 {
		local = 1
	}
	p := c.segs[i].eval(local)
	return p.X, p.Y
}
