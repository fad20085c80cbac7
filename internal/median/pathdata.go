package median

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"
)

// pathLexer reads SVG path data one command letter or number at a time.
// It does not rewrite the path: every command yields the segments it names.
type pathLexer struct {
	b []byte
	i int
}

func (l *pathLexer) skipSep() {
	for l.i < len(l.b) && (parse.IsWhitespace(l.b[l.i]) || l.b[l.i] == ',') {
		l.i++
	}
}

// command returns the next command letter, or 0 at the end of the data.
func (l *pathLexer) command() (byte, error) {
	l.skipSep()
	if l.i >= len(l.b) {
		return 0, nil
	}
	c := l.b[l.i]
	if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
		return 0, fmt.Errorf("%w: expected command at offset %d", ErrUnparsable, l.i)
	}
	l.i++
	return c, nil
}

// more reports whether another argument follows before the next command.
func (l *pathLexer) more() bool {
	l.skipSep()
	if l.i >= len(l.b) {
		return false
	}
	c := l.b[l.i]
	return c == '-' || c == '+' || c == '.' || '0' <= c && c <= '9'
}

func (l *pathLexer) number() (float64, error) {
	l.skipSep()
	f, n := strconv.ParseFloat(l.b[l.i:])
	if n == 0 {
		return 0, fmt.Errorf("%w: expected number at offset %d", ErrUnparsable, l.i)
	}
	l.i += n
	return f, nil
}

func (l *pathLexer) point() (point, error) {
	x, err := l.number()
	if err != nil {
		return point{}, err
	}
	y, err := l.number()
	if err != nil {
		return point{}, err
	}
	return point{X: x, Y: y}, nil
}
