package backend

import (
	"bufio"
	"io"
)

// LineReader hands out only complete newline-terminated lines of its source.
// An unterminated tail is held back and reported as io.EOF until the rest of the
// line arrives, so a parser reading a file that is still being appended to never
// sees a torn line.
type LineReader struct {
	r       *bufio.Reader
	pending []byte
}

var _ io.Reader = (*LineReader)(nil)

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		r: bufio.NewReader(r),
	}
}

// Pending returns the number of bytes of an incomplete line held back so far.
func (l *LineReader) Pending() int {
	return len(l.pending)
}

func (l *LineReader) Read(b []byte) (int, error) {
	if len(l.pending) == 0 || l.pending[len(l.pending)-1] != '\n' {
		data, err := l.r.ReadBytes('\n')
		l.pending = append(l.pending, data...)
		if err != nil {
			return 0, io.EOF
		}
	}
	n := copy(b, l.pending)
	l.pending = l.pending[:copy(l.pending, l.pending[n:])]
	return n, nil
}
