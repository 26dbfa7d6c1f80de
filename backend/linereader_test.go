package backend

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func expectToRead(t *testing.T, reader io.Reader, expected []byte) {
	t.Helper()
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	if assert.NoError(t, err) {
		assert.Equal(t, string(expected), string(scratch[:n]))
	}
}

func expectReadEOF(t *testing.T, reader io.Reader) {
	t.Helper()
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n, "read %q", scratch[:n])
}

func TestLineReader(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	buf.WriteString("hello\n")
	buf.WriteString("there\n")
	l := NewLineReader(buf)
	expectToRead(t, l, []byte("hello\n"))
	expectToRead(t, l, []byte("there\n"))
	third := "unterminated"
	buf.WriteString(third)
	expectReadEOF(t, l)
	assert.Equal(t, len(third), l.Pending())
	fourth := "line\n"
	buf.WriteString(fourth)
	expectToRead(t, l, []byte(third+fourth))
	buf.WriteString("foo")
	expectReadEOF(t, l)
	buf.WriteString("bar")
	expectReadEOF(t, l)
	buf.WriteString("bin\nbaz")
	expectToRead(t, l, []byte("foobarbin\n"))
}

func TestLineReaderShortBuffer(t *testing.T) {
	const line = "BenchmarkEncode/label=JSON/mb=1 1 2 ns/op\n"
	l := NewLineReader(bytes.NewBufferString(line))
	var out []byte
	scratch := make([]byte, 7)
	for {
		n, err := l.Read(scratch)
		out = append(out, scratch[:n]...)
		if err != nil {
			break
		}
	}
	assert.Equal(t, line, string(out), "line is delivered across reads")
	assert.Zero(t, l.Pending())
}
