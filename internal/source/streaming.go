package source

// streaming.go wraps raw CSV byte streams before they reach encoding/csv:
//
//   - bomSkipper drops a leading UTF-8 BOM written by spreadsheet exports
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?'
//   - CountingReader tracks bytes read for logging
//
// WrapForStreaming applies all three in that order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

// ContextCheckInterval is how many rows are read between cancellation checks.
var ContextCheckInterval = 256

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type bomSkipper struct {
	br      *bufio.Reader
	checked bool
}

func newBOMSkipper(r io.Reader) *bomSkipper {
	return &bomSkipper{br: bufio.NewReader(r)}
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		if head, err := b.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			_, _ = b.br.Discard(len(utf8BOM))
		}
	}
	return b.br.Read(p)
}

// utf8Sanitizer holds back an incomplete trailing rune until the next Read
// so that multi-byte characters split across reads survive intact.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte // raw bytes of an incomplete rune
	ready   []byte // sanitized bytes that did not fit a small buffer
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(s.ready) > 0 {
		n := copy(p, s.ready)
		s.ready = s.ready[n:]
		return n, nil
	}
	if len(p) < utf8.UTFMax {
		// too small for a whole rune; fill a scratch buffer instead
		return s.readSmall(p)
	}

	off := copy(p, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(p[off:])
	n += off
	if n == 0 {
		return 0, err
	}
	return s.sanitize(p[:n], err == io.EOF), err
}

func (s *utf8Sanitizer) readSmall(p []byte) (int, error) {
	buf := make([]byte, utf8.UTFMax)
	n, err := s.Read(buf)
	if n > len(p) {
		s.ready = append(s.ready, buf[len(p):n]...)
		n = len(p)
		if err == io.EOF {
			err = nil
		}
	}
	copy(p, buf[:n])
	return n, err
}

// sanitize rewrites data in place and returns the usable length.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	w := 0
	for r := 0; r < len(data); {
		if data[r] < utf8.RuneSelf {
			data[w] = data[r]
			w++
			r++
			continue
		}
		if !atEOF && !utf8.FullRune(data[r:]) {
			s.pending = append(s.pending, data[r:]...)
			break
		}
		ch, size := utf8.DecodeRune(data[r:])
		if ch == utf8.RuneError && size == 1 {
			data[w] = '?'
			w++
			r++
			continue
		}
		copy(data[w:], data[r:r+size])
		w += size
		r += size
	}
	return w
}

// CountingReader counts the bytes that pass through it.
type CountingReader struct {
	r         io.Reader
	BytesRead int64
	Total     int64 // 0 when unknown
}

// NewCountingReader wraps r; total is the expected size or 0.
func NewCountingReader(r io.Reader, total int64) *CountingReader {
	return &CountingReader{r: r, Total: total}
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.BytesRead += int64(n)
	return n, err
}

// Progress returns the percentage read, or 0 if the total is unknown.
func (c *CountingReader) Progress() int {
	if c.Total <= 0 {
		return 0
	}
	return int(c.BytesRead * 100 / c.Total)
}

// WrapForStreaming strips the BOM, sanitizes UTF-8 and counts bytes.
func WrapForStreaming(r io.Reader, total int64) *CountingReader {
	return NewCountingReader(newUTF8Sanitizer(newBOMSkipper(r)), total)
}
