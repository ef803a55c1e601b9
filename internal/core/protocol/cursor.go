/*
 * file: cursor.go
 * package: protocol
 * description:
 *     Bounds-checked little-endian readers/writers over a flat byte slice.
 *     The reader never reads beyond the slice it was handed. Long-bytes
 *     reads re-slice it; short strings are converted (and so copied) into
 *     Go strings, and decode.go copies Message payloads.
 */
package protocol

import (
	"encoding/binary"
	"errors"
)

// ErrShortFrame is returned whenever a read runs past the end of the frame.
var ErrShortFrame = errors.New("protocol: short frame")

// ErrUnknownCode is returned when the leading byte doesn't match any Code.
var ErrUnknownCode = errors.New("protocol: unknown packet code")

// ErrBatchTooDeep is returned when nested Batch frames exceed MaxBatchDepth.
var ErrBatchTooDeep = errors.New("protocol: batch nesting too deep")

type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) readU8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, ErrShortFrame
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) readU16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, ErrShortFrame
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) readU32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, ErrShortFrame
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) readShortString() (string, error) {
	n, err := r.readU8()
	if err != nil {
		return "", err
	}
	if r.remaining() < int(n) {
		return "", ErrShortFrame
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) readLongBytes() ([]byte, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, err
	}
	if r.remaining() < int(n) {
		return nil, ErrShortFrame
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

type writer struct {
	buf []byte
}

func (w *writer) writeU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) writeU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *writer) writeU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *writer) writeShortString(s string) {
	if len(s) > 0xFF {
		s = s[:0xFF]
	}
	w.writeU8(uint8(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) writeLongBytes(b []byte) {
	w.writeU32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *writer) bytes() []byte {
	return w.buf
}
