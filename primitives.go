package mqtt5

import "encoding/binary"

// writer is a null-aware write cursor used by the two-pass packet builders.
// When buf is nil, every put* call only advances n (pass one: measure
// the encoding); when buf is non-nil, put* calls also write into buf (pass
// two). The two passes share this single code path by construction, which
// is what guarantees they agree to the byte.
type writer struct {
	buf []byte
	n   int
}

func (w *writer) putByte(b byte) {
	if w.buf != nil {
		w.buf[w.n] = b
	}
	w.n++
}

func (w *writer) putUint16(v uint16) {
	if w.buf != nil {
		binary.BigEndian.PutUint16(w.buf[w.n:], v)
	}
	w.n += 2
}

func (w *writer) putUint32(v uint32) {
	if w.buf != nil {
		binary.BigEndian.PutUint32(w.buf[w.n:], v)
	}
	w.n += 4
}

func (w *writer) putVarint(v uint32) {
	if w.buf == nil {
		w.n += VarintSize(v)
		return
	}
	w.n += EncodeVarint(v, w.buf[w.n:])
}

func (w *writer) putBytes(b []byte) {
	if w.buf != nil {
		copy(w.buf[w.n:], b)
	}
	w.n += len(b)
}

// putString writes a length-prefixed UTF-8 string: 2 byte big-endian length
// then the raw bytes. Callers are responsible for UTF-8 validating s before
// encoding it; putString does not validate since every outbound string
// originates from a Go string, which is never malformed UTF-8 on
// construction except through deliberate use of unsafe conversions.
func (w *writer) putString(s string) {
	w.putUint16(uint16(len(s)))
	w.putBytes([]byte(s))
}

// putBinary writes a length-prefixed opaque byte blob: identical framing to
// putString with no UTF-8 check.
func (w *writer) putBinary(b []byte) {
	w.putUint16(uint16(len(b)))
	w.putBytes(b)
}

// reader is a read cursor over an already-buffered packet body, used by the
// per-packet-type parsers.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) getByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrInvalidPacketSize
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) getUint16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, ErrInvalidPacketSize
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) getUint32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, ErrInvalidPacketSize
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) getVarint() (uint32, error) {
	v, n, err := DecodeVarint(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// getBinary reads a length-prefixed blob and returns a slice borrowed
// directly from r.buf: it is only valid as long as the underlying receive
// buffer is.
func (r *reader) getBinary() ([]byte, error) {
	l, err := r.getUint16()
	if err != nil {
		return nil, err
	}
	if r.remaining() < int(l) {
		return nil, ErrInvalidPacketSize
	}
	b := r.buf[r.pos : r.pos+int(l)]
	r.pos += int(l)
	return b, nil
}

// getString reads a length-prefixed, UTF-8-validated string. The returned
// string is a fresh copy (Go strings are immutable, so a borrow would be
// unsound once the receive buffer is reused).
func (r *reader) getString() (string, error) {
	b, err := r.getBinary()
	if err != nil {
		return "", err
	}
	if !ValidUTF8(b) {
		return "", ErrInvalidEncoding
	}
	return string(b), nil
}

// skip advances the cursor by n bytes without interpreting them.
func (r *reader) skip(n int) error {
	if r.remaining() < n {
		return ErrInvalidPacketSize
	}
	r.pos += n
	return nil
}
