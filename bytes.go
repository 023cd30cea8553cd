package elfmeta

import "encoding/binary"

// Uint16 reads an unsigned 16-bit integer from the first two bytes of b.
func Uint16(b []byte, e Endianness) (uint16, error) {
	if len(b) < 2 {
		return 0, parseError(ErrInsufficientLength, len(b))
	}
	return e.ByteOrder().Uint16(b), nil
}

// Uint32 reads an unsigned 32-bit integer from the first four bytes of b.
func Uint32(b []byte, e Endianness) (uint32, error) {
	if len(b) < 4 {
		return 0, parseError(ErrInsufficientLength, len(b))
	}
	return e.ByteOrder().Uint32(b), nil
}

// Uint64 reads an unsigned 64-bit integer from the first eight bytes of b.
func Uint64(b []byte, e Endianness) (uint64, error) {
	if len(b) < 8 {
		return 0, parseError(ErrInsufficientLength, len(b))
	}
	return e.ByteOrder().Uint64(b), nil
}

// ByteOrder returns the binary.ByteOrder matching e. Every multi-byte read of
// the package goes through it.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// decoder reads fixed fields of a buffer whose length has already been
// checked by the caller. It remembers the first error so that a decode
// routine can read every field and test the error once.
type decoder struct {
	buf    []byte
	width  WordWidth
	endian Endianness
	err    error
}

func (d *decoder) uint16(off int) uint16 {
	if d.err != nil {
		return 0
	}
	v, err := Uint16(d.buf[off:], d.endian)
	d.err = err
	return v
}

func (d *decoder) uint32(off int) uint32 {
	if d.err != nil {
		return 0
	}
	v, err := Uint32(d.buf[off:], d.endian)
	d.err = err
	return v
}

func (d *decoder) word(off int) Word {
	if d.err != nil {
		return ZeroWord(d.width)
	}
	w, err := DecodeWord(d.buf[off:], d.width, d.endian)
	d.err = err
	return w
}
