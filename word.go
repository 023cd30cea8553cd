package elfmeta

import (
	"fmt"
	"strconv"
)

// Word is an address, offset or size whose on-disk width depends on the
// class of the file. The width is fixed at construction.
type Word struct {
	width WordWidth
	value uint64
}

func Word32(v uint32) Word {
	return Word{width: Width32, value: uint64(v)}
}

func Word64(v uint64) Word {
	return Word{width: Width64, value: v}
}

// ZeroWord returns the zero value of a word of the given width.
func ZeroWord(w WordWidth) Word {
	if w == Width64 {
		return Word64(0)
	}
	return Word32(0)
}

// DecodeWord reads a word of width w from the start of b.
func DecodeWord(b []byte, w WordWidth, e Endianness) (Word, error) {
	if w == Width64 {
		v, err := Uint64(b, e)
		if err != nil {
			return ZeroWord(w), err
		}
		return Word64(v), nil
	}
	v, err := Uint32(b, e)
	if err != nil {
		return ZeroWord(w), err
	}
	return Word32(v), nil
}

func (w Word) Width() WordWidth {
	if w.width == 0 {
		return Width32
	}
	return w.width
}

// Uint64 widens the word. The conversion is lossless for both widths.
func (w Word) Uint64() uint64 {
	return w.value
}

// Size is the number of bytes the word occupies on disk.
func (w Word) Size() int {
	return w.Width().Size()
}

func (w Word) Equal(other Word) bool {
	return w.Width() == other.Width() && w.value == other.value
}

func (w Word) String() string {
	return fmt.Sprintf("%#0*x", w.Size()*2, w.value)
}

// Format formats the contained integer as if it had been given directly,
// so %x, %X, %b and %d behave as for a uint32 or a uint64.
func (w Word) Format(f fmt.State, verb rune) {
	if verb == 's' || (verb == 'v' && !f.Flag('#')) {
		f.Write([]byte(w.String()))
		return
	}
	var v interface{} = w.value
	if w.Width() == Width32 {
		v = uint32(w.value)
	}
	fmt.Fprintf(f, fmtDirective(f, verb), v)
}

func (w Word) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func fmtDirective(f fmt.State, verb rune) string {
	d := []byte{'%'}
	for _, c := range "+-# 0" {
		if f.Flag(int(c)) {
			d = append(d, byte(c))
		}
	}
	if wid, ok := f.Width(); ok {
		d = strconv.AppendInt(d, int64(wid), 10)
	}
	if prec, ok := f.Precision(); ok {
		d = append(d, '.')
		d = strconv.AppendInt(d, int64(prec), 10)
	}
	return string(append(d, string(verb)...))
}
