package elfmeta

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientLength              = errors.New("insufficient length")
	ErrInsufficientHeaderLength        = errors.New("insufficient header length")
	ErrInsufficientProgramHeaderLength = errors.New("insufficient program header length")
	ErrInsufficientSectionHeaderLength = errors.New("insufficient section header length")

	ErrMagic        = errors.New("not an ELF file")
	ErrWordWidth    = errors.New("invalid word width")
	ErrEndianness   = errors.New("invalid endianness")
	ErrFileType     = errors.New("invalid file type")
	ErrSegmentType  = errors.New("invalid segment type")
	ErrSectionType  = errors.New("invalid section type")
	ErrSectionFlags = errors.New("invalid section flags")

	ErrHeaderSize         = errors.New("invalid header size")
	ErrAlignment          = errors.New("invalid alignment")
	ErrVirtualAddress     = errors.New("invalid virtual address")
	ErrNameTableType      = errors.New("invalid section name table type")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrSectionName        = errors.New("invalid section name")
)

// ParseError reports a malformed ELF structure. Err is one of the package
// sentinels and Value holds the offending datum: an observed length, a raw
// code, an address or a name index depending on Err.
type ParseError struct {
	Err   error
	Value interface{}
}

func parseError(err error, value interface{}) error {
	return &ParseError{Err: err, Value: value}
}

func (e *ParseError) Error() string {
	switch v := e.Value.(type) {
	case nil:
		return fmt.Sprintf("elf: %s", e.Err)
	case int:
		return fmt.Sprintf("elf: %s (%d)", e.Err, v)
	case string:
		return fmt.Sprintf("elf: %s (%q)", e.Err, v)
	case fmt.Stringer:
		return fmt.Sprintf("elf: %s (%s)", e.Err, v.String())
	default:
		return fmt.Sprintf("elf: %s (%#x)", e.Err, v)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ParseError with the same sentinel and the
// same offending value.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return e.Err == t.Err && e.Value == t.Value
}

// IOError wraps a failure of the underlying byte source.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("elf: %s: %s", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
