package elfmeta

import (
	"fmt"
	"math/bits"
)

const (
	ProgramHeader32Size = 32
	ProgramHeader64Size = 56
)

type SegmentType uint32

const (
	SegmentNull    SegmentType = 0
	SegmentLoad    SegmentType = 1
	SegmentDynamic SegmentType = 2
	SegmentInterp  SegmentType = 3
	SegmentNote    SegmentType = 4
	SegmentShlib   SegmentType = 5
	SegmentPhdr    SegmentType = 6
	SegmentTLS     SegmentType = 7

	segmentLoOS   SegmentType = 0x60000000
	segmentHiOS   SegmentType = 0x6FFFFFFF
	segmentLoProc SegmentType = 0x70000000
	segmentHiProc SegmentType = 0x7FFFFFFF
)

var segmentNames = map[SegmentType]string{
	SegmentNull:    "NULL",
	SegmentLoad:    "LOAD",
	SegmentDynamic: "DYNAMIC",
	SegmentInterp:  "INTERP",
	SegmentNote:    "NOTE",
	SegmentShlib:   "SHLIB",
	SegmentPhdr:    "PHDR",
	SegmentTLS:     "TLS",
}

func DecodeSegmentType(b []byte, e Endianness) (SegmentType, error) {
	v, err := Uint32(b, e)
	if err != nil {
		return 0, err
	}
	t := SegmentType(v)
	if _, ok := segmentNames[t]; !ok && !t.OSSpecific() && !t.ProcessorSpecific() {
		return 0, parseError(ErrSegmentType, v)
	}
	return t, nil
}

func (t SegmentType) OSSpecific() bool {
	return t >= segmentLoOS && t <= segmentHiOS
}

func (t SegmentType) ProcessorSpecific() bool {
	return t >= segmentLoProc && t <= segmentHiProc
}

func (t SegmentType) String() string {
	if n, ok := segmentNames[t]; ok {
		return n
	}
	switch {
	case t.OSSpecific():
		return fmt.Sprintf("LOOS+%#x", uint32(t-segmentLoOS))
	case t.ProcessorSpecific():
		return fmt.Sprintf("LOPROC+%#x", uint32(t-segmentLoProc))
	default:
		return fmt.Sprintf("Unknown(%#x)", uint32(t))
	}
}

func (t SegmentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

type SegmentFlags uint32

const (
	SegmentExec  SegmentFlags = 0x1
	SegmentWrite SegmentFlags = 0x2
	SegmentRead  SegmentFlags = 0x4
)

func (f SegmentFlags) String() string {
	rwx := []byte{' ', ' ', ' '}
	if f&SegmentRead != 0 {
		rwx[0] = 'R'
	}
	if f&SegmentWrite != 0 {
		rwx[1] = 'W'
	}
	if f&SegmentExec != 0 {
		rwx[2] = 'E'
	}
	if rest := f &^ (SegmentRead | SegmentWrite | SegmentExec); rest != 0 {
		return fmt.Sprintf("%s %#x", rwx, uint32(rest))
	}
	return string(rwx)
}

func (f SegmentFlags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ProgramHeader describes a segment.
type ProgramHeader struct {
	Type            SegmentType  `json:"type" yaml:"type"`
	Flags           SegmentFlags `json:"flags" yaml:"flags"`
	Offset          Word         `json:"offset" yaml:"offset"`
	VirtualAddress  Word         `json:"vaddr" yaml:"vaddr"`
	PhysicalAddress Word         `json:"paddr" yaml:"paddr"`
	FileSize        Word         `json:"filesz" yaml:"filesz"`
	MemorySize      Word         `json:"memsz" yaml:"memsz"`
	Align           Word         `json:"align" yaml:"align"`
}

// programLayout holds the field offsets of a program header entry. The
// 64-bit layout moves flags right after the type to keep the words aligned,
// so it is not a rescaling of the 32-bit one.
type programLayout struct {
	size   int
	typ    int
	offset int
	vaddr  int
	paddr  int
	filesz int
	memsz  int
	flags  int
	align  int
}

var programLayouts = map[WordWidth]programLayout{
	Width32: {
		size:   ProgramHeader32Size,
		typ:    0,
		offset: 4,
		vaddr:  8,
		paddr:  12,
		filesz: 16,
		memsz:  20,
		flags:  24,
		align:  28,
	},
	Width64: {
		size:   ProgramHeader64Size,
		typ:    0,
		flags:  4,
		offset: 8,
		vaddr:  16,
		paddr:  24,
		filesz: 32,
		memsz:  40,
		align:  48,
	},
}

// ProgramHeaderSize returns the minimum size of a program header entry.
func ProgramHeaderSize(w WordWidth) int {
	return programLayouts[w].size
}

// ParseProgramHeader decodes one program header entry from the start of b.
func ParseProgramHeader(b []byte, w WordWidth, e Endianness) (ProgramHeader, error) {
	var ph ProgramHeader
	layout := programLayouts[w]
	if len(b) < layout.size {
		return ph, parseError(ErrInsufficientProgramHeaderLength, len(b))
	}
	typ, err := DecodeSegmentType(b[layout.typ:], e)
	if err != nil {
		return ph, err
	}
	d := decoder{
		buf:    b,
		width:  w,
		endian: e,
	}
	ph.Type = typ
	ph.Flags = SegmentFlags(d.uint32(layout.flags))
	ph.Offset = d.word(layout.offset)
	ph.VirtualAddress = d.word(layout.vaddr)
	ph.PhysicalAddress = d.word(layout.paddr)
	ph.FileSize = d.word(layout.filesz)
	ph.MemorySize = d.word(layout.memsz)
	ph.Align = d.word(layout.align)
	if d.err != nil {
		return ProgramHeader{}, d.err
	}
	if err := checkSegmentAlign(ph.Offset, ph.VirtualAddress, ph.Align); err != nil {
		return ProgramHeader{}, err
	}
	return ph, nil
}

// checkSegmentAlign verifies that align is 0, 1 or a power of two and that,
// when it constrains the segment, the virtual address and the file offset
// are congruent modulo align.
func checkSegmentAlign(offset, vaddr, align Word) error {
	a := align.Uint64()
	if a <= 1 {
		return nil
	}
	if !isPowerOfTwo(a) {
		return parseError(ErrAlignment, a)
	}
	if vaddr.Uint64()%a != offset.Uint64()%a {
		return parseError(ErrVirtualAddress, vaddr)
	}
	return nil
}

func isPowerOfTwo(v uint64) bool {
	return v != 0 && bits.OnesCount64(v) == 1
}
