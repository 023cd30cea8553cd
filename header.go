package elfmeta

import "bytes"

const (
	Header32Size = 52
	Header64Size = 64

	identSize = 16
)

var magic = []byte{0x7F, 'E', 'L', 'F'}

// Header is the ELF file header.
type Header struct {
	WordWidth     WordWidth  `json:"class" yaml:"class"`
	Endianness    Endianness `json:"data" yaml:"data"`
	HeaderVersion uint8      `json:"header_version" yaml:"header_version"`
	ABI           Abi        `json:"abi" yaml:"abi"`
	ABIVersion    uint8      `json:"abi_version" yaml:"abi_version"`
	Type          FileType   `json:"type" yaml:"type"`
	Arch          Arch       `json:"machine" yaml:"machine"`
	Version       uint32     `json:"version" yaml:"version"`

	Entry               Word   `json:"entry" yaml:"entry"`
	ProgramHeaderOffset Word   `json:"phoff" yaml:"phoff"`
	SectionHeaderOffset Word   `json:"shoff" yaml:"shoff"`
	Flags               uint32 `json:"flags" yaml:"flags"`
	Size                uint16 `json:"ehsize" yaml:"ehsize"`

	ProgramHeaderEntrySize uint16 `json:"phentsize" yaml:"phentsize"`
	ProgramHeaderCount     uint16 `json:"phnum" yaml:"phnum"`
	SectionHeaderEntrySize uint16 `json:"shentsize" yaml:"shentsize"`
	SectionHeaderCount     uint16 `json:"shnum" yaml:"shnum"`
	SectionNameIndex       uint16 `json:"shstrndx" yaml:"shstrndx"`
}

// headerLayout gives the offsets of the fields that follow the word-sized
// entry point. They differ between classes because a word takes 4 or 8
// bytes.
type headerLayout struct {
	size      int
	entry     int
	phoff     int
	shoff     int
	flags     int
	ehsize    int
	phentsize int
	phnum     int
	shentsize int
	shnum     int
	shstrndx  int
}

var headerLayouts = map[WordWidth]headerLayout{
	Width32: {
		size:      Header32Size,
		entry:     24,
		phoff:     28,
		shoff:     32,
		flags:     36,
		ehsize:    40,
		phentsize: 42,
		phnum:     44,
		shentsize: 46,
		shnum:     48,
		shstrndx:  50,
	},
	Width64: {
		size:      Header64Size,
		entry:     24,
		phoff:     32,
		shoff:     40,
		flags:     48,
		ehsize:    52,
		phentsize: 54,
		phnum:     56,
		shentsize: 58,
		shnum:     60,
		shstrndx:  62,
	},
}

// HeaderSize returns the size of the file header for the given class.
func HeaderSize(w WordWidth) int {
	return headerLayouts[w].size
}

// ParseHeader decodes the file header found at the start of b. Extra bytes
// after the header are ignored.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < Header32Size {
		return h, parseError(ErrInsufficientHeaderLength, len(b))
	}
	if !bytes.Equal(b[:len(magic)], magic) {
		var raw [4]byte
		copy(raw[:], b)
		return h, parseError(ErrMagic, raw)
	}
	width, err := DecodeWordWidth(b[4])
	if err != nil {
		return h, err
	}
	layout := headerLayouts[width]
	if len(b) < layout.size {
		return h, parseError(ErrInsufficientHeaderLength, len(b))
	}
	endian, err := DecodeEndianness(b[5])
	if err != nil {
		return h, err
	}
	h.WordWidth = width
	h.Endianness = endian
	h.HeaderVersion = b[6]
	h.ABI = DecodeAbi(b[7])
	h.ABIVersion = b[8]

	if h.Type, err = DecodeFileType(b[identSize:], endian); err != nil {
		return Header{}, err
	}
	if h.Arch, err = DecodeArch(b[identSize+2:], endian); err != nil {
		return Header{}, err
	}
	if h.Version, err = Uint32(b[identSize+4:], endian); err != nil {
		return Header{}, err
	}

	d := decoder{
		buf:    b,
		width:  width,
		endian: endian,
	}
	h.Entry = d.word(layout.entry)
	h.ProgramHeaderOffset = d.word(layout.phoff)
	h.SectionHeaderOffset = d.word(layout.shoff)
	h.Flags = d.uint32(layout.flags)
	h.Size = d.uint16(layout.ehsize)
	if d.err != nil {
		return Header{}, d.err
	}
	if int(h.Size) != layout.size {
		return Header{}, parseError(ErrHeaderSize, h.Size)
	}
	h.ProgramHeaderEntrySize = d.uint16(layout.phentsize)
	h.ProgramHeaderCount = d.uint16(layout.phnum)
	h.SectionHeaderEntrySize = d.uint16(layout.shentsize)
	h.SectionHeaderCount = d.uint16(layout.shnum)
	h.SectionNameIndex = d.uint16(layout.shstrndx)
	if d.err != nil {
		return Header{}, d.err
	}
	return h, nil
}

// Is64 reports whether the file uses 64-bit words.
func (h Header) Is64() bool {
	return h.WordWidth == Width64
}
