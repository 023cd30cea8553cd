package elfmeta

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	SectionHeader32Size = 40
	SectionHeader64Size = 64
)

// SectionXIndex in the header means the section name table index does not
// fit in 16 bits.
const SectionXIndex = 0xFFFF

type SectionType uint32

const (
	SectionNull         SectionType = 0x0
	SectionProgBits     SectionType = 0x1
	SectionSymTab       SectionType = 0x2
	SectionStrTab       SectionType = 0x3
	SectionRela         SectionType = 0x4
	SectionHash         SectionType = 0x5
	SectionDynamic      SectionType = 0x6
	SectionNote         SectionType = 0x7
	SectionNoBits       SectionType = 0x8
	SectionRel          SectionType = 0x9
	SectionShlib        SectionType = 0xA
	SectionDynSym       SectionType = 0xB
	SectionInitArray    SectionType = 0xE
	SectionFiniArray    SectionType = 0xF
	SectionPreInitArray SectionType = 0x10
	SectionGroup        SectionType = 0x11
	SectionSymTabShndx  SectionType = 0x12
	SectionNum          SectionType = 0x13

	sectionLoOS SectionType = 0x60000000
)

var sectionNames = map[SectionType]string{
	SectionNull:         "NULL",
	SectionProgBits:     "PROGBITS",
	SectionSymTab:       "SYMTAB",
	SectionStrTab:       "STRTAB",
	SectionRela:         "RELA",
	SectionHash:         "HASH",
	SectionDynamic:      "DYNAMIC",
	SectionNote:         "NOTE",
	SectionNoBits:       "NOBITS",
	SectionRel:          "REL",
	SectionShlib:        "SHLIB",
	SectionDynSym:       "DYNSYM",
	SectionInitArray:    "INIT_ARRAY",
	SectionFiniArray:    "FINI_ARRAY",
	SectionPreInitArray: "PREINIT_ARRAY",
	SectionGroup:        "GROUP",
	SectionSymTabShndx:  "SYMTAB_SHNDX",
	SectionNum:          "NUM",
}

func DecodeSectionType(b []byte, e Endianness) (SectionType, error) {
	v, err := Uint32(b, e)
	if err != nil {
		return 0, err
	}
	t := SectionType(v)
	if _, ok := sectionNames[t]; !ok && !t.OSSpecific() {
		return 0, parseError(ErrSectionType, v)
	}
	return t, nil
}

// OSSpecific reports whether t lies in the range starting at SHT_LOOS. The
// range includes the processor and user specific types.
func (t SectionType) OSSpecific() bool {
	return t >= sectionLoOS
}

// HasData reports whether a section of type t occupies bytes in the file.
func (t SectionType) HasData() bool {
	return t != SectionNoBits && t != SectionNull
}

func (t SectionType) String() string {
	if n, ok := sectionNames[t]; ok {
		return n
	}
	if t.OSSpecific() {
		return fmt.Sprintf("LOOS+%#x", uint32(t-sectionLoOS))
	}
	return fmt.Sprintf("Unknown(%#x)", uint32(t))
}

func (t SectionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

type SectionFlags uint64

const (
	FlagWrite           SectionFlags = 0x1
	FlagAlloc           SectionFlags = 0x2
	FlagExec            SectionFlags = 0x4
	FlagMerge           SectionFlags = 0x10
	FlagStrings         SectionFlags = 0x20
	FlagInfoLink        SectionFlags = 0x40
	FlagLinkOrder       SectionFlags = 0x80
	FlagOSNonConforming SectionFlags = 0x100
	FlagGroup           SectionFlags = 0x200
	FlagTLS             SectionFlags = 0x400
	FlagCompressed      SectionFlags = 0x800
	FlagMaskOS          SectionFlags = 0x0FF00000
	FlagMaskProc        SectionFlags = 0xF0000000
	FlagOrdered         SectionFlags = 0x4000000
	FlagExclude         SectionFlags = 0x8000000

	knownSectionFlags = FlagWrite | FlagAlloc | FlagExec | FlagMerge | FlagStrings |
		FlagInfoLink | FlagLinkOrder | FlagOSNonConforming | FlagGroup | FlagTLS |
		FlagCompressed | FlagMaskOS | FlagMaskProc | FlagOrdered | FlagExclude
)

var sectionFlagLetters = []struct {
	flag   SectionFlags
	letter byte
	name   string
}{
	{FlagWrite, 'W', "write"},
	{FlagAlloc, 'A', "alloc"},
	{FlagExec, 'X', "execute"},
	{FlagMerge, 'M', "merge"},
	{FlagStrings, 'S', "strings"},
	{FlagInfoLink, 'I', "info"},
	{FlagLinkOrder, 'L', "link order"},
	{FlagOSNonConforming, 'O', "extra OS processing required"},
	{FlagGroup, 'G', "group"},
	{FlagTLS, 'T', "TLS"},
	{FlagCompressed, 'C', "compressed"},
	{FlagExclude, 'E', "exclude"},
	{FlagMaskOS &^ (FlagOrdered | FlagExclude), 'o', "OS specific"},
	{FlagMaskProc, 'p', "processor specific"},
}

// DecodeSectionFlags reads a flag word of width w and rejects any bit
// outside the known flags.
func DecodeSectionFlags(b []byte, w WordWidth, e Endianness) (SectionFlags, error) {
	word, err := DecodeWord(b, w, e)
	if err != nil {
		return 0, err
	}
	raw := word.Uint64()
	if raw&^uint64(knownSectionFlags) != 0 {
		return 0, parseError(ErrSectionFlags, raw)
	}
	return SectionFlags(raw), nil
}

func (f SectionFlags) Has(flag SectionFlags) bool {
	return f&flag == flag
}

// String renders the flags with the letters used by readelf.
func (f SectionFlags) String() string {
	var str strings.Builder
	for _, s := range sectionFlagLetters {
		if f&s.flag != 0 {
			str.WriteByte(s.letter)
		}
	}
	return str.String()
}

func (f SectionFlags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// FlagsLegend describes the letters used by SectionFlags.String.
func FlagsLegend() string {
	parts := make([]string, 0, len(sectionFlagLetters))
	for _, s := range sectionFlagLetters {
		parts = append(parts, fmt.Sprintf("%c (%s)", s.letter, s.name))
	}
	return "Key to Flags: " + strings.Join(parts, ", ")
}

// UnnamedSectionHeader is a section header whose name is still an offset in
// the section name string table.
type UnnamedSectionHeader struct {
	NameIndex uint32       `json:"name_index" yaml:"name_index"`
	Type      SectionType  `json:"type" yaml:"type"`
	Flags     SectionFlags `json:"flags" yaml:"flags"`
	Address   Word         `json:"addr" yaml:"addr"`
	Offset    Word         `json:"offset" yaml:"offset"`
	Size      Word         `json:"size" yaml:"size"`
	Link      uint32       `json:"link" yaml:"link"`
	Info      uint32       `json:"info" yaml:"info"`
	Align     Word         `json:"align" yaml:"align"`
	EntrySize Word         `json:"entsize" yaml:"entsize"`
}

// SectionHeader is a section header with its name resolved.
type SectionHeader struct {
	Name                 string `json:"name" yaml:"name"`
	UnnamedSectionHeader `yaml:",inline"`
}

type sectionLayout struct {
	size    int
	name    int
	typ     int
	flags   int
	addr    int
	offset  int
	length  int
	link    int
	info    int
	align   int
	entsize int
}

var sectionLayouts = map[WordWidth]sectionLayout{
	Width32: {
		size:    SectionHeader32Size,
		name:    0,
		typ:     4,
		flags:   8,
		addr:    12,
		offset:  16,
		length:  20,
		link:    24,
		info:    28,
		align:   32,
		entsize: 36,
	},
	Width64: {
		size:    SectionHeader64Size,
		name:    0,
		typ:     4,
		flags:   8,
		addr:    16,
		offset:  24,
		length:  32,
		link:    40,
		info:    44,
		align:   48,
		entsize: 56,
	},
}

// SectionHeaderSize returns the minimum size of a section header entry.
func SectionHeaderSize(w WordWidth) int {
	return sectionLayouts[w].size
}

// ParseUnnamedSectionHeader decodes one section header entry from the start
// of b. The name is left unresolved.
func ParseUnnamedSectionHeader(b []byte, w WordWidth, e Endianness) (UnnamedSectionHeader, error) {
	var sh UnnamedSectionHeader
	layout := sectionLayouts[w]
	if len(b) < layout.size {
		return sh, parseError(ErrInsufficientSectionHeaderLength, len(b))
	}
	var err error
	if sh.Type, err = DecodeSectionType(b[layout.typ:], e); err != nil {
		return UnnamedSectionHeader{}, err
	}
	if sh.Flags, err = DecodeSectionFlags(b[layout.flags:], w, e); err != nil {
		return UnnamedSectionHeader{}, err
	}
	d := decoder{
		buf:    b,
		width:  w,
		endian: e,
	}
	sh.NameIndex = d.uint32(layout.name)
	sh.Address = d.word(layout.addr)
	sh.Offset = d.word(layout.offset)
	sh.Size = d.word(layout.length)
	sh.Link = d.uint32(layout.link)
	sh.Info = d.uint32(layout.info)
	sh.Align = d.word(layout.align)
	sh.EntrySize = d.word(layout.entsize)
	if d.err != nil {
		return UnnamedSectionHeader{}, d.err
	}
	if a := sh.Align.Uint64(); a != 0 && !isPowerOfTwo(a) {
		return UnnamedSectionHeader{}, parseError(ErrAlignment, a)
	}
	return sh, nil
}

// ResolveName looks up the name of sh in the string table strtab.
func ResolveName(sh UnnamedSectionHeader, strtab []byte) (SectionHeader, error) {
	str, err := cstring(strtab, sh.NameIndex)
	if err != nil {
		return SectionHeader{}, err
	}
	return SectionHeader{
		Name:                 str,
		UnnamedSectionHeader: sh,
	}, nil
}

// ResolveNames resolves the names of all the sections in order.
func ResolveNames(list []UnnamedSectionHeader, strtab []byte) ([]SectionHeader, error) {
	named := make([]SectionHeader, 0, len(list))
	for _, sh := range list {
		s, err := ResolveName(sh, strtab)
		if err != nil {
			return nil, err
		}
		named = append(named, s)
	}
	return named, nil
}

// cstring returns the NUL terminated string starting at offset in table.
func cstring(table []byte, offset uint32) (string, error) {
	if uint64(offset) >= uint64(len(table)) {
		return "", parseError(ErrUnterminatedString, offset)
	}
	str := table[offset:]
	x := bytes.IndexByte(str, 0)
	if x < 0 {
		return "", parseError(ErrUnterminatedString, offset)
	}
	str = str[:x]
	if !utf8.Valid(str) {
		return "", parseError(ErrSectionName, string(str))
	}
	return string(str), nil
}
