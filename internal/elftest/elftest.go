// Package elftest builds small ELF images in memory for tests.
package elftest

import "encoding/binary"

const (
	Class32 = 1
	Class64 = 2

	LSB = 1
	MSB = 2
)

// Segment is a program header entry.
type Segment struct {
	Type   uint32
	Flags  uint32
	Offset uint64
	Vaddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

// Section is a section header entry. The offset and size of a section
// named .shstrtab are filled in by Bytes.
type Section struct {
	Name    string
	Type    uint32
	Flags   uint64
	Addr    uint64
	Offset  uint64
	Size    uint64
	Link    uint32
	Info    uint32
	Align   uint64
	EntSize uint64
}

// File describes an ELF image. Program headers follow the file header, then
// come the section names and the section header table.
type File struct {
	Class     byte
	Data      byte
	ABI       byte
	Type      uint16
	Machine   uint16
	Entry     uint64
	Flags     uint32
	NameIndex uint16
	Segments  []Segment
	Sections  []Section
}

func (f File) headerSize() int {
	if f.Class == Class64 {
		return 64
	}
	return 52
}

func (f File) programSize() int {
	if f.Class == Class64 {
		return 56
	}
	return 32
}

func (f File) sectionSize() int {
	if f.Class == Class64 {
		return 64
	}
	return 40
}

// StringTable returns the section name table written by Bytes and the offset
// of each name in it.
func (f File) StringTable() ([]byte, []uint32) {
	var (
		table = []byte{0}
		names = make([]uint32, len(f.Sections))
	)
	for i, s := range f.Sections {
		names[i] = uint32(len(table))
		table = append(table, s.Name...)
		table = append(table, 0)
	}
	return table, names
}

// Bytes encodes the image.
func (f File) Bytes() []byte {
	var bo binary.AppendByteOrder = binary.LittleEndian
	if f.Data == MSB {
		bo = binary.BigEndian
	}
	word := func(b []byte, v uint64) []byte {
		if f.Class == Class64 {
			return bo.AppendUint64(b, v)
		}
		return bo.AppendUint32(b, uint32(v))
	}
	var (
		ehsize       = f.headerSize()
		phsize       = f.programSize()
		shsize       = f.sectionSize()
		table, names = f.StringTable()
		stroff       = ehsize + len(f.Segments)*phsize
		phoff        int
		shoff        int
	)
	if len(f.Segments) > 0 {
		phoff = ehsize
	}
	if len(f.Sections) > 0 {
		shoff = stroff + len(table)
	}

	b := []byte{0x7F, 'E', 'L', 'F', f.Class, f.Data, 1, f.ABI, 0}
	b = append(b, make([]byte, 7)...)
	b = bo.AppendUint16(b, f.Type)
	b = bo.AppendUint16(b, f.Machine)
	b = bo.AppendUint32(b, 1)
	b = word(b, f.Entry)
	b = word(b, uint64(phoff))
	b = word(b, uint64(shoff))
	b = bo.AppendUint32(b, f.Flags)
	b = bo.AppendUint16(b, uint16(ehsize))
	b = bo.AppendUint16(b, uint16(phsize))
	b = bo.AppendUint16(b, uint16(len(f.Segments)))
	b = bo.AppendUint16(b, uint16(shsize))
	b = bo.AppendUint16(b, uint16(len(f.Sections)))
	b = bo.AppendUint16(b, f.NameIndex)

	for _, p := range f.Segments {
		b = bo.AppendUint32(b, p.Type)
		if f.Class == Class64 {
			b = bo.AppendUint32(b, p.Flags)
		}
		b = word(b, p.Offset)
		b = word(b, p.Vaddr)
		b = word(b, p.Vaddr)
		b = word(b, p.Filesz)
		b = word(b, p.Memsz)
		if f.Class != Class64 {
			b = bo.AppendUint32(b, p.Flags)
		}
		b = word(b, p.Align)
	}
	b = append(b, table...)
	for i, s := range f.Sections {
		if s.Name == ".shstrtab" {
			s.Offset, s.Size = uint64(stroff), uint64(len(table))
		}
		b = bo.AppendUint32(b, names[i])
		b = bo.AppendUint32(b, s.Type)
		b = word(b, s.Flags)
		b = word(b, s.Addr)
		b = word(b, s.Offset)
		b = word(b, s.Size)
		b = bo.AppendUint32(b, s.Link)
		b = bo.AppendUint32(b, s.Info)
		b = word(b, s.Align)
		b = word(b, s.EntSize)
	}
	return b
}

// Simple returns a little endian image with one loadable segment, a null
// section, a .text section and the section name table.
func Simple(class byte) File {
	return File{
		Class:     class,
		Data:      LSB,
		ABI:       3,
		Type:      2,
		Machine:   0x3E,
		Entry:     0x401000,
		NameIndex: 2,
		Segments: []Segment{
			{Type: 1, Flags: 5, Offset: 0, Vaddr: 0x400000, Filesz: 0x100, Memsz: 0x100, Align: 0x1000},
		},
		Sections: []Section{
			{},
			{Name: ".text", Type: 1, Flags: 0x6, Addr: 0x401000, Offset: 0x40, Size: 0x10, Align: 16},
			{Name: ".shstrtab", Type: 3, Align: 1},
		},
	}
}
