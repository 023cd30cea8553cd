package elfmeta

import (
	"errors"
	"io"
)

// Metadata holds the decoded file header and the program and section header
// tables of an ELF file, in on-disk order.
type Metadata struct {
	Header         Header          `json:"header" yaml:"header"`
	ProgramHeaders []ProgramHeader `json:"program_headers" yaml:"program_headers"`
	SectionHeaders []SectionHeader `json:"section_headers" yaml:"section_headers"`
}

// Parse reads the metadata of the ELF file available in r. Nothing is
// returned unless every step succeeds and r is not retained.
func Parse(r io.ReadSeeker) (*Metadata, error) {
	buf := make([]byte, Header64Size)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, &IOError{Op: "read header", Err: err}
	}
	hdr, err := ParseHeader(buf[:n])
	if err != nil {
		return nil, err
	}
	programs, err := readProgramHeaders(r, hdr)
	if err != nil {
		return nil, err
	}
	unnamed, err := readSectionHeaders(r, hdr)
	if err != nil {
		return nil, err
	}
	sections, err := resolveSectionNames(r, hdr, unnamed)
	if err != nil {
		return nil, err
	}
	m := Metadata{
		Header:         hdr,
		ProgramHeaders: programs,
		SectionHeaders: sections,
	}
	return &m, nil
}

func readProgramHeaders(r io.ReadSeeker, hdr Header) ([]ProgramHeader, error) {
	var (
		count = int(hdr.ProgramHeaderCount)
		size  = int(hdr.ProgramHeaderEntrySize)
		list  = make([]ProgramHeader, 0, count)
	)
	if count == 0 {
		return list, nil
	}
	buf, err := readTable(r, "program headers", hdr.ProgramHeaderOffset, uint64(count*size))
	if err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		off := i * size
		ph, err := ParseProgramHeader(buf[off:off+size], hdr.WordWidth, hdr.Endianness)
		if err != nil {
			return nil, err
		}
		list = append(list, ph)
	}
	return list, nil
}

func readSectionHeaders(r io.ReadSeeker, hdr Header) ([]UnnamedSectionHeader, error) {
	var (
		count = int(hdr.SectionHeaderCount)
		size  = int(hdr.SectionHeaderEntrySize)
		list  = make([]UnnamedSectionHeader, 0, count)
	)
	if count == 0 {
		return list, nil
	}
	buf, err := readTable(r, "section headers", hdr.SectionHeaderOffset, uint64(count*size))
	if err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		off := i * size
		sh, err := ParseUnnamedSectionHeader(buf[off:off+size], hdr.WordWidth, hdr.Endianness)
		if err != nil {
			return nil, err
		}
		list = append(list, sh)
	}
	return list, nil
}

// NameTableIndex returns the index of the section holding the section names.
// An index of SectionXIndex is an escape: the real index is stored in the
// link field of the first section when that link is set and in range.
// Otherwise the escape is kept as is. The second value is false when the
// index falls outside of the table.
func NameTableIndex(hdr Header, list []UnnamedSectionHeader) (int, bool) {
	idx := int(hdr.SectionNameIndex)
	if idx == SectionXIndex && len(list) > 0 {
		if link := int(list[0].Link); link > 0 && link < len(list) {
			idx = link
		}
	}
	if idx >= len(list) {
		return 0, false
	}
	return idx, true
}

func resolveSectionNames(r io.ReadSeeker, hdr Header, list []UnnamedSectionHeader) ([]SectionHeader, error) {
	idx, ok := NameTableIndex(hdr, list)
	if !ok {
		return []SectionHeader{}, nil
	}
	strtab := list[idx]
	if strtab.Type != SectionStrTab {
		return nil, parseError(ErrNameTableType, strtab.Type)
	}
	buf, err := readTable(r, "section names", strtab.Offset, strtab.Size.Uint64())
	if err != nil {
		return nil, err
	}
	return ResolveNames(list, buf)
}

// readTable reads size bytes at offset. The request is checked against the
// length of r first so that a corrupted size never leads to a huge
// allocation.
func readTable(r io.ReadSeeker, what string, offset Word, size uint64) ([]byte, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &IOError{Op: "seek " + what, Err: err}
	}
	off := offset.Uint64()
	if off > uint64(end) || size > uint64(end)-off {
		return nil, &IOError{Op: "read " + what, Err: io.ErrUnexpectedEOF}
	}
	if _, err := r.Seek(int64(off), io.SeekStart); err != nil {
		return nil, &IOError{Op: "seek " + what, Err: err}
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &IOError{Op: "read " + what, Err: err}
	}
	return buf, nil
}

// Section returns the first section called name.
func (m *Metadata) Section(name string) (SectionHeader, bool) {
	for _, s := range m.SectionHeaders {
		if s.Name == name {
			return s, true
		}
	}
	return SectionHeader{}, false
}

// SectionsOfType returns the sections of type t in table order.
func (m *Metadata) SectionsOfType(t SectionType) []SectionHeader {
	var list []SectionHeader
	for _, s := range m.SectionHeaders {
		if s.Type == t {
			list = append(list, s)
		}
	}
	return list
}

// Segments returns the program headers of type t in table order.
func (m *Metadata) Segments(t SegmentType) []ProgramHeader {
	var list []ProgramHeader
	for _, p := range m.ProgramHeaders {
		if p.Type == t {
			list = append(list, p)
		}
	}
	return list
}
