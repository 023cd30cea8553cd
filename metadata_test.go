package elfmeta

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/midbel/elfmeta/internal/elftest"
)

func parseImage(t *testing.T, f elftest.File) (*Metadata, error) {
	t.Helper()
	return Parse(bytes.NewReader(f.Bytes()))
}

func namesOf(m *Metadata) []string {
	var list []string
	for _, s := range m.SectionHeaders {
		list = append(list, s.Name)
	}
	return list
}

func TestParse(t *testing.T) {
	data := []struct {
		Name   string
		Class  byte
		Data   byte
		Width  WordWidth
		Endian Endianness
	}{
		{Name: "elf32-lsb", Class: elftest.Class32, Data: elftest.LSB, Width: Width32, Endian: Little},
		{Name: "elf64-lsb", Class: elftest.Class64, Data: elftest.LSB, Width: Width64, Endian: Little},
		{Name: "elf32-msb", Class: elftest.Class32, Data: elftest.MSB, Width: Width32, Endian: Big},
		{Name: "elf64-msb", Class: elftest.Class64, Data: elftest.MSB, Width: Width64, Endian: Big},
	}
	for _, d := range data {
		t.Run(d.Name, func(t *testing.T) {
			img := elftest.Simple(d.Class)
			img.Data = d.Data

			m, err := parseImage(t, img)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if m.Header.WordWidth != d.Width || m.Header.Endianness != d.Endian {
				t.Errorf("class mismatch: got %s/%s", m.Header.WordWidth, m.Header.Endianness)
			}
			if m.Header.Type != TypeExecutable || m.Header.Arch != ArchX86_64 {
				t.Errorf("unexpected type/machine: %s/%s", m.Header.Type, m.Header.Arch)
			}
			if !m.Header.Entry.Equal(wordOf(d.Width, 0x401000)) {
				t.Errorf("entry: unexpected value %s", m.Header.Entry)
			}

			wantSegments := []ProgramHeader{
				{
					Type:            SegmentLoad,
					Flags:           SegmentRead | SegmentExec,
					Offset:          wordOf(d.Width, 0),
					VirtualAddress:  wordOf(d.Width, 0x400000),
					PhysicalAddress: wordOf(d.Width, 0x400000),
					FileSize:        wordOf(d.Width, 0x100),
					MemorySize:      wordOf(d.Width, 0x100),
					Align:           wordOf(d.Width, 0x1000),
				},
			}
			if diff := cmp.Diff(wantSegments, m.ProgramHeaders); diff != "" {
				t.Errorf("program headers mismatch (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"", ".text", ".shstrtab"}, namesOf(m)); diff != "" {
				t.Errorf("section names mismatch (-want, +got):\n%s", diff)
			}
			text, ok := m.Section(".text")
			if !ok {
				t.Fatalf(".text section not found")
			}
			if text.Type != SectionProgBits || text.Flags != FlagAlloc|FlagExec {
				t.Errorf(".text: unexpected type/flags %s/%s", text.Type, text.Flags)
			}
			if !text.Address.Equal(wordOf(d.Width, 0x401000)) {
				t.Errorf(".text: unexpected address %s", text.Address)
			}
		})
	}
}

func wordOf(w WordWidth, v uint64) Word {
	if w == Width64 {
		return Word64(v)
	}
	return Word32(uint32(v))
}

func TestParseSingleNameTable(t *testing.T) {
	img := elftest.File{
		Class:   elftest.Class32,
		Data:    elftest.LSB,
		Type:    2,
		Machine: 0x03,
		Segments: []elftest.Segment{
			{Type: 1, Flags: 4, Vaddr: 0x8048000, Filesz: 0x80, Memsz: 0x80, Align: 0x1000},
		},
		Sections: []elftest.Section{
			{Name: ".shstrtab", Type: 3},
		},
	}
	m, err := parseImage(t, img)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(m.ProgramHeaders) != 1 || m.ProgramHeaders[0].Type != SegmentLoad {
		t.Errorf("unexpected program headers: %+v", m.ProgramHeaders)
	}
	if diff := cmp.Diff([]string{".shstrtab"}, namesOf(m)); diff != "" {
		t.Errorf("section names mismatch (-want, +got):\n%s", diff)
	}
}

func TestParseEmptyTables(t *testing.T) {
	img := elftest.File{
		Class: elftest.Class64,
		Data:  elftest.LSB,
		Type:  1,
	}
	m, err := parseImage(t, img)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if m.ProgramHeaders == nil || len(m.ProgramHeaders) != 0 {
		t.Errorf("want empty program headers, got %v", m.ProgramHeaders)
	}
	if m.SectionHeaders == nil || len(m.SectionHeaders) != 0 {
		t.Errorf("want empty section headers, got %v", m.SectionHeaders)
	}
}

func TestParseNameTableIndex(t *testing.T) {
	t.Run("out-of-range", func(t *testing.T) {
		img := elftest.Simple(elftest.Class64)
		img.NameIndex = 9
		m, err := parseImage(t, img)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if m.SectionHeaders == nil || len(m.SectionHeaders) != 0 {
			t.Errorf("want no sections, got %d", len(m.SectionHeaders))
		}
		if len(m.ProgramHeaders) != 1 {
			t.Errorf("want 1 program header, got %d", len(m.ProgramHeaders))
		}
	})
	t.Run("extended", func(t *testing.T) {
		img := elftest.Simple(elftest.Class32)
		img.NameIndex = SectionXIndex
		img.Sections[0].Link = 2
		m, err := parseImage(t, img)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if diff := cmp.Diff([]string{"", ".text", ".shstrtab"}, namesOf(m)); diff != "" {
			t.Errorf("section names mismatch (-want, +got):\n%s", diff)
		}
	})
	t.Run("extended-null-link", func(t *testing.T) {
		img := elftest.Simple(elftest.Class32)
		img.NameIndex = SectionXIndex
		m, err := parseImage(t, img)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if m.SectionHeaders == nil || len(m.SectionHeaders) != 0 {
			t.Errorf("want no sections, got %d", len(m.SectionHeaders))
		}
	})
	t.Run("extended-bad-link", func(t *testing.T) {
		img := elftest.Simple(elftest.Class64)
		img.NameIndex = SectionXIndex
		img.Sections[0].Link = 7
		m, err := parseImage(t, img)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if len(m.SectionHeaders) != 0 {
			t.Errorf("want no sections, got %d", len(m.SectionHeaders))
		}
	})
	t.Run("wrong-type", func(t *testing.T) {
		img := elftest.Simple(elftest.Class32)
		img.NameIndex = 1
		_, err := parseImage(t, img)
		if !errors.Is(err, &ParseError{Err: ErrNameTableType, Value: SectionProgBits}) {
			t.Errorf("unexpected error %v", err)
		}
	})
}

func TestParseErrors(t *testing.T) {
	t.Run("not-elf", func(t *testing.T) {
		_, err := Parse(bytes.NewReader([]byte("#!/bin/sh\necho hello world\nexit 0\n# padding to reach the minimum length")))
		if !errors.Is(err, ErrMagic) {
			t.Errorf("unexpected error %v", err)
		}
	})
	t.Run("short", func(t *testing.T) {
		_, err := Parse(bytes.NewReader([]byte{0x7F, 'E', 'L', 'F'}))
		if !errors.Is(err, &ParseError{Err: ErrInsufficientHeaderLength, Value: 4}) {
			t.Errorf("unexpected error %v", err)
		}
	})
	t.Run("truncated", func(t *testing.T) {
		b := elftest.Simple(elftest.Class64).Bytes()
		_, err := Parse(bytes.NewReader(b[:len(b)-10]))
		var ierr *IOError
		if !errors.As(err, &ierr) {
			t.Fatalf("want IOError, got %v", err)
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("unexpected cause %v", ierr.Err)
		}
	})
	t.Run("segment", func(t *testing.T) {
		img := elftest.Simple(elftest.Class32)
		img.Segments[0].Align = 3
		_, err := parseImage(t, img)
		if !errors.Is(err, &ParseError{Err: ErrAlignment, Value: uint64(3)}) {
			t.Errorf("unexpected error %v", err)
		}
	})
	t.Run("section", func(t *testing.T) {
		img := elftest.Simple(elftest.Class64)
		img.Sections[1].Type = 0xC
		_, err := parseImage(t, img)
		if !errors.Is(err, &ParseError{Err: ErrSectionType, Value: uint32(0xC)}) {
			t.Errorf("unexpected error %v", err)
		}
	})
}

func TestMetadataLookups(t *testing.T) {
	img := elftest.Simple(elftest.Class64)
	img.Segments = append(img.Segments, elftest.Segment{Type: 1, Flags: 6, Offset: 0x1000, Vaddr: 0x601000, Align: 0x1000})
	img.Sections = append(img.Sections, elftest.Section{Name: ".data", Type: 1, Flags: 3, Align: 8})
	m, err := parseImage(t, img)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if n := len(m.Segments(SegmentLoad)); n != 2 {
		t.Errorf("want 2 LOAD segments, got %d", n)
	}
	if n := len(m.Segments(SegmentDynamic)); n != 0 {
		t.Errorf("want no DYNAMIC segment, got %d", n)
	}
	var names []string
	for _, s := range m.SectionsOfType(SectionProgBits) {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{".text", ".data"}, names); diff != "" {
		t.Errorf("PROGBITS sections mismatch (-want, +got):\n%s", diff)
	}
	if _, ok := m.Section(".bss"); ok {
		t.Errorf(".bss should not be found")
	}
}
