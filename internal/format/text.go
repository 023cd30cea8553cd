package format

import (
	"fmt"
	"io"
	"text/tabwriter"
	"text/template"

	"github.com/midbel/elfmeta"
	"github.com/midbel/textwrap"
)

const headerText = `ELF Header:
  Class:                             {{.WordWidth}}
  Data:                              {{.Endianness}}
  Version:                           {{.HeaderVersion}}
  OS/ABI:                            {{.ABI}}{{if not .ABI.Known}} ({{printf "%#02x" (code .ABI)}}){{end}}
  ABI Version:                       {{.ABIVersion}}
  Type:                              {{.Type}}
  Machine:                           {{.Arch}}{{if not .Arch.Known}} ({{printf "%#04x" (code .Arch)}}){{end}}
  Version:                           {{printf "%#x" .Version}}
  Entry point address:               {{printf "%#x" .Entry}}
  Start of program headers:          {{printf "%d" .ProgramHeaderOffset}} (bytes into file)
  Start of section headers:          {{printf "%d" .SectionHeaderOffset}} (bytes into file)
  Flags:                             {{printf "%#x" .Flags}}
  Size of this header:               {{.Size}} (bytes)
  Size of program headers:           {{.ProgramHeaderEntrySize}} (bytes)
  Number of program headers:         {{.ProgramHeaderCount}}
  Size of section headers:           {{.SectionHeaderEntrySize}} (bytes)
  Number of section headers:         {{.SectionHeaderCount}}
  Section header string table index: {{.SectionNameIndex}}
`

var headerTemplate = template.Must(template.New("header").Funcs(template.FuncMap{
	"code": rawCode,
}).Parse(headerText))

func rawCode(v interface{}) uint64 {
	switch v := v.(type) {
	case elfmeta.Abi:
		return uint64(v)
	case elfmeta.Arch:
		return uint64(v)
	default:
		return 0
	}
}

// Text renders m the way readelf does for its header, program headers and
// section headers views.
func Text(w io.Writer, m *elfmeta.Metadata, opts Options) error {
	var parts []func(io.Writer) error
	if opts.Header {
		parts = append(parts, func(w io.Writer) error {
			return execute(headerTemplate, w, m.Header)
		})
	}
	if opts.Segments {
		parts = append(parts, func(w io.Writer) error {
			return writeSegments(w, m)
		})
	}
	if opts.Sections {
		parts = append(parts, func(w io.Writer) error {
			return writeSections(w, m, opts.Legend)
		})
	}
	for i, fn := range parts {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := fn(w); err != nil {
			return err
		}
	}
	return nil
}

func writeSegments(w io.Writer, m *elfmeta.Metadata) error {
	if len(m.ProgramHeaders) == 0 {
		_, err := io.WriteString(w, "There are no program headers in this file.\n")
		return err
	}
	fmt.Fprintln(w, "Program Headers:")

	tw := tabwriter.NewWriter(w, 12, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "  Type\tOffset\tVirtAddr\tPhysAddr\tFileSiz\tMemSiz\tFlg\tAlign")
	for _, p := range m.ProgramHeaders {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\t%#x\n",
			p.Type,
			p.Offset,
			p.VirtualAddress,
			p.PhysicalAddress,
			p.FileSize,
			p.MemorySize,
			p.Flags,
			p.Align,
		)
	}
	return tw.Flush()
}

func writeSections(w io.Writer, m *elfmeta.Metadata, legend bool) error {
	if len(m.SectionHeaders) == 0 {
		_, err := io.WriteString(w, "There are no sections in this file.\n")
		return err
	}
	fmt.Fprintln(w, "Section Headers:")

	tw := tabwriter.NewWriter(w, 12, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "  [Nr]\tName\tType\tAddress\tOffset\tSize\tEntSize\tFlags\tLink\tInfo\tAlign")
	for i, s := range m.SectionHeaders {
		fmt.Fprintf(tw, "  [%2d]\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			i,
			s.Name,
			s.Type,
			s.Address,
			s.Offset,
			s.Size,
			s.EntrySize,
			s.Flags,
			s.Link,
			s.Info,
			s.Align,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if legend {
		_, err := fmt.Fprintln(w, textwrap.Wrap(elfmeta.FlagsLegend()))
		return err
	}
	return nil
}
