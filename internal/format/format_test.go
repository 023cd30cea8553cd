package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"text/template"

	"github.com/google/go-cmp/cmp"
	"github.com/midbel/elfmeta"
	"github.com/midbel/elfmeta/internal/elftest"
	"gopkg.in/yaml.v3"
	"rsc.io/diff"
)

func parseSimple(t *testing.T, abi byte) *elfmeta.Metadata {
	t.Helper()
	img := elftest.Simple(elftest.Class64)
	img.ABI = abi
	m, err := elfmeta.Parse(bytes.NewReader(img.Bytes()))
	if err != nil {
		t.Fatalf("fail to parse image: %s", err)
	}
	return m
}

func TestTextHeader(t *testing.T) {
	const want = `ELF Header:
  Class:                             ELF64
  Data:                              little endian
  Version:                           1
  OS/ABI:                            Linux
  ABI Version:                       0
  Type:                              EXEC (Executable file)
  Machine:                           Advanced Micro Devices X86-64
  Version:                           0x1
  Entry point address:               0x401000
  Start of program headers:          64 (bytes into file)
  Start of section headers:          138 (bytes into file)
  Flags:                             0x0
  Size of this header:               64 (bytes)
  Size of program headers:           56 (bytes)
  Number of program headers:         1
  Size of section headers:           64 (bytes)
  Number of section headers:         3
  Section header string table index: 2
`
	var buf bytes.Buffer
	if err := Text(&buf, parseSimple(t, 3), Options{Header: true}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := buf.String(); got != want {
		t.Fatalf("Text():\n%s", diff.Format(got, want))
	}
}

func TestTextHeaderUnknownABI(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, parseSimple(t, 0x42), Options{Header: true}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(buf.String(), "OS/ABI:                            Unknown (0x42)\n") {
		t.Errorf("unknown ABI code not printed:\n%s", buf.String())
	}
}

func findLine(str, prefix string) []string {
	for _, line := range strings.Split(str, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			return strings.Fields(line)
		}
	}
	return nil
}

func TestTextTables(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, parseSimple(t, 3), Options{Segments: true, Sections: true, Legend: true}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	str := buf.String()
	if strings.Contains(str, "ELF Header:") {
		t.Errorf("header printed while not selected")
	}
	if !strings.HasPrefix(str, "Program Headers:\n") {
		t.Errorf("output should start with the program headers:\n%s", str)
	}
	if !strings.Contains(str, "\n\nSection Headers:\n") {
		t.Errorf("tables should be separated by an empty line:\n%s", str)
	}
	if !strings.Contains(str, "Key to Flags:") {
		t.Errorf("legend missing:\n%s", str)
	}

	load := []string{
		"LOAD",
		"0x0000000000000000",
		"0x0000000000400000",
		"0x0000000000400000",
		"0x0000000000000100",
		"0x0000000000000100",
		"R", "E",
		"0x1000",
	}
	if diff := cmp.Diff(load, findLine(str, "LOAD")); diff != "" {
		t.Errorf("segment line mismatch (-want, +got):\n%s", diff)
	}
	text := []string{
		"[", "1]",
		".text",
		"PROGBITS",
		"0x0000000000401000",
		"0x0000000000000040",
		"0x0000000000000010",
		"0x0000000000000000",
		"AX",
		"0", "0", "16",
	}
	if diff := cmp.Diff(text, findLine(str, "[ 1]")); diff != "" {
		t.Errorf("section line mismatch (-want, +got):\n%s", diff)
	}
}

func TestTextEmptyTables(t *testing.T) {
	m := &elfmeta.Metadata{
		Header:         parseSimple(t, 3).Header,
		ProgramHeaders: []elfmeta.ProgramHeader{},
		SectionHeaders: []elfmeta.SectionHeader{},
	}
	var buf bytes.Buffer
	if err := Text(&buf, m, Options{Segments: true, Sections: true}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	const want = "There are no program headers in this file.\n\nThere are no sections in this file.\n"
	if got := buf.String(); got != want {
		t.Fatalf("Text():\n%s", diff.Format(got, want))
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "json", parseSimple(t, 3), Options{Header: true, Sections: true}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var doc struct {
		Header struct {
			Class string `json:"class"`
			Entry string `json:"entry"`
			Phnum int    `json:"phnum"`
		} `json:"header"`
		ProgramHeaders []interface{} `json:"program_headers"`
		SectionHeaders []struct {
			Name  string `json:"name"`
			Type  string `json:"type"`
			Addr  string `json:"addr"`
			Flags string `json:"flags"`
		} `json:"section_headers"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %s\n%s", err, buf.String())
	}
	if doc.Header.Class != "ELF64" || doc.Header.Entry != "0x0000000000401000" || doc.Header.Phnum != 1 {
		t.Errorf("unexpected header %+v", doc.Header)
	}
	if doc.ProgramHeaders != nil {
		t.Errorf("program headers printed while not selected")
	}
	if len(doc.SectionHeaders) != 3 {
		t.Fatalf("want 3 sections, got %d", len(doc.SectionHeaders))
	}
	text := doc.SectionHeaders[1]
	if text.Name != ".text" || text.Type != "PROGBITS" || text.Addr != "0x0000000000401000" || text.Flags != "AX" {
		t.Errorf("unexpected section %+v", text)
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "yaml", parseSimple(t, 3), All()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var doc struct {
		Header struct {
			Class   string `yaml:"class"`
			Machine string `yaml:"machine"`
		} `yaml:"header"`
		ProgramHeaders []struct {
			Type  string `yaml:"type"`
			Vaddr string `yaml:"vaddr"`
		} `yaml:"program_headers"`
		SectionHeaders []struct {
			Name string `yaml:"name"`
			Type string `yaml:"type"`
		} `yaml:"section_headers"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid yaml: %s\n%s", err, buf.String())
	}
	if doc.Header.Class != "ELF64" || doc.Header.Machine != "Advanced Micro Devices X86-64" {
		t.Errorf("unexpected header %+v", doc.Header)
	}
	if len(doc.ProgramHeaders) != 1 || doc.ProgramHeaders[0].Type != "LOAD" || doc.ProgramHeaders[0].Vaddr != "0x0000000000400000" {
		t.Errorf("unexpected program headers %+v", doc.ProgramHeaders)
	}
	if len(doc.SectionHeaders) != 3 || doc.SectionHeaders[2].Name != ".shstrtab" || doc.SectionHeaders[2].Type != "STRTAB" {
		t.Errorf("unexpected section headers %+v", doc.SectionHeaders)
	}
}

func TestLookup(t *testing.T) {
	for _, n := range []string{"text", "json", "yaml"} {
		if _, err := Lookup(n); err != nil {
			t.Errorf("%s: unexpected error: %s", n, err)
		}
	}
	if _, err := Lookup("xml"); !errors.Is(err, ErrFormat) {
		t.Errorf("xml: unexpected error %v", err)
	}
}

func TestExecute(t *testing.T) {
	tpl := template.Must(template.New("test").Parse("first\n{{if .}}\n{{end}}\n  \nsecond {{.}}\n\n"))
	var buf bytes.Buffer
	if err := execute(tpl, &buf, "line"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	const want = "first\nsecond line\n"
	if got := buf.String(); got != want {
		t.Fatalf("execute():\n%s", diff.Format(got, want))
	}
	bad := template.Must(template.New("bad").Parse("{{.Missing}}"))
	if err := execute(bad, &buf, 42); err == nil {
		t.Errorf("expected template error")
	}
}
