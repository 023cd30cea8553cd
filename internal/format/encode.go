package format

import (
	"encoding/json"
	"io"

	"github.com/midbel/elfmeta"
	"gopkg.in/yaml.v3"
)

type document struct {
	Header         *elfmeta.Header         `json:"header,omitempty" yaml:"header,omitempty"`
	ProgramHeaders []elfmeta.ProgramHeader `json:"program_headers,omitempty" yaml:"program_headers,omitempty"`
	SectionHeaders []elfmeta.SectionHeader `json:"section_headers,omitempty" yaml:"section_headers,omitempty"`
}

func makeDocument(m *elfmeta.Metadata, opts Options) document {
	var doc document
	if opts.Header {
		hdr := m.Header
		doc.Header = &hdr
	}
	if opts.Segments {
		doc.ProgramHeaders = m.ProgramHeaders
	}
	if opts.Sections {
		doc.SectionHeaders = m.SectionHeaders
	}
	return doc
}

// JSON writes the selected parts of m as an indented JSON object.
func JSON(w io.Writer, m *elfmeta.Metadata, opts Options) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(makeDocument(m, opts))
}

// YAML writes the selected parts of m as a YAML document.
func YAML(w io.Writer, m *elfmeta.Metadata, opts Options) error {
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(makeDocument(m, opts)); err != nil {
		return err
	}
	return e.Close()
}
