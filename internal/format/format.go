// Package format renders the metadata of ELF files as text, JSON or YAML.
package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/midbel/elfmeta"
)

var ErrFormat = errors.New("unsupported format")

// Options selects what gets printed.
type Options struct {
	Header   bool
	Segments bool
	Sections bool
	Legend   bool
}

// All selects every table and the flag legend.
func All() Options {
	return Options{
		Header:   true,
		Segments: true,
		Sections: true,
		Legend:   true,
	}
}

type Printer func(io.Writer, *elfmeta.Metadata, Options) error

var printers = map[string]Printer{
	"text": Text,
	"json": JSON,
	"yaml": YAML,
}

// Lookup returns the printer registered under name.
func Lookup(name string) (Printer, error) {
	p, ok := printers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormat, name)
	}
	return p, nil
}

// Write renders m in the given format.
func Write(w io.Writer, name string, m *elfmeta.Metadata, opts Options) error {
	p, err := Lookup(name)
	if err != nil {
		return err
	}
	return p(w, m, opts)
}
