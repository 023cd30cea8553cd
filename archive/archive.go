// Package archive reads the ELF objects stored in a static library.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/midbel/elfmeta"
	"github.com/midbel/tape"
	"github.com/midbel/tape/ar"
)

// MaxMemberSize is the largest member read from an archive.
const MaxMemberSize = 1 << 30

var ErrMemberSize = errors.New("member too large")

var elfMagic = []byte{0x7F, 'E', 'L', 'F'}

// Member is an ELF object found in an archive.
type Member struct {
	Name     string
	Size     int64
	Metadata *elfmeta.Metadata
}

// Walk calls fn for every ELF member of the ar archive read from r, in
// archive order. The symbol table, the long name table and members that are
// not ELF objects are skipped. Walk stops at the first error returned by fn
// or by the parser.
func Walk(r io.Reader, fn func(name string, m *elfmeta.Metadata) error) error {
	return walk(r, func(h *tape.Header, m *elfmeta.Metadata) error {
		return fn(memberName(h.Filename), m)
	})
}

// List returns the ELF members of the archive read from r.
func List(r io.Reader) ([]Member, error) {
	var list []Member
	err := walk(r, func(h *tape.Header, m *elfmeta.Metadata) error {
		list = append(list, Member{
			Name:     memberName(h.Filename),
			Size:     h.Size,
			Metadata: m,
		})
		return nil
	})
	return list, err
}

func walk(r io.Reader, fn func(*tape.Header, *elfmeta.Metadata) error) error {
	rs, err := ar.NewReader(r)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	for {
		h, err := rs.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		name := memberName(h.Filename)
		if skipMember(name) {
			continue
		}
		if h.Size < 0 || h.Size > MaxMemberSize {
			return fmt.Errorf("archive: %s: %w (%d bytes)", name, ErrMemberSize, h.Size)
		}
		var buf bytes.Buffer
		n, err := io.Copy(&buf, io.LimitReader(rs, h.Size))
		if err != nil {
			return fmt.Errorf("archive: %s: %w", name, err)
		}
		if n < h.Size {
			return fmt.Errorf("archive: %s: %w", name, io.ErrUnexpectedEOF)
		}
		body := buf.Bytes()
		if !bytes.HasPrefix(body, elfMagic) {
			continue
		}
		m, err := elfmeta.Parse(bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := fn(h, m); err != nil {
			return err
		}
	}
	return nil
}

func memberName(name string) string {
	name = strings.TrimSpace(name)
	if name == "/" || name == "//" {
		return name
	}
	return strings.TrimSuffix(name, "/")
}

func skipMember(name string) bool {
	switch name {
	case "", "/", "//", "/SYM64/", "/SYM64", "__.SYMDEF", "__.SYMDEF SORTED":
		return true
	default:
		return false
	}
}
