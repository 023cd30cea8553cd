package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/midbel/cli"
	"github.com/midbel/elfmeta/archive"
	"github.com/midbel/elfmeta/internal/format"
)

func runArchive(cmd *cli.Command, args []string) error {
	var (
		header   = cmd.Flag.Bool("H", false, "print the file header")
		segments = cmd.Flag.Bool("l", false, "print the program headers")
		sections = cmd.Flag.Bool("S", false, "print the section headers")
		kind     = cmd.Flag.String("f", "", "output format (text, json, yaml)")
		file     = cmd.Flag.String("c", "", "configuration file")
	)
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*file, *kind, 0)
	if err != nil {
		return err
	}
	write, err := format.Lookup(cfg.Format)
	if err != nil {
		return err
	}
	var (
		opts = selectTables(cfg, *header, *segments, *sections)
		w    = bufio.NewWriter(os.Stdout)
	)
	defer w.Flush()
	for _, a := range cmd.Flag.Args() {
		list, err := listArchive(a)
		if err != nil {
			return fileError(a, err)
		}
		for _, m := range list {
			if cfg.Format == "text" {
				fmt.Fprintf(w, "File: %s(%s)\n\n", a, m.Name)
			}
			if err := write(w, m.Metadata, opts); err != nil {
				return fileError(a, err)
			}
			if cfg.Format == "text" {
				fmt.Fprintln(w)
			}
		}
	}
	return nil
}

func listArchive(file string) ([]archive.Member, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return archive.List(bufio.NewReader(r))
}
