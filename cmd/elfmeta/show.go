package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/midbel/cli"
	"github.com/midbel/elfmeta/internal/format"
)

func runShow(cmd *cli.Command, args []string) error {
	var (
		header   = cmd.Flag.Bool("H", false, "print the file header")
		segments = cmd.Flag.Bool("l", false, "print the program headers")
		sections = cmd.Flag.Bool("S", false, "print the section headers")
		kind     = cmd.Flag.String("f", "", "output format (text, json, yaml)")
		file     = cmd.Flag.String("c", "", "configuration file")
		jobs     = cmd.Flag.Int("j", 0, "number of files parsed concurrently")
	)
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*file, *kind, *jobs)
	if err != nil {
		return err
	}
	write, err := format.Lookup(cfg.Format)
	if err != nil {
		return err
	}
	var (
		opts  = selectTables(cfg, *header, *segments, *sections)
		files = cmd.Flag.Args()
		w     = bufio.NewWriter(os.Stdout)
		fail  bool
	)
	defer w.Flush()
	for i, r := range parseFiles(files, cfg.Jobs) {
		if r.Err != nil {
			w.Flush()
			log.Println(fileError(r.File, r.Err))
			fail = true
			continue
		}
		if len(files) > 1 && cfg.Format == "text" {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "File: %s\n\n", r.File)
		}
		if err := write(w, r.Metadata, opts); err != nil {
			return fileError(r.File, err)
		}
	}
	if fail {
		return errFailed
	}
	return nil
}
