package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/midbel/elfmeta"
	"github.com/midbel/elfmeta/internal/config"
	"github.com/midbel/elfmeta/internal/format"
	"golang.org/x/sync/errgroup"
)

var errFailed = errors.New("some files could not be parsed")

// loadConfig reads the configuration file and applies the flags given on
// the command line on top of it.
func loadConfig(file, kind string, jobs int) (config.Config, error) {
	cfg, err := config.Load(file)
	if err != nil {
		return cfg, err
	}
	if kind != "" {
		cfg.Format = kind
	}
	if jobs > 0 {
		cfg.Jobs = jobs
	}
	return cfg, cfg.Validate()
}

// selectTables picks the tables given by the flags, or the ones of the
// configuration when no flag is set.
func selectTables(cfg config.Config, header, segments, sections bool) format.Options {
	opts := format.Options{
		Header:   header,
		Segments: segments,
		Sections: sections,
		Legend:   cfg.Legend,
	}
	if !header && !segments && !sections {
		opts.Header, opts.Segments, opts.Sections = cfg.Tables()
	}
	return opts
}

func openFile(file string) (*elfmeta.Metadata, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return elfmeta.Parse(f)
}

type result struct {
	File     string
	Metadata *elfmeta.Metadata
	Err      error
}

// parseFiles parses files concurrently, at most jobs at a time. Results are
// returned in the order of files.
func parseFiles(files []string, jobs int) []result {
	var (
		list = make([]result, len(files))
		grp  errgroup.Group
	)
	grp.SetLimit(jobs)
	for i := range files {
		i := i
		grp.Go(func() error {
			m, err := openFile(files[i])
			list[i] = result{
				File:     files[i],
				Metadata: m,
				Err:      err,
			}
			return nil
		})
	}
	grp.Wait()
	return list
}

func fileError(file string, err error) error {
	return fmt.Errorf("%s: %w", file, err)
}
