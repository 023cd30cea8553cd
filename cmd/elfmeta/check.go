package main

import (
	"fmt"

	"github.com/midbel/cli"
)

func runCheck(cmd *cli.Command, args []string) error {
	var (
		file = cmd.Flag.String("c", "", "configuration file")
		jobs = cmd.Flag.Int("j", 0, "number of files parsed concurrently")
	)
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*file, "", *jobs)
	if err != nil {
		return err
	}
	var fail bool
	for _, r := range parseFiles(cmd.Flag.Args(), cfg.Jobs) {
		if r.Err != nil {
			fmt.Println(fileError(r.File, r.Err))
			fail = true
			continue
		}
		fmt.Printf("%s: ok (%s, %s, %s)\n", r.File, r.Metadata.Header.WordWidth, r.Metadata.Header.Endianness, r.Metadata.Header.Type)
	}
	if fail {
		return errFailed
	}
	return nil
}
