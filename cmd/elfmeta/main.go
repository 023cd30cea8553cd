package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/midbel/cli"
	"github.com/midbel/elfmeta"
)

const helpText = `{{.Name}} decodes the header and the program and section tables of ELF objects,
executables, shared libraries and static libraries. File contents are never
loaded: only the metadata is read.

Usage: {{.Name}} <command> [options] <file...>

Commands:
{{range .Commands}}
  {{printf "%-9s" .String}}{{.Short}}{{if .Alias}} (alias: {{join .Alias ", "}}){{end}}{{end}}

Run "{{.Name}} <command> -h" to list the options of a command.
`

var commands = []*cli.Command{
	{
		Usage:   "show [-H] [-l] [-S] [-f <format>] [-c <config>] [-j <jobs>] <file...>",
		Short:   "print the header, program headers and section headers of ELF files",
		Alias:   []string{"info"},
		Run:     runShow,
		Default: true,
	},
	{
		Usage: "check [-c <config>] [-j <jobs>] <file...>",
		Short: "verify that files are well formed ELF files",
		Alias: []string{"verify"},
		Run:   runCheck,
	},
	{
		Usage: "archive [-H] [-l] [-S] [-f <format>] [-c <config>] <library...>",
		Short: "print the metadata of the ELF members of static libraries",
		Alias: []string{"ar"},
		Run:   runArchive,
	},
	{
		Usage: "version",
		Short: "print the version",
		Run:   runVersion,
	},
}

func main() {
	log.SetFlags(0)
	cli.RunAndExit(commands, usage)
}

func usage() {
	writeHelp(os.Stderr, filepath.Base(os.Args[0]))
	os.Exit(2)
}

func writeHelp(w io.Writer, name string) error {
	fs := template.FuncMap{
		"join": strings.Join,
	}
	help := template.Must(template.New("help").Funcs(fs).Parse(helpText))
	return help.Execute(w, struct {
		Name     string
		Commands []*cli.Command
	}{
		Name:     name,
		Commands: commands,
	})
}

func runVersion(cmd *cli.Command, args []string) error {
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", filepath.Base(os.Args[0]), elfmeta.Version)
	return nil
}
