package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	EnvFormat = "ELFMETA_FORMAT"
	EnvJobs   = "ELFMETA_JOBS"
	EnvConfig = "ELFMETA_CONFIG"
)

var ErrInvalid = errors.New("invalid configuration")

var formats = []string{"text", "json", "yaml"}

// Config holds the defaults of the command line tool. Tables selected here
// are printed when no table flag is given.
type Config struct {
	Format   string `toml:"format"`
	Jobs     int    `toml:"jobs"`
	Header   bool   `toml:"header"`
	Segments bool   `toml:"segments"`
	Sections bool   `toml:"sections"`
	Legend   bool   `toml:"legend"`
}

// Default returns the configuration used without a file, updated with the
// environment.
func Default() Config {
	c := Config{
		Format: "text",
		Jobs:   runtime.NumCPU(),
		Legend: true,
	}
	if f := os.Getenv(EnvFormat); f != "" {
		c.Format = f
	}
	if j, err := strconv.Atoi(os.Getenv(EnvJobs)); err == nil {
		c.Jobs = j
	}
	return c
}

// Load reads the configuration file. An empty file name falls back to the
// file named by ELFMETA_CONFIG; without any file, the defaults are returned.
func Load(file string) (Config, error) {
	if file == "" {
		file = os.Getenv(EnvConfig)
	}
	if file == "" {
		c := Default()
		return c, c.Validate()
	}
	f, err := os.Open(file)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return c, fmt.Errorf("%s: %w", file, err)
	}
	return c, nil
}

// Decode reads a configuration from r on top of the defaults.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if !validFormat(c.Format) {
		return fmt.Errorf("%w: unsupported format %q", ErrInvalid, c.Format)
	}
	if c.Jobs <= 0 {
		return fmt.Errorf("%w: jobs should be greater than 0 (%d)", ErrInvalid, c.Jobs)
	}
	return nil
}

// Tables reports which tables to print. When the configuration selects
// none of them, all are selected.
func (c Config) Tables() (header, segments, sections bool) {
	if !c.Header && !c.Segments && !c.Sections {
		return true, true, true
	}
	return c.Header, c.Segments, c.Sections
}

func validFormat(f string) bool {
	for _, x := range formats {
		if x == f {
			return true
		}
	}
	return false
}
