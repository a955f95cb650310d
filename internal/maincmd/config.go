// Package maincmd is the CLI driver for sixc: command dispatch, flag
// parsing, configuration loading, and wiring lang/unit and lang/link to
// stdio. Grounded directly on the teacher's internal/maincmd (maincmd.go,
// tokenize.go, parse.go, resolve.go): the same mainer.Cmd/Stdio/ExitCode
// shape, the same reflection-based command-table dispatch, generalized
// from nenuphar's tokenize/parse/resolve trio to this toolchain's
// tokenize/preprocess/parse/analyse/build pipeline stages.
package maincmd

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config is the CLI driver's configuration, per SPEC_FULL.md's
// Configuration section: layered struct defaults, then environment
// variables (SIXC_* via caarlos0/env/v6 struct tags), then an optional
// sixc.yaml project file (decoded with gopkg.in/yaml.v3), each layer
// overriding the previous.
type Config struct {
	// MapperFlag overrides the iNES header's flags-6 byte lang/link writes,
	// settling the mapper-flag Open Question decided in DESIGN.md (default
	// 0x00, NROM).
	MapperFlag byte `yaml:"mapper_flag" env:"MAPPER_FLAG" envDefault:"0"`

	// IncludeDirs is loaded from the environment and the project file, but no
	// pipeline stage reads it: #include resolves only against the including
	// file's own directory.
	IncludeDirs []string `yaml:"include_dirs" env:"INCLUDE_DIRS" envSeparator:","`

	// Verbose makes build print one "built" line per compiled unit and, once
	// linking succeeds, one "linked" line per input path.
	Verbose bool `yaml:"verbose" env:"VERBOSE" envDefault:"false"`
}

// LoadConfig builds a Config from struct defaults, SIXC_*-prefixed
// environment variables, and finally path (if it exists), in that
// override order.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SIXC_"}); err != nil {
		return nil, fmt.Errorf("reading environment configuration: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
