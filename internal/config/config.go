// Package config handles opcodec.toml CLI configuration.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/opcodec/errors"
)

// FileName is the default configuration file name.
const FileName = "opcodec.toml"

// Config represents an opcodec.toml file.
type Config struct {
	Output Output `toml:"output"`
	Log    Log    `toml:"log"`
	Heap   Heap   `toml:"heap"`
}

// Output configures where encoded artifacts are written.
type Output struct {
	Dir      string `toml:"dir"`
	Name     string `toml:"name"`
	Sidecar  bool   `toml:"sidecar"`
	Envelope bool   `toml:"envelope"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `toml:"level"`
}

// Heap configures the wazero heap used by -load.
type Heap struct {
	Pages            uint32 `toml:"pages"`
	MemoryLimitPages uint32 `toml:"memory-limit-pages"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Output: Output{
			Dir:     "dist",
			Name:    "templates.gbx",
			Sidecar: true,
		},
		Log:  Log{Level: "info"},
		Heap: Heap{Pages: 1},
	}
}

// Load parses the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "cannot read "+path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse error in "+path)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	if cfg.Output.Name == "" {
		return nil, errors.InvalidInput(errors.PhaseConfig, "output.name must not be empty")
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Log.Level).
			Cause(err).
			Detail("unknown log level %q", c.Log.Level).
			Build()
	}
	return lvl, nil
}
