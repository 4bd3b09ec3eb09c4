// Package config holds the configuration of a tzcompact run.
package config

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ngrash/go-zonedb/tzcode"
	"github.com/ngrash/go-zonedb/tzenc"
	"github.com/ngrash/go-zonedb/tzmem"
)

// Config represents the configuration of a run.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Encoding EncodingConfig `yaml:"encoding"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Encoding.Validate(); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if err := c.Input.Validate(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level slog.Level `yaml:"level"`
}

// EncodingConfig holds the table layout and the code configuration.
// It is held constant for the whole run.
type EncodingConfig struct {
	Mode        tzenc.Mode    `yaml:"mode"`
	EpochYear   int           `yaml:"epoch_year"`
	MinYear     int           `yaml:"min_year"`
	MaxYear     int           `yaml:"max_year"`
	Granularity time.Duration `yaml:"granularity"`
	// Sizes overrides the record sizes of the mode.
	Sizes *tzmem.Sizes `yaml:"sizes"`
}

// Codec returns the code configuration.
func (c *EncodingConfig) Codec() tzcode.Config {
	return tzcode.Config{
		EpochYear:   c.EpochYear,
		MinYear:     c.MinYear,
		MaxYear:     c.MaxYear,
		Granularity: c.Granularity,
	}
}

// Options returns the encoder options of the configuration.
func (c *EncodingConfig) Options() []tzenc.Option {
	var opts []tzenc.Option
	if c.Sizes != nil {
		opts = append(opts, tzenc.WithSizes(*c.Sizes))
	}
	return opts
}

// Validate validates the encoding configuration.
func (c *EncodingConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.In(tzenc.Basic, tzenc.Extended)),
		validation.Field(&c.EpochYear, validation.Required),
		validation.Field(&c.MaxYear, validation.Required),
		validation.Field(&c.Granularity, validation.Required),
		validation.Field(&c.Sizes),
	); err != nil {
		return err
	}
	return c.Codec().Validate()
}

// InputConfig holds the location of the model database.
type InputConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the input configuration.
func (c *InputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// OutputConfig holds the location and form of the snapshot.
type OutputConfig struct {
	Path     string `yaml:"path"`
	Compress bool   `yaml:"compress"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with the defaults of the generated zone databases.
func NewDefaultConfig() *Config {
	codec := tzcode.DefaultConfig()
	return &Config{
		Log: LogConfig{
			Level: slog.LevelInfo,
		},
		Encoding: EncodingConfig{
			Mode:        tzenc.Basic,
			EpochYear:   codec.EpochYear,
			MinYear:     codec.MinYear,
			MaxYear:     codec.MaxYear,
			Granularity: codec.Granularity,
		},
		Input: InputConfig{
			Path: "zonedb.yaml",
		},
		Output: OutputConfig{
			Path: "zonedb.snap",
		},
	}
}
