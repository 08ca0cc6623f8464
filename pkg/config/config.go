// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// Package config holds the settings shared by the dataset conversion commands.
//
// Values come from environment variables prefixed with MLDATAKIT_ (for instance
// MLDATAKIT_DATA_DIR), optionally loaded from a `.env` file. Commands use them as
// defaults for their flags.
package config

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/ml-data-kit/mldatakit/pkg/support/fsutil"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of all environment variables read by Load.
const EnvPrefix = "MLDATAKIT"

// Supported container formats.
const (
	FormatHDF5  = "h5"
	FormatArrow = "arrow"
)

// Config of a conversion run.
type Config struct {
	// DataDir is where archives are downloaded and extracted. Empty means the current directory.
	DataDir string `envconfig:"DATA_DIR" default:""`

	// OutputDir is where the per-split containers are written. Empty means the current directory.
	OutputDir string `envconfig:"OUTPUT_DIR" default:""`

	// Format of the output containers: "h5" or "arrow".
	Format string `envconfig:"FORMAT" default:"h5"`

	// CompressionLevel is the gzip level (1-9) used for HDF5 datasets.
	CompressionLevel int `envconfig:"COMPRESSION_LEVEL" default:"4"`

	// ShowProgress enables the download progress bar.
	ShowProgress bool `envconfig:"SHOW_PROGRESS" default:"true"`

	FlowersBaseURL  string `envconfig:"FLOWERS_BASE_URL" default:"https://www.robots.ox.ac.uk/~vgg/data/flowers/102/"`
	TinyImageNetURL string `envconfig:"TINYIMAGENET_URL" default:"http://cs231n.stanford.edu/tiny-imagenet-200.zip"`

	// UserAgent sent with downloads, if not empty.
	UserAgent string `envconfig:"USER_AGENT" default:""`
}

// Load reads the configuration from the environment. If envFile is not empty and
// exists, it is loaded first; variables already set in the environment take precedence.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		exists, err := fsutil.FileExists(envFile)
		if err != nil {
			return nil, err
		}
		if exists {
			if err := godotenv.Load(envFile); err != nil {
				return nil, errors.Wrapf(err, "failed to load environment file %q", envFile)
			}
		}
	}
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process configuration from environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values are usable.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatHDF5, FormatArrow:
	default:
		return errors.Errorf("unknown container format %q, valid values are %q and %q", c.Format, FormatHDF5, FormatArrow)
	}
	if c.CompressionLevel < 1 || c.CompressionLevel > 9 {
		return errors.Errorf("compression level must be between 1 and 9, got %d", c.CompressionLevel)
	}
	return nil
}

// ResolveDirs expands "~" in DataDir and OutputDir, replaces empty values by the
// current directory and creates OutputDir if needed.
func (c *Config) ResolveDirs() error {
	for _, dir := range []*string{&c.DataDir, &c.OutputDir} {
		if *dir == "" {
			*dir = "."
		}
		expanded, err := fsutil.ReplaceTildeInDir(*dir)
		if err != nil {
			return err
		}
		*dir = expanded
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %q", c.OutputDir)
	}
	return nil
}

// Extension returns the file extension (with the dot) of the configured container format.
func (c *Config) Extension() string {
	return "." + c.Format
}

// RegisterFlags defines the flags shared by the commands in fs, using the current
// values as defaults and writing the parsed values back to c.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataDir, "data", c.DataDir, "Directory where the dataset is downloaded and extracted. Defaults to the current directory.")
	fs.StringVar(&c.OutputDir, "out", c.OutputDir, "Directory where the split containers are written. Defaults to the current directory.")
	fs.StringVar(&c.Format, "format", c.Format, "Format of the output containers: \"h5\" (HDF5) or \"arrow\" (Arrow IPC file).")
	fs.IntVar(&c.CompressionLevel, "compression", c.CompressionLevel, "Gzip compression level (1-9) of the HDF5 datasets.")
	fs.BoolVar(&c.ShowProgress, "progress", c.ShowProgress, "Display a progress bar while downloading.")
}
