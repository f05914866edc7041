// =============================================================================
// XML to CSV Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
// No configuration is required: the defaults reproduce the plain
// "xml2csv <xml_path> [<csv_path>]" behavior. Values can be overridden by:
//   1. An optional YAML file passed with --config
//   2. Environment variables prefixed with XML2CSV_
//      (nested keys use underscores, e.g. XML2CSV_CSV_DELIMITER)
//
// Later sources win: defaults < file < environment. Command-line flags are
// applied on top by the cmd package.
//
// =============================================================================

package config

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "XML2CSV"

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// CSV contains settings for the CSV output.
	CSV CSVSettings `mapstructure:"csv" yaml:"csv"`

	// Output selects the output format.
	Output OutputSettings `mapstructure:"output" yaml:"output"`

	// Batch contains settings for the 'batch' command.
	Batch BatchSettings `mapstructure:"batch" yaml:"batch"`
}

// CSVSettings contains settings for writing CSV files.
type CSVSettings struct {
	// Delimiter is the field separator. Must be a single character.
	// Default: ","
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// UseCRLF terminates lines with \r\n instead of \n.
	// Default: true
	UseCRLF bool `mapstructure:"use_crlf" yaml:"use_crlf"`

	// WriteHeader controls whether the header row is written.
	// Default: true
	WriteHeader bool `mapstructure:"write_header" yaml:"write_header"`

	// SequenceHeader is the name of the first column.
	// Default: "Sequence"
	SequenceHeader string `mapstructure:"sequence_header" yaml:"sequence_header"`
}

// OutputSettings selects how the converted table is written.
type OutputSettings struct {
	// Format is "csv" or "xlsx".
	// Default: "csv"
	Format string `mapstructure:"format" yaml:"format"`

	// SheetName is the worksheet name used for xlsx output.
	// Default: "Sheet1"
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`
}

// BatchSettings contains directory settings for batch conversion.
type BatchSettings struct {
	// InputDir is scanned for *.xml files.
	// Default: "./input"
	InputDir string `mapstructure:"input_dir" yaml:"input_dir"`

	// OutputDir receives the converted files.
	// Default: "./output"
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// InputArchiveDir receives converted sources when ArchiveInputs is set.
	// Default: "./input_archive"
	InputArchiveDir string `mapstructure:"input_archive_dir" yaml:"input_archive_dir"`

	// ArchiveInputs moves each successfully converted source to InputArchiveDir.
	// Default: false
	ArchiveInputs bool `mapstructure:"archive_inputs" yaml:"archive_inputs"`

	// OutputNameFormat names output files.
	// Placeholders:
	//   {name}      - Source file name without extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// The extension of the output format is enforced.
	// Default: "{name}"
	OutputNameFormat string `mapstructure:"output_name_format" yaml:"output_name_format"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		CSV: CSVSettings{
			Delimiter:      ",",
			UseCRLF:        true,
			WriteHeader:    true,
			SequenceHeader: "Sequence",
		},
		Output: OutputSettings{
			Format:    FormatCSV,
			SheetName: "Sheet1",
		},
		Batch: BatchSettings{
			InputDir:         "./input",
			OutputDir:        "./output",
			InputArchiveDir:  "./input_archive",
			ArchiveInputs:    false,
			OutputNameFormat: "{name}",
		},
	}
}

// Load builds the configuration from defaults, the optional file at
// configPath (skipped when empty) and XML2CSV_* environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that environment overrides apply to
// keys that are absent from the file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log_level", d.LogLevel)

	v.SetDefault("csv.delimiter", d.CSV.Delimiter)
	v.SetDefault("csv.use_crlf", d.CSV.UseCRLF)
	v.SetDefault("csv.write_header", d.CSV.WriteHeader)
	v.SetDefault("csv.sequence_header", d.CSV.SequenceHeader)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.sheet_name", d.Output.SheetName)

	v.SetDefault("batch.input_dir", d.Batch.InputDir)
	v.SetDefault("batch.output_dir", d.Batch.OutputDir)
	v.SetDefault("batch.input_archive_dir", d.Batch.InputArchiveDir)
	v.SetDefault("batch.archive_inputs", d.Batch.ArchiveInputs)
	v.SetDefault("batch.output_name_format", d.Batch.OutputNameFormat)
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values the writers cannot use.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	if _, err := c.CSV.Comma(); err != nil {
		return err
	}

	if c.CSV.SequenceHeader == "" {
		return fmt.Errorf("csv.sequence_header must not be empty")
	}

	c.Output.Format = strings.ToLower(c.Output.Format)
	switch c.Output.Format {
	case FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("unknown output.format %q (want %q or %q)", c.Output.Format, FormatCSV, FormatXLSX)
	}

	if c.Output.Format == FormatXLSX && c.Output.SheetName == "" {
		return fmt.Errorf("output.sheet_name must not be empty")
	}

	if c.Batch.OutputNameFormat == "" {
		return fmt.Errorf("batch.output_name_format must not be empty")
	}

	return nil
}

// Comma returns the delimiter as a rune.
func (s CSVSettings) Comma() (rune, error) {
	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("csv.delimiter must be a single character, got %q", s.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("csv.delimiter %q is not allowed", s.Delimiter)
	}
	return r, nil
}

// Extension returns the file extension of the configured output format.
func (c *Config) Extension() string {
	return "." + c.Output.Format
}

// WriteYAML writes the configuration as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
