package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xml2csv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ".csv", cfg.Extension())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
csv:
  delimiter: ";"
  use_crlf: false
output:
  format: XLSX
  sheet_name: Items
batch:
  output_name_format: "{name}_{timestamp}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.False(t, cfg.CSV.UseCRLF)
	assert.True(t, cfg.CSV.WriteHeader, "unset keys keep their default")
	assert.Equal(t, FormatXLSX, cfg.Output.Format)
	assert.Equal(t, "Items", cfg.Output.SheetName)
	assert.Equal(t, "{name}_{timestamp}", cfg.Batch.OutputNameFormat)
	assert.Equal(t, "./input", cfg.Batch.InputDir)
	assert.Equal(t, ".xlsx", cfg.Extension())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "csv:\n  delimiter: \";\"\n")
	t.Setenv("XML2CSV_CSV_DELIMITER", "|")
	t.Setenv("XML2CSV_BATCH_ARCHIVE_INPUTS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "|", cfg.CSV.Delimiter)
	assert.True(t, cfg.Batch.ArchiveInputs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "tab delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "\t" }},
		{name: "multi-char delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "::" }, errMsg: "single character"},
		{name: "quote delimiter", mutate: func(c *Config) { c.CSV.Delimiter = `"` }, errMsg: "not allowed"},
		{name: "newline delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "\n" }, errMsg: "not allowed"},
		{name: "unknown format", mutate: func(c *Config) { c.Output.Format = "json" }, errMsg: "unknown output.format"},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "chatty" }, errMsg: "unknown log_level"},
		{name: "empty sequence header", mutate: func(c *Config) { c.CSV.SequenceHeader = "" }, errMsg: "sequence_header"},
		{name: "empty name format", mutate: func(c *Config) { c.Batch.OutputNameFormat = "" }, errMsg: "output_name_format"},
		{name: "xlsx without sheet", mutate: func(c *Config) {
			c.Output.Format = FormatXLSX
			c.Output.SheetName = ""
		}, errMsg: "sheet_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().WriteYAML(&buf))

	var back Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *Default(), back)
	assert.Contains(t, buf.String(), "sequence_header: Sequence")
}
