// =============================================================================
// XML to CSV Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It converts one flat XML
// document into a table and writes it out.
//
// CONVERSION PIPELINE:
//   1. Check that the source is an existing regular file
//   2. Parse the XML document into items
//   3. Column discovery: union of attribute names and child tags, sorted
//   4. Row emission: one row per item, in document order
//   5. Write the output file (CSV or XLSX)
//
// Column discovery always sees every item before any row is produced, so a
// column that only appears in a later item is still present (empty) in
// earlier rows.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/xml-to-csv-conversion/internal/config"
	"github.com/ginjaninja78/xml-to-csv-conversion/internal/csvwriter"
	"github.com/ginjaninja78/xml-to-csv-conversion/internal/logging"
	"github.com/ginjaninja78/xml-to-csv-conversion/internal/types"
	"github.com/ginjaninja78/xml-to-csv-conversion/internal/xlsxwriter"
	"github.com/ginjaninja78/xml-to-csv-conversion/internal/xmltree"
	"github.com/ginjaninja78/xml-to-csv-conversion/pkg/utils"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInputNotFound is returned when the source path is missing or is not
	// a regular file. Nothing is written in that case.
	ErrInputNotFound = errors.New("input file not found")

	// ErrMalformedInput wraps XML parse failures.
	ErrMalformedInput = errors.New("malformed XML input")

	// ErrOutputWrite wraps failures to create or write the destination.
	ErrOutputWrite = errors.New("failed to write output")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// FilePath is the path to the source XML file.
	FilePath string

	// OutputFile is the path to the generated file.
	// This is empty if conversion failed before writing.
	OutputFile string

	// Columns is the discovered column set, in output order.
	Columns []string

	// Items is the number of items (data rows) converted.
	Items int

	// ProcessingTime is the time taken to convert the file.
	ProcessingTime time.Duration
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls how a table is built and written.
type Options struct {
	// Format is config.FormatCSV or config.FormatXLSX.
	// Default: config.FormatCSV
	Format string

	// SequenceHeader names the first column.
	// Default: "Sequence"
	SequenceHeader string

	// CSV holds the CSV writer options.
	CSV csvwriter.Options

	// XLSX holds the XLSX writer options.
	XLSX xlsxwriter.Options
}

// DefaultOptions returns options that reproduce plain CSV conversion.
func DefaultOptions() Options {
	return Options{
		Format:         config.FormatCSV,
		SequenceHeader: types.SequenceHeader,
		CSV:            csvwriter.DefaultOptions(),
	}
}

// OptionsFromConfig maps the application configuration onto Options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	comma, err := cfg.CSV.Comma()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Format:         cfg.Output.Format,
		SequenceHeader: cfg.CSV.SequenceHeader,
		CSV: csvwriter.Options{
			Comma:      comma,
			UseCRLF:    cfg.CSV.UseCRLF,
			SkipHeader: !cfg.CSV.WriteHeader,
		},
		XLSX: xlsxwriter.Options{
			SheetName:  cfg.Output.SheetName,
			SkipHeader: !cfg.CSV.WriteHeader,
		},
	}, nil
}

// extension returns the default destination extension for the format.
func (o Options) extension() string {
	if o.Format == config.FormatXLSX {
		return ".xlsx"
	}
	return ".csv"
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single XML file.
type Converter struct {
	// srcPath is the path to the source XML file.
	srcPath string

	// dstPath is the destination; empty means derived from srcPath.
	dstPath string

	options Options
	logger  logging.Logger
}

// New creates a Converter for srcPath. An empty dstPath is replaced by
// srcPath with its extension swapped for the output format's extension.
func New(srcPath, dstPath string, options Options) *Converter {
	return &Converter{
		srcPath: srcPath,
		dstPath: dstPath,
		options: options,
		logger:  logging.NewDefault(),
	}
}

// WithLogger replaces the logger.
func (c *Converter) WithLogger(l logging.Logger) *Converter {
	if l == nil {
		l = logging.Nop{}
	}
	c.logger = l
	return c
}

// ConvertFile is a convenience wrapper around New(...).Run() that discards logs.
func ConvertFile(srcPath, dstPath string, options Options) (Result, error) {
	return New(srcPath, dstPath, options).WithLogger(logging.Nop{}).Run()
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion.
//
// RETURNS:
//   - A Result describing what was converted.
//   - ErrInputNotFound, ErrMalformedInput or ErrOutputWrite (wrapped).
func (c *Converter) Run() (Result, error) {
	startTime := time.Now()
	result := Result{FilePath: c.srcPath}

	// =========================================================================
	// STEP 1: CHECK SOURCE
	// =========================================================================

	if !utils.IsRegularFile(c.srcPath) {
		return result, fmt.Errorf("%w: %s", ErrInputNotFound, c.srcPath)
	}

	c.logger.Info("Processing file: %s", c.srcPath)

	// =========================================================================
	// STEP 2: PARSE XML
	// =========================================================================

	doc, err := xmltree.ParseFile(c.srcPath)
	if err != nil {
		return result, fmt.Errorf("%w: %s: %v", ErrMalformedInput, c.srcPath, err)
	}

	c.logger.Debug("Parsed <%s> with %d items", doc.RootTag, len(doc.Items))

	// =========================================================================
	// STEP 3: BUILD TABLE
	// =========================================================================

	table := BuildTable(doc, c.options.SequenceHeader)
	result.Columns = table.Columns()
	result.Items = table.RowCount()

	c.logger.Debug("Discovered %d columns: %s", len(result.Columns), strings.Join(result.Columns, ", "))

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	dst := c.dstPath
	if dst == "" {
		dst = DefaultDestPath(c.srcPath, c.options.extension())
	}

	if err := c.write(dst, table); err != nil {
		return result, fmt.Errorf("%w: %s: %v", ErrOutputWrite, dst, err)
	}

	result.OutputFile = dst
	result.ProcessingTime = time.Since(startTime)

	c.logger.Info("Wrote %d rows to: %s", result.Items, dst)

	return result, nil
}

func (c *Converter) write(dst string, table *types.Table) error {
	switch c.options.Format {
	case config.FormatXLSX:
		return xlsxwriter.WriteFile(dst, table, c.options.XLSX)
	case config.FormatCSV, "":
		return csvwriter.WriteFile(dst, table, c.options.CSV)
	default:
		return fmt.Errorf("unknown output format %q", c.options.Format)
	}
}

// =============================================================================
// COLUMN DISCOVERY AND ROW EMISSION
// =============================================================================

// Columns returns the sorted union of attribute names and child tags over
// all items. Sorting is byte-wise, so upper case sorts before lower case.
func Columns(doc *xmltree.Document) []string {
	seen := make(map[string]struct{})
	for _, item := range doc.Items {
		for _, name := range item.AttrNames() {
			seen[name] = struct{}{}
		}
		for _, child := range item.Children() {
			seen[child.Tag] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}

// BuildTable runs column discovery over the whole document and then emits
// one row per item. A missing value is the empty string.
func BuildTable(doc *xmltree.Document, sequenceHeader string) *types.Table {
	if sequenceHeader == "" {
		sequenceHeader = types.SequenceHeader
	}

	columns := Columns(doc)

	table := &types.Table{
		Header: append([]string{sequenceHeader}, columns...),
		Rows:   make([][]string, 0, len(doc.Items)),
	}

	for i, item := range doc.Items {
		row := make([]string, 0, len(columns)+1)
		row = append(row, strconv.Itoa(i+1))
		for _, col := range columns {
			v, _ := item.Value(col)
			row = append(row, v)
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// DefaultDestPath replaces the extension of srcPath with ext. Only the final
// path element is considered, and a leading dot (".hidden") is not an
// extension.
func DefaultDestPath(srcPath, ext string) string {
	dir, base := filepath.Split(srcPath)
	stem := base
	if i := strings.LastIndex(base, "."); i > 0 && strings.Trim(base[:i], ".") != "" {
		stem = base[:i]
	}
	return dir + stem + ext
}
