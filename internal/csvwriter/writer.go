// =============================================================================
// XML to CSV Converter - CSV Writer Module
// =============================================================================
//
// This module renders a converted Table as CSV. Quoting follows the usual
// CSV rules: a field that contains the delimiter, a double quote, CR or LF is
// wrapped in double quotes and embedded quotes are doubled.
//
// OUTPUT:
//   Sequence,age,id,name
//   1,,1,Alice
//   2,30,2,
//
// =============================================================================

package csvwriter

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/xml-to-csv-conversion/internal/types"
)

// =============================================================================
// WRITE OPTIONS
// =============================================================================

// Options contains options for CSV output.
type Options struct {
	// Comma is the field delimiter.
	// Default: ','
	Comma rune

	// UseCRLF terminates each record with \r\n. Line breaks inside field
	// values are not affected.
	UseCRLF bool

	// SkipHeader omits the header row.
	SkipHeader bool
}

// DefaultOptions returns comma-separated output with CRLF line endings.
func DefaultOptions() Options {
	return Options{
		Comma:   ',',
		UseCRLF: true,
	}
}

// =============================================================================
// WRITE FUNCTIONS
// =============================================================================

// Write renders table to w.
//
// Records are encoded with LF and the terminator is swapped afterwards, so
// CR and LF inside a quoted field are written unchanged.
func Write(w io.Writer, table *types.Table, opts Options) error {
	bw := bufio.NewWriter(w)

	var line bytes.Buffer
	cw := csv.NewWriter(&line)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}

	writeRecord := func(record []string) error {
		line.Reset()
		if err := cw.Write(record); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}

		out := line.Bytes()
		if opts.UseCRLF {
			out = append(out[:len(out)-1], '\r', '\n')
		}
		_, err := bw.Write(out)
		return err
	}

	if !opts.SkipHeader {
		if err := writeRecord(table.Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range table.Rows {
		if err := writeRecord(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteFile creates or truncates path and writes table to it.
// The file is closed on every path; a failure part way leaves a partial file.
func WriteFile(path string, table *types.Table, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return Write(f, table, opts)
}
