// =============================================================================
// XML to CSV Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - converter
//   - csvwriter
//   - xlsxwriter
//
// =============================================================================

package types

// =============================================================================
// TABLE TYPES
// =============================================================================

// SequenceHeader is the name of the first column of every generated table.
const SequenceHeader = "Sequence"

// Table is the format-independent result of a conversion.
// Writers render it as CSV or XLSX without knowing anything about XML.
type Table struct {
	// Header is the header row: the sequence column followed by the
	// sorted column set.
	Header []string

	// Rows contains one row per item, in document order.
	// Every row has exactly len(Header) fields.
	Rows [][]string
}

// Columns returns the header without the leading sequence column.
func (t *Table) Columns() []string {
	if len(t.Header) == 0 {
		return nil
	}
	return t.Header[1:]
}

// RowCount returns the number of data rows (the header is not counted).
func (t *Table) RowCount() int {
	return len(t.Rows)
}
