package model

import kerrors "github.com/NickG-1/qlever/internal/errors"

// Row is a single materialized output row: column order is fixed per call
// by the caller, drawn from {context, entityScore, entity…, filterColumns…,
// word…}.
type Row []ValueID

// OutputTable is the append-only columnar table the kernel writes into.
// It is owned by the caller; the kernel only ever appends. Column arity is
// fixed at construction time and matches the variant-specific schema the
// caller chose.
type OutputTable struct {
	Width int
	Rows  []Row
}

// NewOutputTable creates an empty table with the given column width and a
// capacity hint. Per §5, callers may pre-reserve using
// min(lastListSize, sum of input sizes) as an upper bound; reserveHint is
// that caller-computed bound, or 0 to let it grow organically.
func NewOutputTable(width, reserveHint int) *OutputTable {
	var rows []Row
	if reserveHint > 0 {
		rows = make([]Row, 0, reserveHint)
	}
	return &OutputTable{Width: width, Rows: rows}
}

// Append adds row to the table, rejecting a width mismatch as a
// precondition violation rather than silently truncating or padding it.
func (t *OutputTable) Append(row Row) error {
	if len(row) != t.Width {
		return kerrors.NewColumnLengthMismatchError("output row", t.Width, len(row))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows currently materialized.
func (t *OutputTable) Len() int {
	return len(t.Rows)
}
