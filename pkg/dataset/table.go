// pkg/dataset/table.go
package dataset

// Table is an in-memory tabular dataset. Rows are keyed by column name; a
// key that is absent from a row's map is a null value, which is distinct
// from a present-but-empty string. Every pipeline stage that transforms a
// table returns a new Table and leaves its input untouched.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// New creates an empty table with the given column headers.
func New(headers ...string) *Table {
	h := make([]string, len(headers))
	copy(h, headers)
	return &Table{Headers: h, Rows: []map[string]string{}}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.Headers...)
	out.Rows = make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		cloned := make(map[string]string, len(row))
		for k, v := range row {
			cloned[k] = v
		}
		out.Rows[i] = cloned
	}
	return out
}

// HasColumn reports whether the table declares the given column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// AddColumn declares a new column. Existing rows are left null for it.
// Adding a column that already exists is a no-op.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Headers = append(t.Headers, name)
	}
}

// AppendRow adds a row to the table.
func (t *Table) AppendRow(row map[string]string) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Value returns the value of a cell and whether it is non-null.
func (t *Table) Value(row int, column string) (string, bool) {
	if row < 0 || row >= len(t.Rows) {
		return "", false
	}
	v, ok := t.Rows[row][column]
	return v, ok
}
