package store

// FieldSet is an ordered list of (column, value) pairs used to build
// sparse INSERT and UPDATE column lists. Only columns explicitly added
// appear; callers never concatenate column names ad hoc.
type FieldSet struct {
	columns []string
	values  map[string]interface{}
}

// NewFieldSet returns an empty field set.
func NewFieldSet() *FieldSet {
	return &FieldSet{values: make(map[string]interface{})}
}

// Add records a column with its value. Re-adding a column overwrites the
// value but keeps the original position.
func (f *FieldSet) Add(column string, value interface{}) {
	if _, ok := f.values[column]; !ok {
		f.columns = append(f.columns, column)
	}
	f.values[column] = value
}

// AddString records a column only when the value is non-empty.
func (f *FieldSet) AddString(column, value string) {
	if value != "" {
		f.Add(column, value)
	}
}

// AddFlag records a column with value 1 when set is true. False flags are
// omitted entirely, matching the legacy rows where unset flags are NULL.
func (f *FieldSet) AddFlag(column string, set bool) {
	if set {
		f.Add(column, int16(1))
	}
}

// FillMissing records a placeholder for a column that was not set. Used
// by the "include empty fields" mode when a row must match the full
// canonical shape.
func (f *FieldSet) FillMissing(column string, placeholder interface{}) {
	if _, ok := f.values[column]; !ok {
		f.Add(column, placeholder)
	}
}

// Has reports whether the column was recorded.
func (f *FieldSet) Has(column string) bool {
	_, ok := f.values[column]
	return ok
}

// Value returns the recorded value for a column.
func (f *FieldSet) Value(column string) interface{} {
	return f.values[column]
}

// Columns returns the column names in insertion order.
func (f *FieldSet) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Map returns the columns as a map suitable for GORM's Updates/Create.
func (f *FieldSet) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Len returns the number of recorded columns.
func (f *FieldSet) Len() int {
	return len(f.columns)
}
