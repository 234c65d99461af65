package finance

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
)

// String returns the kind name used in logs.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "absent"
	}
}

// Value is a single cell of a raw row: a string, a number or nothing.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// Text builds a string cell.
func Text(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number builds a numeric cell.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Absent builds a missing cell.
func Absent() Value {
	return Value{}
}

// InferValue types a raw cell the way spreadsheet importers do: empty cells are
// absent, plain numeric text becomes a number and everything else stays text.
func InferValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Absent()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		if looksNumeric(s) {
			return Number(f)
		}
	}
	return Text(raw)
}

// looksNumeric rejects strings ParseFloat accepts but a spreadsheet would not
// treat as a number ("Inf", "0x1p-2", "1_000").
func looksNumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return true
}

// Kind reports which variant is held.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether the cell is missing.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsEmpty reports whether the cell carries no usable data. Blank text and a
// numeric zero count as empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindString:
		return strings.TrimSpace(v.str) == ""
	case KindNumber:
		return v.num == 0
	default:
		return true
	}
}

// String renders the cell as text. Numbers use the shortest exact form.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float returns the numeric payload for number cells.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// RawRecord is one ingested row: column name to value, in header order.
// It is not modified after NewRawRecord returns.
type RawRecord struct {
	columns []string
	values  map[string]Value
}

// NewRawRecord pairs header names with cells. Missing trailing cells are absent
// and cells beyond the header are ignored. Repeated header names keep the first
// column.
func NewRawRecord(headers []string, cells []Value) RawRecord {
	rec := RawRecord{
		columns: make([]string, 0, len(headers)),
		values:  make(map[string]Value, len(headers)),
	}
	for i, h := range headers {
		if _, dup := rec.values[h]; dup {
			continue
		}
		v := Absent()
		if i < len(cells) {
			v = cells[i]
		}
		rec.columns = append(rec.columns, h)
		rec.values[h] = v
	}
	return rec
}

// RecordFromMap builds a record from column/value pairs. Columns are ordered as
// given in order; keys missing from order are dropped.
func RecordFromMap(order []string, values map[string]Value) RawRecord {
	cells := make([]Value, len(order))
	for i, col := range order {
		cells[i] = values[col]
	}
	return NewRawRecord(order, cells)
}

// Get returns the named cell, or Absent if the column does not exist.
func (r RawRecord) Get(column string) Value {
	if r.values == nil {
		return Absent()
	}
	return r.values[column]
}

// Text returns the named cell rendered as trimmed text.
func (r RawRecord) Text(column string) string {
	return strings.TrimSpace(r.Get(column).String())
}

// Columns returns the header names in their original order.
func (r RawRecord) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len is the number of columns.
func (r RawRecord) Len() int { return len(r.columns) }

// HasData reports whether any cell is non-empty.
func (r RawRecord) HasData() bool {
	for _, col := range r.columns {
		if !r.values[col].IsEmpty() {
			return true
		}
	}
	return false
}
