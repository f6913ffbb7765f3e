// Package table implements a small typed columnar table used to carry
// per-object measurements through the merge pipeline. Columns are int,
// float or string valued; cells can be null only as an intermediate state
// during an outer merge.
package table

import (
	"fmt"
	"sort"
)

type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

type Column struct {
	Name    string
	Kind    Kind
	Ints    []int64
	Floats  []float64
	Strings []string
	Null    []bool
}

func (c *Column) Len() int {
	switch c.Kind {
	case KindInt:
		return len(c.Ints)
	case KindFloat:
		return len(c.Floats)
	}
	return len(c.Strings)
}

func (c *Column) IsNull(row int) bool {
	return c.Null != nil && c.Null[row]
}

// valueKey - string form of a cell, used to build join keys
func (c *Column) valueKey(row int) string {
	if c.IsNull(row) {
		return "<null>"
	}
	switch c.Kind {
	case KindInt:
		return fmt.Sprintf("i%v", c.Ints[row])
	case KindFloat:
		return fmt.Sprintf("f%v", c.Floats[row])
	}
	return "s" + c.Strings[row]
}

type Table struct {
	cols []*Column
}

func New() *Table {
	return &Table{}
}

func (t *Table) ColumnCount() int {
	return len(t.cols)
}

func (t *Table) RowCount() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

func (t *Table) Names() []string {
	names := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		names = append(names, c.Name)
	}
	return names
}

func (t *Table) Column(name string) *Column {
	for _, c := range t.cols {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (t *Table) HasColumn(name string) bool {
	return t.Column(name) != nil
}

func (t *Table) addColumn(c *Column) error {
	if t.HasColumn(c.Name) {
		return fmt.Errorf("duplicate column %v", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.RowCount() {
		return fmt.Errorf("column %v has %v rows, table has %v", c.Name, c.Len(), t.RowCount())
	}
	t.cols = append(t.cols, c)
	return nil
}

func (t *Table) AddIntColumn(name string, values []int64) error {
	return t.addColumn(&Column{Name: name, Kind: KindInt, Ints: values})
}

func (t *Table) AddFloatColumn(name string, values []float64) error {
	return t.addColumn(&Column{Name: name, Kind: KindFloat, Floats: values})
}

func (t *Table) AddStringColumn(name string, values []string) error {
	return t.addColumn(&Column{Name: name, Kind: KindString, Strings: values})
}

// AddConstIntColumn - one value repeated for every row
func (t *Table) AddConstIntColumn(name string, value int64) error {
	values := make([]int64, t.RowCount())
	for i := range values {
		values[i] = value
	}
	return t.AddIntColumn(name, values)
}

// AddConstStringColumn - one value repeated for every row
func (t *Table) AddConstStringColumn(name string, value string) error {
	values := make([]string, t.RowCount())
	for i := range values {
		values[i] = value
	}
	return t.AddStringColumn(name, values)
}

func (t *Table) RenameColumn(oldName string, newName string) error {
	c := t.Column(oldName)
	if c == nil {
		return fmt.Errorf("column %v not found", oldName)
	}
	if t.HasColumn(newName) {
		return fmt.Errorf("column %v already exists", newName)
	}
	c.Name = newName
	return nil
}

func (t *Table) IntAt(name string, row int) int64 {
	return t.Column(name).Ints[row]
}

func (t *Table) FloatAt(name string, row int) float64 {
	return t.Column(name).Floats[row]
}

func (t *Table) StringAt(name string, row int) string {
	return t.Column(name).Strings[row]
}

func (c *Column) cloneEmpty() *Column {
	return &Column{Name: c.Name, Kind: c.Kind}
}

func (c *Column) appendFrom(src *Column, row int) {
	switch c.Kind {
	case KindInt:
		c.Ints = append(c.Ints, src.Ints[row])
	case KindFloat:
		c.Floats = append(c.Floats, src.Floats[row])
	case KindString:
		c.Strings = append(c.Strings, src.Strings[row])
	}
	c.Null = append(c.Null, src.IsNull(row))
}

func (c *Column) appendNull() {
	switch c.Kind {
	case KindInt:
		c.Ints = append(c.Ints, 0)
	case KindFloat:
		c.Floats = append(c.Floats, 0)
	case KindString:
		c.Strings = append(c.Strings, "")
	}
	c.Null = append(c.Null, true)
}

// SelectRows - a new table containing the given rows, in order
func (t *Table) SelectRows(rows []int) *Table {
	result := New()
	for _, c := range t.cols {
		nc := c.cloneEmpty()
		for _, row := range rows {
			nc.appendFrom(c, row)
		}
		result.cols = append(result.cols, nc)
	}
	return result
}

// SortByIntColumns - stable sort of rows by the given int columns, ascending
func (t *Table) SortByIntColumns(names ...string) error {
	keyCols := []*Column{}
	for _, name := range names {
		c := t.Column(name)
		if c == nil {
			return fmt.Errorf("sort column %v not found", name)
		}
		if c.Kind != KindInt {
			return fmt.Errorf("sort column %v is not integer", name)
		}
		keyCols = append(keyCols, c)
	}

	order := make([]int, t.RowCount())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		for _, c := range keyCols {
			if c.Ints[order[a]] != c.Ints[order[b]] {
				return c.Ints[order[a]] < c.Ints[order[b]]
			}
		}
		return false
	})

	*t = *t.SelectRows(order)
	return nil
}

// ConcatRows - append rows of src tables in order. All tables must have the
// same columns in the same order.
func ConcatRows(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return New(), nil
	}

	result := New()
	for _, c := range tables[0].cols {
		result.cols = append(result.cols, c.cloneEmpty())
	}

	for _, src := range tables {
		if src.ColumnCount() != result.ColumnCount() {
			return nil, fmt.Errorf("cannot concat tables with %v and %v columns", result.ColumnCount(), src.ColumnCount())
		}
		for i, c := range src.cols {
			dst := result.cols[i]
			if dst.Name != c.Name || dst.Kind != c.Kind {
				return nil, fmt.Errorf("cannot concat mismatched column %v", c.Name)
			}
			for row := 0; row < c.Len(); row++ {
				dst.appendFrom(c, row)
			}
		}
	}
	return result, nil
}

// ConcatColumns - column-wise concatenation. All tables must have the same
// row count; a column name seen before is dropped, keeping the first
// occurrence (shared label/area/timepoint columns between channels).
func ConcatColumns(tables ...*Table) (*Table, error) {
	result := New()
	for _, src := range tables {
		if result.ColumnCount() > 0 && src.RowCount() != result.RowCount() {
			return nil, fmt.Errorf("cannot concat columns: row counts %v and %v differ", result.RowCount(), src.RowCount())
		}
		for _, c := range src.cols {
			if result.HasColumn(c.Name) {
				continue
			}
			copied := c.cloneEmpty()
			for row := 0; row < c.Len(); row++ {
				copied.appendFrom(c, row)
			}
			result.cols = append(result.cols, copied)
		}
	}
	return result, nil
}
