package table

import (
	"fmt"
	"math"
)

// OuterMergeDropNull - outer join of a and b on the given key columns,
// followed by dropping every row holding a null in any column, followed by
// restoring integer columns the join coerced to float.
//
// The null-drop means objects present in one compartment or channel but
// unmatched in the other never reach the final table. The coercion mirrors
// what a nullable join does to integer columns: any integer column that
// picks up a null becomes float, and after the drop the pre-join kind is
// the source of truth for converting it back.
func OuterMergeDropNull(a *Table, b *Table, on []string) (*Table, error) {
	if len(on) == 0 {
		return nil, fmt.Errorf("merge needs at least one key column")
	}

	for _, key := range on {
		ac, bc := a.Column(key), b.Column(key)
		if ac == nil || bc == nil {
			return nil, fmt.Errorf("merge key %v missing from input", key)
		}
		if ac.Kind != bc.Kind {
			return nil, fmt.Errorf("merge key %v has mismatched kinds", key)
		}
	}

	onSet := map[string]bool{}
	for _, key := range on {
		onSet[key] = true
	}

	// Non-key column names must not collide between the two sides
	for _, c := range b.cols {
		if !onSet[c.Name] && a.HasColumn(c.Name) {
			return nil, fmt.Errorf("column %v present on both merge sides", c.Name)
		}
	}

	preMergeInts := map[string]bool{}
	for _, src := range []*Table{a, b} {
		for _, c := range src.cols {
			if c.Kind == KindInt {
				preMergeInts[c.Name] = true
			}
		}
	}

	// Index b rows by key
	bByKey := map[string][]int{}
	bKeyOrder := []string{}
	for row := 0; row < b.RowCount(); row++ {
		k := rowKey(b, on, row)
		if _, seen := bByKey[k]; !seen {
			bKeyOrder = append(bKeyOrder, k)
		}
		bByKey[k] = append(bByKey[k], row)
	}

	result := New()
	for _, c := range a.cols {
		result.cols = append(result.cols, c.cloneEmpty())
	}
	for _, c := range b.cols {
		if !onSet[c.Name] {
			result.cols = append(result.cols, c.cloneEmpty())
		}
	}

	emit := func(aRow int, bRow int) {
		col := 0
		for _, c := range a.cols {
			if aRow >= 0 {
				result.cols[col].appendFrom(c, aRow)
			} else if onSet[c.Name] {
				// Key values always come from whichever side has the row
				result.cols[col].appendFrom(b.Column(c.Name), bRow)
			} else {
				result.cols[col].appendNull()
			}
			col++
		}
		for _, c := range b.cols {
			if onSet[c.Name] {
				continue
			}
			if bRow >= 0 {
				result.cols[col].appendFrom(c, bRow)
			} else {
				result.cols[col].appendNull()
			}
			col++
		}
	}

	matchedBKeys := map[string]bool{}
	for aRow := 0; aRow < a.RowCount(); aRow++ {
		k := rowKey(a, on, aRow)
		if bRows, ok := bByKey[k]; ok {
			matchedBKeys[k] = true
			for _, bRow := range bRows {
				emit(aRow, bRow)
			}
		} else {
			emit(aRow, -1)
		}
	}
	for _, k := range bKeyOrder {
		if !matchedBKeys[k] {
			for _, bRow := range bByKey[k] {
				emit(-1, bRow)
			}
		}
	}

	coerceNullableIntsToFloat(result)
	dropNullRows(result)
	restoreIntColumns(result, preMergeInts)

	return result, nil
}

// ConcatRowsUnion - append rows of src tables taking the union of their
// columns, in first-seen order. Cells under a column a table lacks become
// null; integer columns that pick up nulls widen to float (NaN), the way a
// dataframe concat widens them. Same-named columns must agree on kind.
func ConcatRowsUnion(tables ...*Table) (*Table, error) {
	result := New()
	for _, src := range tables {
		for _, c := range src.cols {
			existing := result.Column(c.Name)
			if existing == nil {
				result.cols = append(result.cols, c.cloneEmpty())
			} else if existing.Kind != c.Kind {
				return nil, fmt.Errorf("cannot concat column %v with mixed kinds", c.Name)
			}
		}
	}

	for _, src := range tables {
		for _, c := range result.cols {
			srcCol := src.Column(c.Name)
			for row := 0; row < src.RowCount(); row++ {
				if srcCol != nil {
					c.appendFrom(srcCol, row)
				} else {
					c.appendNull()
				}
			}
		}
	}

	coerceNullableIntsToFloat(result)
	return result, nil
}

func rowKey(t *Table, on []string, row int) string {
	k := ""
	for _, name := range on {
		k += t.Column(name).valueKey(row) + "|"
	}
	return k
}

// Integer columns that picked up nulls become float, the way a nullable
// outer join widens them
func coerceNullableIntsToFloat(t *Table) {
	for _, c := range t.cols {
		if c.Kind != KindInt {
			continue
		}
		hasNull := false
		for _, n := range c.Null {
			if n {
				hasNull = true
				break
			}
		}
		if !hasNull {
			continue
		}
		c.Kind = KindFloat
		c.Floats = make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			if c.Null[i] {
				c.Floats[i] = math.NaN()
			} else {
				c.Floats[i] = float64(v)
			}
		}
		c.Ints = nil
	}
}

func dropNullRows(t *Table) {
	keep := []int{}
	for row := 0; row < t.RowCount(); row++ {
		hasNull := false
		for _, c := range t.cols {
			if c.IsNull(row) {
				hasNull = true
				break
			}
		}
		if !hasNull {
			keep = append(keep, row)
		}
	}
	*t = *t.SelectRows(keep)
}

func restoreIntColumns(t *Table, preMergeInts map[string]bool) {
	for _, c := range t.cols {
		if c.Kind != KindFloat || !preMergeInts[c.Name] {
			continue
		}
		c.Kind = KindInt
		c.Ints = make([]int64, len(c.Floats))
		for i, v := range c.Floats {
			c.Ints[i] = int64(v)
		}
		c.Floats = nil
	}
}
