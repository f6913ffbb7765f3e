package table

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV - header row then one record per table row
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Names()); err != nil {
		return err
	}

	record := make([]string, len(t.cols))
	for row := 0; row < t.RowCount(); row++ {
		for i, c := range t.cols {
			switch c.Kind {
			case KindInt:
				record[i] = strconv.FormatInt(c.Ints[row], 10)
			case KindFloat:
				record[i] = strconv.FormatFloat(c.Floats[row], 'g', -1, 64)
			case KindString:
				record[i] = c.Strings[row]
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
