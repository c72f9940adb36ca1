package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/popsim/internal/growth"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Year", "PopulationA", "PopulationB", "Difference"}

func WriteCSV(w io.Writer, records []growth.YearRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Year),
			strconv.FormatInt(rec.PopulationA, 10),
			strconv.FormatInt(rec.PopulationB, 10),
			strconv.FormatInt(rec.Difference, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses records previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]growth.YearRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv: missing header")
	}
	for i, name := range CSVHeader {
		if rows[0][i] != name {
			return nil, fmt.Errorf("csv: column %d is %q, want %q", i+1, rows[0][i], name)
		}
	}

	records := make([]growth.YearRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		year, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: year: %w", line, err)
		}
		var vals [3]int64
		for j := range vals {
			vals[j], err = strconv.ParseInt(row[j+1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d: %s: %w", line, CSVHeader[j+1], err)
			}
		}
		records = append(records, growth.YearRecord{
			Year:        year,
			PopulationA: vals[0],
			PopulationB: vals[1],
			Difference:  vals[2],
		})
	}
	return records, nil
}
