// Package fetcher downloads remote documents and reads delimited tables.
package fetcher

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the delimited table reader.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// Table is a parsed delimited table.
type Table struct {
	Header []string
	Rows   [][]string
	// Skipped counts rows dropped for having a different field count than
	// the header or for being otherwise malformed.
	Skipped int
}

// ReadTable reads a delimited table whose first record is the header. Rows
// whose field count differs from the header are skipped and counted rather
// than failing the read. Only an I/O error or an empty input is fatal.
func ReadTable(r io.Reader, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // field count checked against the header below

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("csv: empty table")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	header = trimTrailingEmpty(header)
	if opts.TrimSpace {
		trimAll(header)
	}

	t := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				t.Skipped++
				continue
			}
			return nil, eris.Wrap(err, "csv: read row")
		}

		// The feed terminates every line with the delimiter, which yields
		// one extra empty field.
		if len(record) == len(header)+1 && record[len(record)-1] == "" {
			record = record[:len(header)]
		}
		if len(record) != len(header) {
			t.Skipped++
			continue
		}
		if opts.TrimSpace {
			trimAll(record)
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}

func trimAll(fields []string) {
	for i, field := range fields {
		fields[i] = strings.TrimSpace(field)
	}
}

func trimTrailingEmpty(fields []string) []string {
	for len(fields) > 0 && strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
