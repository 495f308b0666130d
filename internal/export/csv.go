package export

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/imoveis-cli/internal/filter"
)

// Delimiter separates CSV fields, matching the source feed.
const Delimiter = ';'

// WriteCSV writes ranked as a semicolon-delimited CSV with a header row.
// An empty set still produces the header.
func WriteCSV(w io.Writer, ranked []filter.Ranked, links Links) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter

	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(Row{}); err != nil {
		return eris.Wrap(err, "export: csv header")
	}
	for _, row := range Rows(ranked, links) {
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "export: csv row %s", row.ID)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: csv flush")
	}
	return nil
}
