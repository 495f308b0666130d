package feed

import (
	"fmt"
	"strings"

	"github.com/sells-group/imoveis-cli/internal/model"
	"github.com/sells-group/imoveis-cli/internal/textnorm"
)

// Field is a semantic column the pipeline reads.
type Field string

const (
	FieldID           Field = "id"
	FieldCity         Field = "city"
	FieldNeighborhood Field = "neighborhood"
	FieldAddress      Field = "address"
	FieldPrice        Field = "price"
	FieldAppraisal    Field = "appraisal"
	FieldType         Field = "type"
	FieldModality     Field = "modality"
	FieldDescription  Field = "description"
)

// Requirement marks whether a load can proceed without a field.
type Requirement int

const (
	Optional Requirement = iota
	Required
)

// Predicate matches a normalized column name.
type Predicate func(name string) bool

// ContainsAny matches names containing any of the tokens.
func ContainsAny(tokens ...string) Predicate {
	return func(name string) bool {
		for _, t := range tokens {
			if strings.Contains(name, t) {
				return true
			}
		}
		return false
	}
}

// Equals matches names equal to any of the values.
func Equals(values ...string) Predicate {
	return func(name string) bool {
		for _, v := range values {
			if name == v {
				return true
			}
		}
		return false
	}
}

// Or matches when any predicate matches.
func Or(ps ...Predicate) Predicate {
	return func(name string) bool {
		for _, p := range ps {
			if p(name) {
				return true
			}
		}
		return false
	}
}

// Excluding narrows p to names containing none of the tokens.
func (p Predicate) Excluding(tokens ...string) Predicate {
	deny := ContainsAny(tokens...)
	return func(name string) bool {
		return p(name) && !deny(name)
	}
}

// ColumnRule binds a semantic field to a column-name predicate.
type ColumnRule struct {
	Field       Field
	Requirement Requirement
	Match       Predicate
}

// DefaultRules are the column rules for the published feed. Column labels
// drift in spelling, casing and wording between publication cycles, so the
// predicates only test for stable tokens.
var DefaultRules = []ColumnRule{
	{FieldID, Optional, Or(ContainsAny("do imovel", "numero do", "codigo"), Equals("id", "n°", "nº")).Excluding("tipo", "link")},
	{FieldCity, Optional, ContainsAny("cidade", "municipio")},
	{FieldNeighborhood, Optional, ContainsAny("bairro")},
	{FieldAddress, Optional, ContainsAny("endereco", "logradouro")},
	{FieldPrice, Required, ContainsAny("preco", "venda").Excluding("modalidade")},
	{FieldAppraisal, Optional, ContainsAny("avaliacao")},
	{FieldType, Optional, ContainsAny("tipo").Excluding("venda")},
	{FieldModality, Optional, ContainsAny("modalidade")},
	{FieldDescription, Optional, ContainsAny("descricao")},
}

// MissingColumnError reports a required field that no column satisfied.
type MissingColumnError struct {
	Field Field
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s column not found", e.Field)
}

// Resolve returns the first column, in table order, whose normalized name
// satisfies match.
func Resolve(columns []string, match Predicate) (string, bool) {
	if i := resolveIndex(columns, match); i >= 0 {
		return columns[i], true
	}
	return "", false
}

func resolveIndex(columns []string, match Predicate) int {
	for i, c := range columns {
		if match(textnorm.Normalize(c)) {
			return i
		}
	}
	return -1
}

// Columns is the outcome of resolving every rule against a header.
type Columns struct {
	names map[Field]string
	index map[Field]int
}

// ResolveAll applies rules to the header. A required field without a
// matching column yields *MissingColumnError; optional ones are left unset.
func ResolveAll(header []string, rules []ColumnRule) (Columns, error) {
	cols := Columns{
		names: make(map[Field]string, len(rules)),
		index: make(map[Field]int, len(rules)),
	}
	for _, r := range rules {
		i := resolveIndex(header, r.Match)
		if i < 0 {
			if r.Requirement == Required {
				return cols, &MissingColumnError{Field: r.Field}
			}
			continue
		}
		cols.names[r.Field] = header[i]
		cols.index[r.Field] = i
	}
	return cols, nil
}

// Name returns the column name resolved for f.
func (c Columns) Name(f Field) (string, bool) {
	n, ok := c.names[f]
	return n, ok
}

// Index returns the column position resolved for f.
func (c Columns) Index(f Field) (int, bool) {
	i, ok := c.index[f]
	return i, ok
}

// Has reports whether f was resolved.
func (c Columns) Has(f Field) bool {
	_, ok := c.index[f]
	return ok
}

// Names returns the resolved field-to-column mapping.
func (c Columns) Names() map[string]string {
	out := make(map[string]string, len(c.names))
	for f, n := range c.names {
		out[string(f)] = n
	}
	return out
}

// value returns the trimmed value of f in raw, or "" when unresolved.
func (c Columns) value(raw model.RawListing, f Field) string {
	name, ok := c.names[f]
	if !ok {
		return ""
	}
	return strings.TrimSpace(raw[name])
}
