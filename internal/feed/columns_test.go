package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/imoveis-cli/internal/model"
)

func ruleFor(t *testing.T, f Field) ColumnRule {
	t.Helper()
	for _, r := range DefaultRules {
		if r.Field == f {
			return r
		}
	}
	t.Fatalf("no rule for %s", f)
	return ColumnRule{}
}

func TestResolve_PriceDrift(t *testing.T) {
	price := ruleFor(t, FieldPrice).Match
	headers := [][]string{
		{"Cidade", "Bairro", "Preço", "Valor de avaliação"},
		{"Cidade", "Bairro", "PRECO", "Valor de avaliacao"},
		{"Cidade", "Bairro", "Valor de Venda"},
		{"Cidade", "Modalidade de venda", "Bairro", "Preço de venda"},
	}
	want := []string{"Preço", "PRECO", "Valor de Venda", "Preço de venda"}
	for i, h := range headers {
		got, ok := Resolve(h, price)
		require.True(t, ok, "header %v", h)
		assert.Equal(t, want[i], got)
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	got, ok := Resolve([]string{"Preço mínimo", "Preço"}, ContainsAny("preco"))
	require.True(t, ok)
	assert.Equal(t, "Preço mínimo", got)
}

func TestResolve_NoMatch(t *testing.T) {
	_, ok := Resolve([]string{"Cidade", "Modalidade de venda"}, ruleFor(t, FieldPrice).Match)
	assert.False(t, ok)

	_, ok = Resolve(nil, ContainsAny("x"))
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	assert.True(t, ContainsAny("a", "b")("xbx"))
	assert.False(t, ContainsAny("a")("xyz"))
	assert.True(t, Equals("id")("id"))
	assert.False(t, Equals("id")("cidade"))
	assert.True(t, Or(Equals("x"), ContainsAny("y"))("zyz"))
	assert.False(t, ContainsAny("venda").Excluding("modalidade")("modalidade de venda"))
}

func TestResolveAll_PublishedHeader(t *testing.T) {
	header := []string{"N° do imóvel", "UF", "Cidade", "Bairro", "Endereço", "Preço",
		"Valor de avaliação", "Desconto", "Descrição", "Modalidade de venda", "Link de acesso"}
	cols, err := ResolveAll(header, DefaultRules)
	require.NoError(t, err)

	want := map[Field]string{
		FieldID:           "N° do imóvel",
		FieldCity:         "Cidade",
		FieldNeighborhood: "Bairro",
		FieldAddress:      "Endereço",
		FieldPrice:        "Preço",
		FieldAppraisal:    "Valor de avaliação",
		FieldModality:     "Modalidade de venda",
		FieldDescription:  "Descrição",
	}
	for f, name := range want {
		got, ok := cols.Name(f)
		require.True(t, ok, "field %s", f)
		assert.Equal(t, name, got, "field %s", f)
	}
	assert.False(t, cols.Has(FieldType))

	idx, ok := cols.Index(FieldPrice)
	require.True(t, ok)
	assert.Equal(t, 5, idx)
	assert.Equal(t, "Preço", cols.Names()["price"])
}

func TestResolveAll_MissingPrice(t *testing.T) {
	_, err := ResolveAll([]string{"Cidade", "Bairro", "Valor de avaliação"}, DefaultRules)
	require.Error(t, err)

	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, FieldPrice, mc.Field)
	assert.Equal(t, "price column not found", err.Error())
}

func TestResolveAll_OptionalMissing(t *testing.T) {
	cols, err := ResolveAll([]string{"Bairro", "Preço"}, DefaultRules)
	require.NoError(t, err)
	assert.True(t, cols.Has(FieldPrice))
	assert.False(t, cols.Has(FieldAppraisal))
	assert.False(t, cols.Has(FieldID))
	header := []string{"Bairro", "Preço"}
	assert.Equal(t, "", cols.value(model.NewRawListing(header, []string{"Centro", "1,00"}), FieldCity))
	assert.Equal(t, "1,00", cols.value(model.NewRawListing(header, []string{"Centro", " 1,00 "}), FieldPrice))
}
