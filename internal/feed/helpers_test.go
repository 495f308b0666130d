package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const feedHeader = "N° do imóvel;UF;Cidade;Bairro;Endereço;Preço;Valor de avaliação;Desconto;Descrição;Modalidade de venda;Link de acesso;"

var feedPreamble = []string{
	"",
	" Lista de Imóveis da Caixa;;;;;;;;;;;",
	"",
	" Data de geração: 16/10/2026;;;;;;;;;;;",
}

// feedRow renders one data line in the published layout.
func feedRow(id, city, hood, addr, price, appraisal, desc, modality string) string {
	return strings.Join([]string{
		id, "SP", city, hood, addr, price, appraisal, "0", desc, modality,
		"https://venda-imoveis.caixa.gov.br/sistema/detalhe-imovel.asp?hdnimovel=" + id, "",
	}, ";")
}

// feedDoc joins preamble, header and rows and encodes them the way the feed
// is published.
func feedDoc(t *testing.T, header string, rows ...string) []byte {
	t.Helper()
	lines := append(append(append([]string{}, feedPreamble...), header), rows...)
	return encode1252(t, strings.Join(lines, "\r\n")+"\r\n")
}

func encode1252(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func validRows(n int) []string {
	rows := make([]string, 0, n)
	for i := range n {
		rows = append(rows, feedRow(
			fmt.Sprintf("1%012d", i), "São Paulo", "Centro", fmt.Sprintf("Rua %d", i),
			"100.000,00", "200.000,00",
			"Apartamento, 50.00 de área privativa, 2 qto(s), 1 vaga(s) de garagem.",
			"Venda Online",
		))
	}
	return rows
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return io.NopCloser(bytes.NewReader(args.Get(0).([]byte))), args.Error(1)
}
