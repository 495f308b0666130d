package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindHeaderOffset_AfterDisclaimer(t *testing.T) {
	var lines []string
	for i := range 12 {
		lines = append(lines, "Aviso legal linha "+string(rune('A'+i)))
	}
	lines = append(lines,
		"UF;Cidade;Bairro;Endereco;Valor de Venda;Valor de avaliação",
		"SP;Campinas;Centro;Rua A;100.000,00;150.000,00",
	)
	assert.Equal(t, 12, FindHeaderOffset(strings.Join(lines, "\n")))
}

func TestFindHeaderOffset(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"header first", "Cidade;Bairro;Preço\nx;y;1", 0},
		{"crlf", "aviso\r\n\r\nCidade;Bairro;Preço\r\n", 2},
		{"venda marker", "a\nb\nBairro;Modalidade de venda\n", 2},
		{"bairro without value marker", "Bairro;Cidade\nBairro;Valor\n", 1},
		{"value marker without bairro", "Valor;Cidade\nfoo\n", 0},
		{"case sensitive", "aviso\nbairro;valor\n", 0},
		{"no header", "one\ntwo\nthree", 0},
		{"empty", "", 0},
		{"bairro mentioned in preamble value", "Bairro listado no Valor\nCidade;Bairro;Preço", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindHeaderOffset(tt.raw))
		})
	}
}

func TestFromLine(t *testing.T) {
	raw := "a\nb\nc\nd"
	assert.Equal(t, raw, fromLine(raw, 0))
	assert.Equal(t, "c\nd", fromLine(raw, 2))
	assert.Equal(t, "d", fromLine(raw, 3))
	assert.Equal(t, "", fromLine(raw, 9))
}
