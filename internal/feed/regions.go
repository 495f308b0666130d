package feed

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownRegion is returned for a region code outside the published set.
var ErrUnknownRegion = eris.New("unknown region")

// Region is a federative unit with its own feed document.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Regions lists every region with a published feed.
var Regions = []Region{
	{"AC", "Acre"},
	{"AL", "Alagoas"},
	{"AP", "Amapá"},
	{"AM", "Amazonas"},
	{"BA", "Bahia"},
	{"CE", "Ceará"},
	{"DF", "Distrito Federal"},
	{"ES", "Espírito Santo"},
	{"GO", "Goiás"},
	{"MA", "Maranhão"},
	{"MT", "Mato Grosso"},
	{"MS", "Mato Grosso do Sul"},
	{"MG", "Minas Gerais"},
	{"PA", "Pará"},
	{"PB", "Paraíba"},
	{"PR", "Paraná"},
	{"PE", "Pernambuco"},
	{"PI", "Piauí"},
	{"RJ", "Rio de Janeiro"},
	{"RN", "Rio Grande do Norte"},
	{"RS", "Rio Grande do Sul"},
	{"RO", "Rondônia"},
	{"RR", "Roraima"},
	{"SC", "Santa Catarina"},
	{"SP", "São Paulo"},
	{"SE", "Sergipe"},
	{"TO", "Tocantins"},
}

// NormalizeRegion upper-cases and trims a region code.
func NormalizeRegion(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidRegion reports whether code (after normalization) is a known region.
func ValidRegion(code string) bool {
	code = NormalizeRegion(code)
	for _, r := range Regions {
		if r.Code == code {
			return true
		}
	}
	return false
}

// FeedURL returns the feed document URL for a region.
func FeedURL(base, region string) string {
	return strings.TrimRight(base, "/") + "/Lista_imoveis_" + NormalizeRegion(region) + ".csv"
}
