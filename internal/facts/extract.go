// Package facts recovers structured listing attributes from free text.
//
// Each extractor is independent and reports whether it found its fact; a
// miss in one never affects the others.
package facts

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/imoveis-cli/internal/textnorm"
)

var (
	bedroomsRe = regexp.MustCompile(`(\d+)\s*(?:quartos?|qtos?|dorm)`)
	parkingRe  = regexp.MustCompile(`(\d+)\s*(?:vagas?|garagem|vg)`)

	// "area privativa = 70,50"
	livingAreaRe = regexp.MustCompile(`(?:privativa|construida|util|real)\s*[:=]?\s*(\d[\d.,]*)`)
	lotAreaRe    = regexp.MustCompile(`(?:terreno|total|averbada)\s*[:=]?\s*(\d[\d.,]*)`)

	// "70.50 de area privativa", the form used by the published feed.
	livingAreaSuffixRe = regexp.MustCompile(`(\d[\d.,]*)\s*(?:m2|m²)?\s*de\s+area\s+(?:\w+\s+)?(?:privativa|construida|util|real)`)
	lotAreaSuffixRe    = regexp.MustCompile(`(\d[\d.,]*)\s*(?:m2|m²)?\s*de\s+area\s+(?:do\s+|de\s+)?(?:terreno|total|averbada)`)
)

// Facts holds the extracted attributes. A nil field means not found.
type Facts struct {
	Bedrooms      *int
	ParkingSpaces *int
	LivingAreaM2  *float64
	LotAreaM2     *float64
}

// Extract runs every extractor over text.
func Extract(text string) Facts {
	t := textnorm.Normalize(text)
	var f Facts
	if n, ok := bedrooms(t); ok {
		f.Bedrooms = &n
	}
	if n, ok := parkingSpaces(t); ok {
		f.ParkingSpaces = &n
	}
	if a, ok := livingArea(t); ok {
		f.LivingAreaM2 = &a
	}
	if a, ok := lotArea(t); ok {
		f.LotAreaM2 = &a
	}
	return f
}

// Bedrooms returns the first count written as digits followed by quarto(s),
// qto or dorm.
func Bedrooms(text string) (int, bool) {
	return bedrooms(textnorm.Normalize(text))
}

// ParkingSpaces returns the first count written as digits followed by vaga,
// garagem or vg.
func ParkingSpaces(text string) (int, bool) {
	return parkingSpaces(textnorm.Normalize(text))
}

// LivingArea returns the private/built area in square meters, truncated to
// a whole number.
func LivingArea(text string) (float64, bool) {
	return livingArea(textnorm.Normalize(text))
}

// LotArea returns the lot area in square meters, truncated to a whole
// number.
func LotArea(text string) (float64, bool) {
	return lotArea(textnorm.Normalize(text))
}

func bedrooms(t string) (int, bool)      { return firstCount(bedroomsRe, t) }
func parkingSpaces(t string) (int, bool) { return firstCount(parkingRe, t) }

func livingArea(t string) (float64, bool) {
	if a, ok := firstArea(livingAreaRe, t); ok {
		return a, true
	}
	return firstArea(livingAreaSuffixRe, t)
}

func lotArea(t string) (float64, bool) {
	if a, ok := firstArea(lotAreaRe, t); ok {
		return a, true
	}
	return firstArea(lotAreaSuffixRe, t)
}

func firstCount(re *regexp.Regexp, t string) (int, bool) {
	m := re.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// firstArea returns the first positive area among the matches, in text
// order. A published zero area means the field was left blank.
func firstArea(re *regexp.Regexp, t string) (float64, bool) {
	for _, m := range re.FindAllStringSubmatch(t, -1) {
		a, ok := ParseAreaLiteral(m[1])
		if ok && a > 0 {
			return a, true
		}
	}
	return 0, false
}

// ParseAreaLiteral parses a numeric literal that may use "." and "," as
// thousands or decimal separators and truncates it to a whole number.
//
// With a comma present, every dot is a thousands separator and the last
// comma is the decimal point ("1.200,50" is 1200). Without a comma, all dots
// but the last are thousands separators ("1.200.50" is 1200); a single dot
// followed by exactly three digits is a thousands separator ("1.200" is
// 1200), otherwise it is the decimal point ("54.99" is 54).
func ParseAreaLiteral(s string) (float64, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), ".,")
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = keepLastSeparator(s, ",")
		s = strings.Replace(s, ",", ".", 1)
	} else if n := strings.Count(s, "."); n > 1 {
		s = keepLastSeparator(s, ".")
	} else if n == 1 {
		if i := strings.Index(s, "."); len(s)-i-1 == 3 {
			s = s[:i] + s[i+1:]
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return math.Trunc(f), true
}

// keepLastSeparator removes every occurrence of sep except the last one.
func keepLastSeparator(s, sep string) string {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s
	}
	return strings.ReplaceAll(s[:i], sep, "") + s[i:]
}
