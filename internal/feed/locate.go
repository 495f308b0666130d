package feed

import "strings"

// The feed capitalizes its header reliably, so the markers are matched
// against the raw, unnormalized line.
const headerAnchor = "Bairro"

var headerValueMarkers = []string{"Valor", "Preço", "Venda"}

// FindHeaderOffset returns the zero-based index of the first line that
// contains "Bairro" and at least one of "Valor", "Preço" or "Venda". The feed
// prepends a disclaimer preamble of varying length. When no line qualifies
// the whole text is assumed to start at the header and 0 is returned.
func FindHeaderOffset(raw string) int {
	for i, line := range strings.Split(raw, "\n") {
		if isHeaderLine(line) {
			return i
		}
	}
	return 0
}

func isHeaderLine(line string) bool {
	if !strings.Contains(line, headerAnchor) {
		return false
	}
	for _, m := range headerValueMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// fromLine returns raw starting at the given zero-based line.
func fromLine(raw string, offset int) string {
	if offset <= 0 {
		return raw
	}
	lines := strings.SplitN(raw, "\n", offset+1)
	if len(lines) <= offset {
		return ""
	}
	return lines[offset]
}
