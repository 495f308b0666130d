package facts

import (
	"strings"

	"github.com/sells-group/imoveis-cli/internal/model"
	"github.com/sells-group/imoveis-cli/internal/textnorm"
)

const (
	occupiedMarker = "ocupado"
	vacantMarker   = "desocupado"
)

// Classifier detects property type and financing eligibility from listing
// text using a keyword vocabulary.
type Classifier struct {
	vocab *Vocabulary
}

// NewClassifier creates a Classifier. A nil vocabulary selects the built-in
// one.
func NewClassifier(v *Vocabulary) *Classifier {
	if v == nil {
		v = DefaultVocabulary()
	}
	return &Classifier{vocab: v}
}

// PropertyType returns the first type, in house, apartment, land, commercial
// order, that has a keyword present in text.
func (c *Classifier) PropertyType(text string) model.PropertyType {
	t := textnorm.Normalize(text)
	pt := c.vocab.PropertyTypes
	checks := []struct {
		typ      model.PropertyType
		keywords []string
	}{
		{model.PropertyTypeHouse, pt.House},
		{model.PropertyTypeApartment, pt.Apartment},
		{model.PropertyTypeLand, pt.Land},
		{model.PropertyTypeCommercial, pt.Commercial},
	}
	for _, ch := range checks {
		if containsAny(t, ch.keywords) {
			return ch.typ
		}
	}
	return model.PropertyTypeUnknown
}

// FinancingEligible reports whether a financing keyword survives after the
// negation phrases are removed from text.
func (c *Classifier) FinancingEligible(text string) bool {
	t := textnorm.Normalize(text)
	for _, neg := range c.vocab.Financing.Negations {
		t = strings.ReplaceAll(t, neg, " ")
	}
	return containsAny(t, c.vocab.Financing.Keywords)
}

// ClassifyOccupancy detects occupancy. The vacant marker contains the
// occupied marker as a substring, so it is checked first.
func ClassifyOccupancy(text string) model.Occupancy {
	t := textnorm.Normalize(text)
	if strings.Contains(t, vacantMarker) {
		return model.OccupancyVacant
	}
	if strings.Contains(t, occupiedMarker) {
		return model.OccupancyOccupied
	}
	return model.OccupancyUnknown
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
