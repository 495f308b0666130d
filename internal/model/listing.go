package model

import (
	"net/url"
	"strings"
)

// PropertyType is the detected kind of property.
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeUnknown    PropertyType = "unknown"
)

// PropertyTypes lists every detectable type in detection order, UNKNOWN last.
var PropertyTypes = []PropertyType{
	PropertyTypeHouse,
	PropertyTypeApartment,
	PropertyTypeLand,
	PropertyTypeCommercial,
	PropertyTypeUnknown,
}

// ParsePropertyType maps a user-supplied label to a PropertyType.
// Portuguese labels used by the feed are accepted as well.
func ParsePropertyType(s string) (PropertyType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "house", "casa":
		return PropertyTypeHouse, true
	case "apartment", "apartamento", "apto":
		return PropertyTypeApartment, true
	case "land", "terreno", "lote":
		return PropertyTypeLand, true
	case "commercial", "comercial":
		return PropertyTypeCommercial, true
	case "unknown":
		return PropertyTypeUnknown, true
	default:
		return "", false
	}
}

// Occupancy is the detected occupancy status.
type Occupancy string

const (
	OccupancyOccupied Occupancy = "occupied"
	OccupancyVacant   Occupancy = "vacant"
	OccupancyUnknown  Occupancy = "unknown"
)

// ParseOccupancy maps a user-supplied label to an Occupancy.
func ParseOccupancy(s string) (Occupancy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "occupied", "ocupado":
		return OccupancyOccupied, true
	case "vacant", "desocupado":
		return OccupancyVacant, true
	case "unknown":
		return OccupancyUnknown, true
	default:
		return "", false
	}
}

// RawListing is one row of the decoded feed table keyed by the column name
// exactly as published.
type RawListing map[string]string

// NewRawListing pairs header names with the cells of one row. A name repeated
// in the header keeps its first value; columns past the end of the row are
// absent.
func NewRawListing(header, cells []string) RawListing {
	raw := make(RawListing, len(header))
	for i, name := range header {
		if i >= len(cells) {
			break
		}
		if _, dup := raw[name]; dup {
			continue
		}
		raw[name] = cells[i]
	}
	return raw
}

// Text joins the values of columns, in that order, lower-cased and separated
// by spaces. Columns absent from the row are skipped.
func (r RawListing) Text(columns []string) string {
	parts := make([]string, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		v, ok := r[c]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		parts = append(parts, v)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Listing is a normalized, enriched auction listing.
//
// Bedrooms, ParkingSpaces, LivingAreaM2 and LotAreaM2 are nil when the fact
// was not found in the listing text. A non-nil zero is a confirmed zero.
type Listing struct {
	ID                string       `json:"id"`
	City              string       `json:"city"`
	Neighborhood      string       `json:"neighborhood"`
	Address           string       `json:"address"`
	SalePrice         float64      `json:"sale_price"`
	AppraisalValue    float64      `json:"appraisal_value"`
	PropertyType      PropertyType `json:"property_type"`
	Occupancy         Occupancy    `json:"occupancy"`
	Bedrooms          *int         `json:"bedrooms"`
	ParkingSpaces     *int         `json:"parking_spaces"`
	LivingAreaM2      *float64     `json:"living_area_m2"`
	LotAreaM2         *float64     `json:"lot_area_m2"`
	FinancingEligible bool         `json:"financing_eligible"`
	Modality          string       `json:"modality"`
}

// DiscountPct returns the discount of the sale price against the appraisal
// value, in percent. It is always derived from the two price fields and
// returns 0 when the appraisal value is not positive.
func (l Listing) DiscountPct() float64 {
	if l.AppraisalValue <= 0 {
		return 0
	}
	return (l.AppraisalValue - l.SalePrice) / l.AppraisalValue * 100
}

// DetailURL builds the listing detail page link by appending the id to base.
func DetailURL(base, id string) string {
	if id == "" {
		return ""
	}
	return base + id
}

// MapURL builds a map search link for the listing location.
func MapURL(base string, l Listing) string {
	var parts []string
	for _, p := range []string{l.Address, l.Neighborhood, l.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return base + url.QueryEscape(strings.Join(parts, ", "))
}
