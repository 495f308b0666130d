// Package filter narrows an enriched listing set by user-selected predicates
// and ranks the survivors by discount.
package filter

import (
	"sort"
	"strings"

	"github.com/sells-group/imoveis-cli/internal/model"
	"github.com/sells-group/imoveis-cli/internal/textnorm"
)

// Filters holds the user-selected predicates. Zero values disable a
// predicate, except MinDiscount which is always applied.
type Filters struct {
	// City must equal the listing city exactly.
	City         string
	PropertyType model.PropertyType
	Occupancy    model.Occupancy
	// MaxPrice is an inclusive sale-price ceiling; 0 means no ceiling.
	MaxPrice float64
	// MinDiscount drops listings whose discount is below it.
	MinDiscount float64
	// Search is matched against the neighborhood ignoring case and accents.
	Search string
}

// Ranked is a listing paired with the discount computed for this ranking.
type Ranked struct {
	model.Listing
	DiscountPct float64 `json:"discount_pct"`
}

// Apply returns the listings matching f ordered by discount, highest first.
// Listings with equal discount keep their input order. The input is not
// modified.
func Apply(listings []model.Listing, f Filters) []Ranked {
	out := make([]Ranked, 0, len(listings))
	for _, l := range listings {
		if !f.match(l) {
			continue
		}
		d := l.DiscountPct()
		if d < f.MinDiscount {
			continue
		}
		out = append(out, Ranked{Listing: l, DiscountPct: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DiscountPct > out[j].DiscountPct
	})
	return out
}

func (f Filters) match(l model.Listing) bool {
	if f.City != "" && l.City != f.City {
		return false
	}
	if f.PropertyType != "" && l.PropertyType != f.PropertyType {
		return false
	}
	if f.Occupancy != "" && l.Occupancy != f.Occupancy {
		return false
	}
	if f.MaxPrice > 0 && l.SalePrice > f.MaxPrice {
		return false
	}
	if strings.TrimSpace(f.Search) != "" && !textnorm.Contains(l.Neighborhood, f.Search) {
		return false
	}
	return true
}

// Cities returns the distinct non-empty cities in listings, sorted.
func Cities(listings []model.Listing) []string {
	seen := make(map[string]struct{})
	for _, l := range listings {
		if l.City != "" {
			seen[l.City] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return textnorm.Normalize(out[i]) < textnorm.Normalize(out[j])
	})
	return out
}

// Types returns the property types present in listings in detection order.
func Types(listings []model.Listing) []model.PropertyType {
	seen := make(map[model.PropertyType]bool)
	for _, l := range listings {
		seen[l.PropertyType] = true
	}
	var out []model.PropertyType
	for _, t := range model.PropertyTypes {
		if seen[t] {
			out = append(out, t)
		}
	}
	return out
}
