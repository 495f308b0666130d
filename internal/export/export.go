// Package export renders ranked listings as downloadable files.
package export

import (
	"strconv"

	"github.com/sells-group/imoveis-cli/internal/filter"
	"github.com/sells-group/imoveis-cli/internal/model"
)

// Links holds the base URLs used to build per-listing links.
type Links struct {
	DetailBase string
	MapBase    string
}

// Row is the flat export form of a ranked listing. Unknown facts are empty.
type Row struct {
	ID                string `csv:"id"`
	City              string `csv:"city"`
	Neighborhood      string `csv:"neighborhood"`
	Address           string `csv:"address"`
	PropertyType      string `csv:"property_type"`
	Occupancy         string `csv:"occupancy"`
	SalePrice         string `csv:"sale_price"`
	AppraisalValue    string `csv:"appraisal_value"`
	DiscountPct       string `csv:"discount_pct"`
	Bedrooms          string `csv:"bedrooms"`
	ParkingSpaces     string `csv:"parking_spaces"`
	LivingAreaM2      string `csv:"living_area_m2"`
	LotAreaM2         string `csv:"lot_area_m2"`
	FinancingEligible string `csv:"financing_eligible"`
	Modality          string `csv:"modality"`
	DetailURL         string `csv:"detail_url"`
	MapURL            string `csv:"map_url"`
}

// Rows converts ranked listings to export rows, preserving order.
func Rows(ranked []filter.Ranked, links Links) []Row {
	rows := make([]Row, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, Row{
			ID:                r.ID,
			City:              r.City,
			Neighborhood:      r.Neighborhood,
			Address:           r.Address,
			PropertyType:      string(r.PropertyType),
			Occupancy:         string(r.Occupancy),
			SalePrice:         money(r.SalePrice),
			AppraisalValue:    money(r.AppraisalValue),
			DiscountPct:       strconv.FormatFloat(r.DiscountPct, 'f', 2, 64),
			Bedrooms:          optInt(r.Bedrooms),
			ParkingSpaces:     optInt(r.ParkingSpaces),
			LivingAreaM2:      optFloat(r.LivingAreaM2),
			LotAreaM2:         optFloat(r.LotAreaM2),
			FinancingEligible: strconv.FormatBool(r.FinancingEligible),
			Modality:          r.Modality,
			DetailURL:         links.detail(r.Listing),
			MapURL:            links.mapURL(r.Listing),
		})
	}
	return rows
}

func (l Links) detail(x model.Listing) string {
	if l.DetailBase == "" {
		return ""
	}
	return model.DetailURL(l.DetailBase, x.ID)
}

func (l Links) mapURL(x model.Listing) string {
	if l.MapBase == "" {
		return ""
	}
	return model.MapURL(l.MapBase, x)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func optFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
