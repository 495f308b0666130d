package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/imoveis-cli/internal/filter"
)

// SheetName is the worksheet holding exported listings.
const SheetName = "Imoveis"

var xlsxHeader = []string{
	"id", "city", "neighborhood", "address", "property_type", "occupancy",
	"sale_price", "appraisal_value", "discount_pct",
	"bedrooms", "parking_spaces", "living_area_m2", "lot_area_m2",
	"financing_eligible", "modality", "detail_url", "map_url",
}

// WriteXLSX writes ranked to a single-sheet workbook. Prices, discount and
// known facts are numeric cells; unknown facts are left blank.
func WriteXLSX(w io.Writer, ranked []filter.Ranked, links Links) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: xlsx add sheet")
	}

	row := sheet.AddRow()
	for _, h := range xlsxHeader {
		row.AddCell().SetString(h)
	}

	for _, r := range ranked {
		row := sheet.AddRow()
		row.AddCell().SetString(r.ID)
		row.AddCell().SetString(r.City)
		row.AddCell().SetString(r.Neighborhood)
		row.AddCell().SetString(r.Address)
		row.AddCell().SetString(string(r.PropertyType))
		row.AddCell().SetString(string(r.Occupancy))
		row.AddCell().SetFloat(r.SalePrice)
		row.AddCell().SetFloat(r.AppraisalValue)
		row.AddCell().SetFloat(r.DiscountPct)
		addOptInt(row, r.Bedrooms)
		addOptInt(row, r.ParkingSpaces)
		addOptFloat(row, r.LivingAreaM2)
		addOptFloat(row, r.LotAreaM2)
		row.AddCell().SetBool(r.FinancingEligible)
		row.AddCell().SetString(r.Modality)
		row.AddCell().SetString(links.detail(r.Listing))
		row.AddCell().SetString(links.mapURL(r.Listing))
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func addOptInt(row *xlsx.Row, p *int) {
	c := row.AddCell()
	if p != nil {
		c.SetInt(*p)
	}
}

func addOptFloat(row *xlsx.Row, p *float64) {
	c := row.AddCell()
	if p != nil {
		c.SetFloat(*p)
	}
}
