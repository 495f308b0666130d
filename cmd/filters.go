package main

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/imoveis-cli/internal/filter"
	"github.com/sells-group/imoveis-cli/internal/model"
)

// filterFlags are the listing filters shared by listings and export.
type filterFlags struct {
	city        string
	ptype       string
	occupancy   string
	maxPrice    float64
	minDiscount float64
	search      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.city, "city", "", "exact city name")
	cmd.Flags().StringVar(&f.ptype, "type", "", "property type: house, apartment, land, commercial, unknown")
	cmd.Flags().StringVar(&f.occupancy, "occupancy", "", "occupancy: occupied, vacant, unknown")
	cmd.Flags().Float64Var(&f.maxPrice, "max-price", 0, "sale price ceiling (0 = none)")
	cmd.Flags().Float64Var(&f.minDiscount, "min-discount", 0, "minimum discount in percent")
	cmd.Flags().StringVar(&f.search, "search", "", "neighborhood text, case and accent insensitive")
}

func (f *filterFlags) filters() (filter.Filters, error) {
	return buildFilters(f.city, f.ptype, f.occupancy, f.maxPrice, f.minDiscount, f.search)
}

// filtersFromQuery reads filters from API query parameters.
func filtersFromQuery(q url.Values) (filter.Filters, error) {
	maxPrice, err := queryFloat(q, "max_price")
	if err != nil {
		return filter.Filters{}, err
	}
	minDiscount, err := queryFloat(q, "min_discount")
	if err != nil {
		return filter.Filters{}, err
	}
	return buildFilters(q.Get("city"), q.Get("type"), q.Get("occupancy"), maxPrice, minDiscount, q.Get("q"))
}

func queryFloat(q url.Values, key string) (float64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func buildFilters(city, ptype, occupancy string, maxPrice, minDiscount float64, search string) (filter.Filters, error) {
	f := filter.Filters{
		City:        strings.TrimSpace(city),
		MaxPrice:    maxPrice,
		MinDiscount: minDiscount,
		Search:      search,
	}
	if maxPrice < 0 {
		return f, eris.Errorf("invalid max price %v", maxPrice)
	}
	if ptype != "" {
		t, ok := model.ParsePropertyType(ptype)
		if !ok {
			return f, eris.Errorf("invalid property type %q", ptype)
		}
		f.PropertyType = t
	}
	if occupancy != "" {
		o, ok := model.ParseOccupancy(occupancy)
		if !ok {
			return f, eris.Errorf("invalid occupancy %q", occupancy)
		}
		f.Occupancy = o
	}
	return f, nil
}
