package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/imoveis-cli/internal/model"
)

func sample() []model.Listing {
	return []model.Listing{
		{ID: "a", City: "São Paulo", Neighborhood: "Jardim São Luís", SalePrice: 80000, AppraisalValue: 100000,
			PropertyType: model.PropertyTypeHouse, Occupancy: model.OccupancyOccupied},
		{ID: "b", City: "Campinas", Neighborhood: "Centro", SalePrice: 50000, AppraisalValue: 100000,
			PropertyType: model.PropertyTypeApartment, Occupancy: model.OccupancyVacant},
		{ID: "c", City: "São Paulo", Neighborhood: "Mooca", SalePrice: 300000, AppraisalValue: 400000,
			PropertyType: model.PropertyTypeApartment, Occupancy: model.OccupancyUnknown},
		{ID: "d", City: "São Paulo", Neighborhood: "Centro", SalePrice: 90000, AppraisalValue: 100000,
			PropertyType: model.PropertyTypeLand, Occupancy: model.OccupancyVacant},
		{ID: "e", City: "Santos", Neighborhood: "Gonzaga", SalePrice: 75000, AppraisalValue: 100000,
			PropertyType: model.PropertyTypeCommercial, Occupancy: model.OccupancyOccupied},
	}
}

func ids(rs []Ranked) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestApply_RanksByDiscount(t *testing.T) {
	got := Apply(sample(), Filters{})
	// b=50, c=25, e=25, a=20, d=10; c precedes e by input order.
	assert.Equal(t, []string{"b", "c", "e", "a", "d"}, ids(got))
	assert.InDelta(t, 50.0, got[0].DiscountPct, 1e-9)
}

func TestApply_Predicates(t *testing.T) {
	tests := []struct {
		name string
		f    Filters
		want []string
	}{
		{"city", Filters{City: "São Paulo"}, []string{"c", "a", "d"}},
		{"city is exact", Filters{City: "sao paulo"}, []string{}},
		{"type", Filters{PropertyType: model.PropertyTypeApartment}, []string{"b", "c"}},
		{"occupancy", Filters{Occupancy: model.OccupancyVacant}, []string{"b", "d"}},
		{"price ceiling inclusive", Filters{MaxPrice: 80000}, []string{"b", "e", "a"}},
		{"discount floor inclusive", Filters{MinDiscount: 25}, []string{"b", "c", "e"}},
		{"search accent insensitive", Filters{Search: "sao luis"}, []string{"a"}},
		{"search case insensitive", Filters{Search: "CENTRO"}, []string{"b", "d"}},
		{"blank search", Filters{Search: "  "}, []string{"b", "c", "e", "a", "d"}},
		{"combined", Filters{City: "São Paulo", PropertyType: model.PropertyTypeApartment, MinDiscount: 20}, []string{"c"}},
		{"nothing matches", Filters{City: "Recife"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sample(), tt.f)))
		})
	}
}

func TestApply_FilteringInvariant(t *testing.T) {
	for _, floor := range []float64{-10, 0, 15, 25, 49.9, 60} {
		for _, city := range []string{"", "São Paulo", "Campinas"} {
			for _, r := range Apply(sample(), Filters{City: city, MinDiscount: floor}) {
				assert.GreaterOrEqual(t, r.DiscountPct, floor)
				if city != "" {
					assert.Equal(t, city, r.City)
				}
			}
		}
	}
}

func TestApply_DiscountRecomputedIdentically(t *testing.T) {
	in := sample()
	first := Apply(in, Filters{})
	for range 3 {
		again := Apply(in, Filters{MinDiscount: -100})
		require.Len(t, again, len(first))
		for i := range again {
			l := again[i].Listing
			want := (l.AppraisalValue - l.SalePrice) / l.AppraisalValue * 100
			assert.Equal(t, want, again[i].DiscountPct)
			assert.Equal(t, first[i].DiscountPct, again[i].DiscountPct)
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := sample()
	_ = Apply(in, Filters{City: "São Paulo", MinDiscount: 15})
	assert.Equal(t, sample(), in)
}

func TestApply_NegativeDiscountNeedsNegativeFloor(t *testing.T) {
	in := []model.Listing{{ID: "x", SalePrice: 120, AppraisalValue: 100}}
	assert.Empty(t, Apply(in, Filters{}))
	assert.Len(t, Apply(in, Filters{MinDiscount: -50}), 1)
}

func TestCities(t *testing.T) {
	in := append(sample(), model.Listing{City: ""}, model.Listing{City: "Araçatuba"})
	assert.Equal(t, []string{"Araçatuba", "Campinas", "Santos", "São Paulo"}, Cities(in))
	assert.Empty(t, Cities(nil))
}

func TestTypes(t *testing.T) {
	assert.Equal(t, []model.PropertyType{
		model.PropertyTypeHouse,
		model.PropertyTypeApartment,
		model.PropertyTypeLand,
		model.PropertyTypeCommercial,
	}, Types(sample()))
	assert.Empty(t, Types(nil))
}

func TestSummarize(t *testing.T) {
	s := Summarize(Apply(sample(), Filters{}))
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 26.0, s.AvgDiscountPct, 1e-9)
	assert.InDelta(t, 50.0, s.MaxDiscountPct, 1e-9)
	// 50k 75k 80k 90k 300k
	assert.Equal(t, 80000.0, s.MedianPrice)

	s = Summarize(Apply(sample(), Filters{Occupancy: model.OccupancyVacant}))
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 70000.0, s.MedianPrice)

	assert.Equal(t, Summary{}, Summarize(nil))
}
