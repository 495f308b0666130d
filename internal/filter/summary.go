package filter

import "sort"

// Summary holds the headline metrics of a ranked set.
type Summary struct {
	Count          int     `json:"count"`
	AvgDiscountPct float64 `json:"avg_discount_pct"`
	MaxDiscountPct float64 `json:"max_discount_pct"`
	MedianPrice    float64 `json:"median_price"`
}

// Summarize computes the metrics for ranked. An empty set yields a zero
// Summary.
func Summarize(ranked []Ranked) Summary {
	if len(ranked) == 0 {
		return Summary{}
	}

	s := Summary{Count: len(ranked), MaxDiscountPct: ranked[0].DiscountPct}
	prices := make([]float64, 0, len(ranked))
	var total float64
	for _, r := range ranked {
		total += r.DiscountPct
		if r.DiscountPct > s.MaxDiscountPct {
			s.MaxDiscountPct = r.DiscountPct
		}
		prices = append(prices, r.SalePrice)
	}
	s.AvgDiscountPct = total / float64(len(ranked))

	sort.Float64s(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		s.MedianPrice = (prices[mid-1] + prices[mid]) / 2
	} else {
		s.MedianPrice = prices[mid]
	}
	return s
}
