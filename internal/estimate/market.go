package estimate

import (
	"math"
	"strconv"

	"github.com/housefit/apartment-management-backend/internal/property"
)

type SqftSample struct {
	Area         float64 `json:"area"`
	Rent         float64 `json:"rent"`
	PricePerSqft float64 `json:"pricePerSqft"`
}

// MarketStats summarises the available inventory. All averages are rounded.
type MarketStats struct {
	TotalFlats         int             `json:"totalFlats"`
	AvgRent            float64         `json:"avgRent"`
	AvgArea            float64         `json:"avgArea"`
	AvgBedroomsByCount map[int]float64 `json:"avgBedroomsByCount"`
	PricePerSqft       []SqftSample    `json:"pricePerSqft"`
	AvgPricePerSqft    float64         `json:"avgPricePerSqft"`
	MinRent            float64         `json:"minRent"`
	MaxRent            float64         `json:"maxRent"`
}

func ComputeMarketStats(flats []property.Flat) MarketStats {
	stats := MarketStats{
		AvgBedroomsByCount: map[int]float64{},
		PricePerSqft:       []SqftSample{},
	}
	if len(flats) == 0 {
		return stats
	}

	var rentSum, areaSum float64
	byBedrooms := map[int][]float64{}
	stats.MinRent, stats.MaxRent = flats[0].Rent, flats[0].Rent
	for _, f := range flats {
		rentSum += f.Rent
		areaSum += f.Area
		byBedrooms[f.Bedrooms] = append(byBedrooms[f.Bedrooms], f.Rent)
		stats.MinRent = math.Min(stats.MinRent, f.Rent)
		stats.MaxRent = math.Max(stats.MaxRent, f.Rent)
		if f.Area > 0 {
			stats.PricePerSqft = append(stats.PricePerSqft, SqftSample{
				Area:         f.Area,
				Rent:         f.Rent,
				PricePerSqft: math.Round(f.Rent / f.Area),
			})
		}
	}

	n := float64(len(flats))
	stats.TotalFlats = len(flats)
	stats.AvgRent = math.Round(rentSum / n)
	stats.AvgArea = math.Round(areaSum / n)
	for beds, rents := range byBedrooms {
		stats.AvgBedroomsByCount[beds] = math.Round(sum(rents) / float64(len(rents)))
	}

	if len(stats.PricePerSqft) > 0 {
		var pps float64
		for _, s := range stats.PricePerSqft {
			pps += s.PricePerSqft
		}
		stats.AvgPricePerSqft = math.Round(pps / float64(len(stats.PricePerSqft)))
	}
	return stats
}

// pricePerSqft is the rate used by prompts and fallbacks.
func (m MarketStats) pricePerSqft() float64 {
	if m.AvgPricePerSqft > 0 {
		return m.AvgPricePerSqft
	}
	return defaultPricePerSqft
}

func fallbackArea(budget float64, stats MarketStats) AreaSuggestion {
	pps := stats.pricePerSqft()
	minArea := math.Round(budget / (pps * 1.2))
	maxArea := math.Round(budget / (pps * 0.8))
	return AreaSuggestion{
		RecommendedArea:      math.Round((minArea + maxArea) / 2),
		AreaRange:            Range{Min: minArea, Max: maxArea},
		EstimatedPrice:       budget,
		Suggestions:          []string{"Check local market", "Consider nearby areas"},
		AlternativeLocations: []string{"Dhaka", "Suburbs"},
		Feasibility:          "realistic",
		MarketInsight:        marketInsight(stats),
	}
}

func fallbackBudget(area float64, stats MarketStats) BudgetSuggestion {
	est := math.Round(area * stats.pricePerSqft())
	return BudgetSuggestion{
		SuggestedBudget:  est,
		BudgetRange:      Range{Min: math.Round(est * 0.8), Max: math.Round(est * 1.2)},
		Rationale:        marketInsight(stats),
		Tips:             []string{"Market prices may vary", "Check with multiple properties"},
		MarketComparison: "Market average",
		Confidence:       "medium",
	}
}

func marketInsight(stats MarketStats) string {
	return "Based on market data with " + strconv.Itoa(stats.TotalFlats) + " flats analyzed"
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}
