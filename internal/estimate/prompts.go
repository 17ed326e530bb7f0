package estimate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const TreeVerificationPrompt = `You are an expert environmental analyst. Analyze this tree plantation image.

STRICT OUTPUT FORMAT (JSON only):
{
  "classification": "likely_genuine" | "likely_fake" | "uncertain",
  "confidence": 0.0 to 1.0,
  "reasoning": "brief 1-2 sentence explanation"
}

GUIDELINES:
- "likely_genuine": Real tree, proper plantation, visible soil/roots, outdoor setting, natural appearance
- "likely_fake": Stock photo, indoor plant, screenshot, heavily edited, cartoon/drawing, artificial plant
- "uncertain": Poor quality image, ambiguous context, insufficient evidence, unclear perspective

IMPORTANT:
- Be conservative in your assessment
- Consider image quality, context, and authenticity indicators
- Provide specific reasoning based on visual evidence

Image context: User claims to have planted a tree and submitted this photo for verification.

Respond ONLY with valid JSON. No additional text.`

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func bedroomAverage(stats MarketStats, bedrooms int) string {
	if avg, ok := stats.AvgBedroomsByCount[bedrooms]; ok {
		return num(avg)
	}
	return "N/A"
}

func orAny(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Any"
	}
	return s
}

func FlatPricePrompt(in FlatPriceInput, stats MarketStats) string {
	var b strings.Builder
	b.WriteString("You are a real estate pricing expert in Dhaka, Bangladesh.\n\n")
	b.WriteString("PROPERTY:\n")
	fmt.Fprintf(&b, "- Area: %s sqft\n", num(in.Area))
	fmt.Fprintf(&b, "- Bedrooms: %d\n", in.Bedrooms)
	fmt.Fprintf(&b, "- Bathrooms: %d\n", in.Bathrooms)
	fmt.Fprintf(&b, "- Floor: %d\n", in.Floor)
	if in.FlatType != "" {
		fmt.Fprintf(&b, "- Flat type: %s\n", in.FlatType)
	}
	if in.Orientation != "" {
		fmt.Fprintf(&b, "- Orientation: %s\n", in.Orientation)
	}
	if len(in.Amenities) > 0 {
		fmt.Fprintf(&b, "- Amenities: %s\n", strings.Join(in.Amenities, ", "))
	}
	fmt.Fprintf(&b, "- Location: %s", in.Location)

	if stats.TotalFlats > 0 {
		fmt.Fprintf(&b, "\n\nREAL MARKET DATA FROM DATABASE (%d flats analyzed):\n", stats.TotalFlats)
		fmt.Fprintf(&b, "- Average rent: %s BDT\n", num(stats.AvgRent))
		fmt.Fprintf(&b, "- Average area: %s sqft\n", num(stats.AvgArea))
		fmt.Fprintf(&b, "- Price per sqft: %s BDT\n", num(stats.AvgPricePerSqft))
		fmt.Fprintf(&b, "- Min/Max rent: %s - %s BDT\n", num(stats.MinRent), num(stats.MaxRent))
		fmt.Fprintf(&b, "- Average %d-bed rent: %s BDT", in.Bedrooms, bedroomAverage(stats, in.Bedrooms))
	}

	b.WriteString(`

ESTIMATE the monthly rent using the market data. Respond with ONLY this JSON format:
{
  "estimatedRent": 35000,
  "confidence": "medium",
  "factors": ["location", "size", "bedrooms"],
  "range": {"min": 32000, "max": 38000},
  "locationCategory": "mid-range"
}`)
	return b.String()
}

func AreaSuggestionPrompt(in AreaSuggestionInput, stats MarketStats) string {
	var b strings.Builder
	b.WriteString("You are a real estate advisor in Dhaka, Bangladesh.\n\n")
	b.WriteString("CLIENT NEEDS:\n")
	fmt.Fprintf(&b, "- Budget: %s BDT/month\n", num(in.Budget))
	fmt.Fprintf(&b, "- Bedrooms: %d\n", in.Bedrooms)
	fmt.Fprintf(&b, "- Location: %s", orAny(in.Location))

	if stats.TotalFlats > 0 {
		pps := stats.pricePerSqft()
		fmt.Fprintf(&b, "\n\nREAL MARKET DATA (%d flats):\n", stats.TotalFlats)
		fmt.Fprintf(&b, "- Average rent: %s BDT\n", num(stats.AvgRent))
		fmt.Fprintf(&b, "- Price per sqft: %s BDT\n", num(pps))
		fmt.Fprintf(&b, "- %d-bed average: %s BDT\n", in.Bedrooms, bedroomAverage(stats, in.Bedrooms))
		fmt.Fprintf(&b, "- Expected area range for %s BDT: %s - %s sqft",
			num(in.Budget), num(math.Round(in.Budget/(pps*1.2))), num(math.Round(in.Budget/(pps*0.8))))
	}

	fmt.Fprintf(&b, `

SUGGEST flat size based on market data. Respond with ONLY this JSON format:
{
  "recommendedArea": 1100,
  "areaRange": {"min": 900, "max": 1300},
  "estimatedPrice": %s,
  "suggestions": ["Look near Dhanmondi", "Check mirpur area", "Consider Mohammadpur"],
  "alternativeLocations": ["Mirpur", "Mohammadpur"],
  "feasibility": "realistic",
  "marketInsight": "Based on market data, this budget allows for a reasonable apartment"
}`, num(in.Budget))
	return b.String()
}

func BudgetFromAreaPrompt(in BudgetFromAreaInput, stats MarketStats) string {
	var b strings.Builder
	b.WriteString("You are a real estate advisor in Dhaka, Bangladesh.\n\n")
	b.WriteString("PROPERTY REQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Area: %s sqft\n", num(in.Area))
	fmt.Fprintf(&b, "- Bedrooms: %d\n", in.Bedrooms)
	fmt.Fprintf(&b, "- Bathrooms: %d\n", in.Bathrooms)
	fmt.Fprintf(&b, "- Location: %s", orAny(in.Location))

	if stats.TotalFlats > 0 {
		fmt.Fprintf(&b, "\n\nREAL MARKET DATA (%d flats):\n", stats.TotalFlats)
		fmt.Fprintf(&b, "- Average rent: %s BDT\n", num(stats.AvgRent))
		fmt.Fprintf(&b, "- Price per sqft: %s BDT\n", num(stats.AvgPricePerSqft))
		fmt.Fprintf(&b, "- %d-bed average: %s BDT\n", in.Bedrooms, bedroomAverage(stats, in.Bedrooms))
		fmt.Fprintf(&b, "- Estimated budget for %s sqft: %s BDT",
			num(in.Area), num(math.Round(in.Area*stats.pricePerSqft())))
	}

	b.WriteString(`

SUGGEST realistic budget (monthly rent) based on market data. Respond with ONLY this JSON format:
{
  "suggestedBudget": 35000,
  "budgetRange": {"min": 32000, "max": 38000},
  "rationale": "Based on market trends",
  "tips": ["This is realistic for this area", "Look for flats in this price range"],
  "marketComparison": "Higher/Lower than average",
  "confidence": "medium"
}`)
	return b.String()
}
