package estimate

import "time"

const (
	ClassLikelyGenuine = "likely_genuine"
	ClassLikelyFake    = "likely_fake"
	ClassUncertain     = "uncertain"
)

// defaultPricePerSqft is used when the inventory has no usable flats.
const defaultPricePerSqft = 25

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ===== Requests =====

type FlatPriceInput struct {
	Area        float64  `json:"area" binding:"required,gt=0"`
	Bedrooms    int      `json:"bedrooms" binding:"required,gt=0"`
	Bathrooms   int      `json:"bathrooms" binding:"gte=0"`
	Floor       int      `json:"floor" binding:"gte=0"`
	Location    string   `json:"location" binding:"required"`
	FlatType    string   `json:"flatType" binding:"omitempty,oneof=bachelor family"`
	Orientation string   `json:"orientation"`
	Amenities   []string `json:"amenities"`
}

type AreaSuggestionInput struct {
	Budget   float64 `json:"budget" binding:"required,gt=0"`
	Bedrooms int     `json:"bedrooms" binding:"required,gt=0"`
	Location string  `json:"location"`
}

type BudgetFromAreaInput struct {
	Area      float64 `json:"area" binding:"required,gt=0"`
	Bedrooms  int     `json:"bedrooms" binding:"required,gt=0"`
	Bathrooms int     `json:"bathrooms" binding:"gte=0"`
	Location  string  `json:"location"`
}

// ===== Model replies =====

type PricePrediction struct {
	EstimatedRent    float64  `json:"estimatedRent" validate:"gt=0"`
	Confidence       string   `json:"confidence" validate:"required"`
	Factors          []string `json:"factors"`
	Range            Range    `json:"range"`
	LocationCategory string   `json:"locationCategory"`
}

type AreaSuggestion struct {
	RecommendedArea      float64  `json:"recommendedArea" validate:"gt=0"`
	AreaRange            Range    `json:"areaRange"`
	EstimatedPrice       float64  `json:"estimatedPrice"`
	Suggestions          []string `json:"suggestions"`
	AlternativeLocations []string `json:"alternativeLocations"`
	Feasibility          string   `json:"feasibility"`
	MarketInsight        string   `json:"marketInsight"`
}

type BudgetSuggestion struct {
	SuggestedBudget  float64  `json:"suggestedBudget" validate:"gt=0"`
	BudgetRange      Range    `json:"budgetRange"`
	Rationale        string   `json:"rationale"`
	Tips             []string `json:"tips"`
	MarketComparison string   `json:"marketComparison"`
	Confidence       string   `json:"confidence"`
}

type TreeVerdict struct {
	Classification string  `json:"classification" validate:"required,oneof=likely_genuine likely_fake uncertain"`
	Confidence     float64 `json:"confidence" validate:"gte=0,lte=1"`
	Reasoning      string  `json:"reasoning" validate:"required"`
}

// ===== Results =====

type PriceResult struct {
	Prediction  PricePrediction `json:"prediction"`
	MarketStats MarketStats     `json:"marketStats"`
}

type AreaResult struct {
	Suggestion  AreaSuggestion `json:"suggestion"`
	MarketStats MarketStats    `json:"marketStats"`
	Fallback    bool           `json:"fallback,omitempty"`
}

type BudgetResult struct {
	Budget      BudgetSuggestion `json:"budget"`
	MarketStats MarketStats      `json:"marketStats"`
	Fallback    bool             `json:"fallback,omitempty"`
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Model     string    `json:"model"`
	URL       string    `json:"url"`
	CheckedAt time.Time `json:"checkedAt"`
}
