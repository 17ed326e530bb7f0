package estimate

import (
	"context"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/property"
	"go.uber.org/zap"
)

// marketSampleSize bounds the flats read for market statistics.
const marketSampleSize = 50

type FlatSource interface {
	AvailableFlats(ctx context.Context, limit int) ([]property.Flat, error)
}

type Service interface {
	PredictFlatPrice(ctx context.Context, in FlatPriceInput) (*PriceResult, error)
	SuggestArea(ctx context.Context, in AreaSuggestionInput) (*AreaResult, error)
	BudgetFromArea(ctx context.Context, in BudgetFromAreaInput) (*BudgetResult, error)
	// VerifyTree classifies a tree photo. Errors are DependencyUnavailable or
	// *AIParseFailure.
	VerifyTree(ctx context.Context) (*TreeVerdict, error)
	Health(ctx context.Context) (*HealthStatus, error)
	Model() string
}

type service struct {
	gen   Generator
	flats FlatSource
	log   *zap.Logger
}

func NewService(gen Generator, flats FlatSource, log *zap.Logger) Service {
	return &service{gen: gen, flats: flats, log: log}
}

func (s *service) Model() string { return s.gen.Model() }

func (s *service) marketStats(ctx context.Context) (MarketStats, error) {
	flats, err := s.flats.AvailableFlats(ctx, marketSampleSize)
	if err != nil {
		return MarketStats{}, err
	}
	return ComputeMarketStats(flats), nil
}

func (s *service) PredictFlatPrice(ctx context.Context, in FlatPriceInput) (*PriceResult, error) {
	stats, err := s.marketStats(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, FlatPricePrompt(in, stats))
	if err != nil {
		return nil, err
	}
	var prediction PricePrediction
	if err := decodeReply(raw, &prediction); err != nil {
		s.log.Warn("⚠️ Unparsable price prediction", zap.String("raw", raw), zap.Error(err))
		return nil, err
	}
	return &PriceResult{Prediction: prediction, MarketStats: stats}, nil
}

func (s *service) SuggestArea(ctx context.Context, in AreaSuggestionInput) (*AreaResult, error) {
	stats, err := s.marketStats(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, AreaSuggestionPrompt(in, stats))
	if err == nil {
		var suggestion AreaSuggestion
		if err = decodeReply(raw, &suggestion); err == nil {
			return &AreaResult{Suggestion: suggestion, MarketStats: stats}, nil
		}
	}
	if !canFallBack(err) {
		return nil, err
	}

	s.log.Warn("⚠️ Area suggestion falling back to market data", zap.Error(err))
	return &AreaResult{Suggestion: fallbackArea(in.Budget, stats), MarketStats: stats, Fallback: true}, nil
}

func (s *service) BudgetFromArea(ctx context.Context, in BudgetFromAreaInput) (*BudgetResult, error) {
	stats, err := s.marketStats(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, BudgetFromAreaPrompt(in, stats))
	if err == nil {
		var budget BudgetSuggestion
		if err = decodeReply(raw, &budget); err == nil {
			return &BudgetResult{Budget: budget, MarketStats: stats}, nil
		}
	}
	if !canFallBack(err) {
		return nil, err
	}

	s.log.Warn("⚠️ Budget suggestion falling back to market data", zap.Error(err))
	return &BudgetResult{Budget: fallbackBudget(in.Area, stats), MarketStats: stats, Fallback: true}, nil
}

func (s *service) VerifyTree(ctx context.Context) (*TreeVerdict, error) {
	raw, err := s.gen.Generate(ctx, TreeVerificationPrompt)
	if err != nil {
		return nil, err
	}
	var verdict TreeVerdict
	if err := decodeReply(raw, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (s *service) Health(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{
		Status:    "ok",
		Model:     s.gen.Model(),
		URL:       s.gen.BaseURL(),
		CheckedAt: time.Now(),
	}
	if err := s.gen.Health(ctx); err != nil {
		status.Status = "unavailable"
		return status, err
	}
	return status, nil
}

// canFallBack reports whether the closed-form estimate may replace the model
// reply. Only an unreachable service qualifies; an unparsable reply is
// returned to the caller as *AIParseFailure.
func canFallBack(err error) bool {
	return apperrors.Is(err, apperrors.KindDependencyUnavailable)
}
