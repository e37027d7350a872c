package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/torimo/backend/internal/domain"
)

// Resolver resolves one food name; implemented by NutritionService
type Resolver interface {
	Resolve(ctx context.Context, name string) (*domain.Resolution, error)
	Suggest(name string) []string
}

// MealService analyzes a meal description into per-item and total macros
type MealService struct {
	resolver   Resolver
	llmParser  domain.ItemParser
	normalizer domain.NameNormalizer
	logger     *zap.Logger
}

// NewMealService creates a meal service. llmParser and normalizer are
// optional collaborators and may be nil.
func NewMealService(resolver Resolver, llmParser domain.ItemParser, normalizer domain.NameNormalizer, logger *zap.Logger) *MealService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MealService{
		resolver:   resolver,
		llmParser:  llmParser,
		normalizer: normalizer,
		logger:     logger.Named("meal"),
	}
}

// Analyze resolves and scales every item of the request. Pre-parsed items
// take precedence over text.
func (s *MealService) Analyze(ctx context.Context, req *domain.AnalyzeRequest) (*domain.AnalyzeResult, error) {
	if req == nil || (len(req.Items) == 0 && strings.TrimSpace(req.Text) == "") {
		return nil, domain.ErrInvalidRequest
	}

	items := req.Items
	if len(items) == 0 {
		items = s.parse(ctx, req.Text)
	}

	result := &domain.AnalyzeResult{Items: make([]domain.AnalyzedItem, 0, len(items))}
	var totals domain.Macros
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}

		res, err := s.resolve(ctx, name)
		if err != nil {
			var nf *domain.NotFoundError
			out := domain.AnalyzedItem{Name: name, Found: false}
			if errors.As(err, &nf) {
				out.Suggestions = nf.Suggestions
			}
			if out.Suggestions == nil {
				out.Suggestions = []string{}
			}
			result.Items = append(result.Items, out)
			continue
		}

		serving := ScaleServing(res.Query, res.Record, it.Quantity, it.Unit)
		result.Items = append(result.Items, domain.AnalyzedItem{
			Name:     res.Query,
			Found:    true,
			Grams:    serving.Grams,
			Per:      serving.Label,
			Calories: serving.Macros.Calories,
			ProteinG: serving.Macros.ProteinG,
			FatG:     serving.Macros.FatG,
			CarbsG:   serving.Macros.CarbsG,
			Source:   res.Record.Source,
		})
		totals = totals.Add(serving.Macros)
	}
	result.Totals = roundMacros(totals, 1)

	s.logger.Debug("meal analyzed", zap.Int("items", len(result.Items)), zap.Float64("calories", result.Totals.Calories))
	return result, nil
}

// parse runs the heuristic parser and falls back to the LLM parser only
// when the heuristic finds nothing.
func (s *MealService) parse(ctx context.Context, text string) []domain.ParsedItem {
	items := ParseFreeText(text)
	if len(items) > 0 || s.llmParser == nil {
		return items
	}
	llmItems, err := s.llmParser.ParseItems(ctx, text)
	if err != nil {
		s.logger.Debug("llm parser unavailable", zap.Error(err))
		return nil
	}
	return llmItems
}

// resolve runs the cascade, retrying once with an LLM-normalized name.
// On a retry hit the resolution reports the normalized name as its query.
func (s *MealService) resolve(ctx context.Context, name string) (*domain.Resolution, error) {
	res, err := s.resolver.Resolve(ctx, name)
	if err == nil || s.normalizer == nil || !errors.Is(err, domain.ErrFoodNotFound) {
		return res, err
	}

	normalized, nerr := s.normalizer.NormalizeName(ctx, name)
	normalized = strings.TrimSpace(normalized)
	if nerr != nil || normalized == "" || normalized == name {
		if nerr != nil {
			s.logger.Debug("llm normalizer unavailable", zap.Error(nerr))
		}
		return nil, err
	}

	retry, rerr := s.resolver.Resolve(ctx, normalized)
	if rerr != nil {
		// suggestions follow the name the user typed
		return nil, err
	}
	retry.Query = normalized
	return retry, nil
}
