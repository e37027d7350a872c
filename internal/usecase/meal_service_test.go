package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/torimo/backend/internal/domain"
)

func newTestMealService(t *testing.T, ds *domain.Dataset, parser domain.ItemParser, normalizer domain.NameNormalizer) *MealService {
	t.Helper()
	nutrition := newTestNutritionService(t, ds, nil, nil, nil)
	return NewMealService(nutrition, parser, normalizer, zaptest.NewLogger(t))
}

func TestAnalyze_TextTotals(t *testing.T) {
	ds := testDataset(
		entry("ご飯", 156, 2.5, 0.3, 37.1),
		entry("焼き鳥", 199, 18.4, 11.7, 3.9),
	)
	svc := newTestMealService(t, ds, nil, nil)

	res, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{Text: "白ごはん150g 焼き鳥 200g"})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	rice := res.Items[0]
	assert.True(t, rice.Found)
	assert.Equal(t, "白ごはん", rice.Name)
	assert.Equal(t, "150g", rice.Per)
	assert.Equal(t, 150.0, rice.Grams)
	assert.InDelta(t, 234.0, rice.Calories, 1e-9)
	assert.Equal(t, domain.SourceDataset, rice.Source)

	yakitori := res.Items[1]
	assert.InDelta(t, 398.0, yakitori.Calories, 1e-9)

	assert.InDelta(t, 632.0, res.Totals.Calories, 1e-9)
}

func TestAnalyze_PreParsedItemsWin(t *testing.T) {
	svc := newTestMealService(t, testDataset(), nil, nil)

	res, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{
		Text: "ignored 100g",
		Items: []domain.ParsedItem{
			{Name: "卵", Quantity: domain.Quantity(2), Unit: "個"},
			{Name: "  "},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "卵", res.Items[0].Name)
	assert.Equal(t, "2個", res.Items[0].Per)
	assert.Equal(t, 156.0, res.Items[0].Calories)
	assert.Equal(t, domain.SourceOffline, res.Items[0].Source)
	assert.Equal(t, 156.0, res.Totals.Calories)
}

func TestAnalyze_NotFoundCarriesSuggestions(t *testing.T) {
	ds := testDataset(entry("abcdefghij", 100, 1, 1, 1))
	svc := newTestMealService(t, ds, nil, nil)

	res, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{
		Items: []domain.ParsedItem{{Name: "abcdefgxyz"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.False(t, res.Items[0].Found)
	assert.Equal(t, []string{"abcdefghij"}, res.Items[0].Suggestions)
	assert.Zero(t, res.Totals.Calories)
}

func TestAnalyze_LLMParserOnlyWhenHeuristicFindsNothing(t *testing.T) {
	llm := &MockItemParser{items: []domain.ParsedItem{{Name: "卵", Quantity: domain.Quantity(1), Unit: "個"}}}
	svc := newTestMealService(t, testDataset(), llm, nil)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, &domain.AnalyzeRequest{Text: "卵1個"})
	require.NoError(t, err)
	assert.Equal(t, 0, llm.calls)

	res, err := svc.Analyze(ctx, &domain.AnalyzeRequest{Text: "、、"})
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 78.0, res.Items[0].Calories)
}

func TestAnalyze_LLMParserFailureYieldsNoItems(t *testing.T) {
	llm := &MockItemParser{err: domain.ErrLLMUnavailable}
	svc := newTestMealService(t, testDataset(), llm, nil)

	res, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{Text: "，"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestAnalyze_NormalizerRetry(t *testing.T) {
	ds := testDataset(entry("焼き鳥", 199, 18.4, 11.7, 3.9))
	normalizer := &MockNameNormalizer{names: map[string]string{"yakitori": "焼き鳥"}}
	svc := newTestMealService(t, ds, nil, normalizer)

	res, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{
		Items: []domain.ParsedItem{
			{Name: "yakitori", Quantity: domain.Quantity(100), Unit: "g"},
			{Name: "qqqq"},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.True(t, res.Items[0].Found)
	assert.Equal(t, "焼き鳥", res.Items[0].Name)
	assert.InDelta(t, 199.0, res.Items[0].Calories, 1e-9)
	assert.False(t, res.Items[1].Found)
	assert.Equal(t, 2, normalizer.calls)
}

func TestAnalyze_NormalizerErrorKeepsNotFound(t *testing.T) {
	normalizer := &MockNameNormalizer{err: errors.New("quota exceeded")}
	svc := newTestMealService(t, testDataset(), nil, normalizer)

	res, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{Items: []domain.ParsedItem{{Name: "qqqq"}}})
	require.NoError(t, err)
	assert.False(t, res.Items[0].Found)
	assert.NotNil(t, res.Items[0].Suggestions)
}

func TestAnalyze_InvalidRequest(t *testing.T) {
	svc := newTestMealService(t, testDataset(), nil, nil)

	_, err := svc.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.Analyze(context.Background(), &domain.AnalyzeRequest{Text: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
