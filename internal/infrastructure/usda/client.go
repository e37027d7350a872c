package usda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/torimo/backend/internal/domain"
)

const (
	defaultRequestsPerHour = 1000
	defaultBurst           = 10
	defaultPageSize        = 5
	defaultHTTPTimeout     = 30 * time.Second
	maxAttempts            = 3
)

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	RequestsPerHour int
	PageSize        int
	HTTPTimeout     time.Duration
	Logger          *zap.Logger
}

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	pageSize    int
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	debug       bool
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string, opts Options) *Client {
	perHour := opts.RequestsPerHour
	if perHour <= 0 {
		perHour = defaultRequestsPerHour
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(perHour)/3600), defaultBurst)

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      apiKey,
		baseURL:     baseURL,
		pageSize:    pageSize,
		rateLimiter: limiter,
		logger:      logger.Named("usda"),
	}
}

// SetDebug enables per-request logging of the search query and hits
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Torimo/1.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error quotes the request URL; keep it out of logs
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrNutritionAPIFailure, uerr.Op, uerr.Err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNutritionAPIFailure, err)
	}
	return resp, nil
}

// SearchFoods searches the FoodData Central database. Transient failures
// are retried with exponential backoff; an empty hit list or a 404 is
// reported as domain.ErrFoodNotFound.
func (c *Client) SearchFoods(ctx context.Context, query string) (*SearchResponse, error) {
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base url: %v", domain.ErrNutritionAPIFailure, err)
	}

	params := url.Values{}
	params.Add("query", query)
	params.Add("pageSize", strconv.Itoa(c.pageSize))
	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	if c.debug {
		c.logger.Debug("search foods", zap.String("query", query))
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrNutritionAPIFailure, ctx.Err())
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrNutritionAPIFailure, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.logger.Debug("request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: read body: %v", domain.ErrNutritionAPIFailure, readErr)
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrFoodNotFound
		}
		if resp.StatusCode != http.StatusOK {
			c.logger.Debug("api error",
				zap.Int("attempt", attempt),
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", body),
			)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrNutritionAPIFailure, resp.StatusCode)
			// client errors other than throttling will not improve on retry
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			continue
		}

		var searchResp SearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrNutritionAPIFailure, err)
		}
		if len(searchResp.Foods) == 0 {
			return nil, domain.ErrFoodNotFound
		}

		if c.debug {
			c.logger.Debug("search hits", zap.String("query", query), zap.Int("foods", len(searchResp.Foods)))
		}
		return &searchResp, nil
	}

	c.logger.Warn("all retries failed", zap.String("query", query), zap.Error(lastErr))
	return nil, lastErr
}

// LookupFood implements domain.NutritionAPI: it searches for name, picks
// the best hit and maps it to a per-100g record.
func (c *Client) LookupFood(ctx context.Context, name string) (*domain.NutrientRecord, error) {
	if name == "" {
		return nil, domain.ErrInvalidRequest
	}

	resp, err := c.SearchFoods(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrFoodNotFound) || errors.Is(err, domain.ErrNutritionAPIFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNutritionAPIFailure, err)
	}

	food, score, ok := BestMatch(name, resp.Foods)
	if !ok {
		return nil, domain.ErrFoodNotFound
	}
	if c.debug {
		c.logger.Debug("best match",
			zap.String("query", name),
			zap.Int("fdc_id", food.FdcID),
			zap.String("description", food.Description),
			zap.Float64("score", score),
		)
	}

	rec := MapToRecord(food)
	return &rec, nil
}
