package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/torimo/backend/internal/domain"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 10 * time.Second
)

const (
	parseInstruction = "You extract meals from text into a strict JSON object with an 'items' array. " +
		"Each item has fields: name (Japanese), quantity (number), unit (string). " +
		"Supported units: g, kg, ml, l, 個, 本, 串, 枚, 杯, cup, cups, bowl, bowls. " +
		"If unit is missing, leave unit empty and quantity null. Output ONLY JSON."
	normalizeInstruction = "Output only the canonical Japanese food name with no extra text. " +
		"Normalize spacing and script variants (e.g., ライス→ご飯, 焼鳥→焼き鳥)."
)

var (
	trailingObject = regexp.MustCompile(`\{[\s\S]*\}$`)
	codeFence      = regexp.MustCompile("^```[a-zA-Z]*\\s*|\\s*```$")
)

// Config configures the Gemini client
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls the Gemini generateContent endpoint. It implements
// domain.ItemParser and domain.NameNormalizer.
type Client struct {
	client *resty.Client
	apiKey string
	model  string
	logger *zap.Logger
}

// NewClient creates a Gemini client. Zero config fields fall back to defaults.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		client: client,
		apiKey: cfg.APIKey,
		// "models/gemini-1.5-pro" style names are accepted too
		model:  strings.TrimPrefix(cfg.Model, "models/"),
		logger: logger.Named("gemini"),
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate sends prompt and returns the first candidate's text, trimmed
func (c *Client) generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", domain.ErrLLMUnavailable
	}

	req := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: temperature, MaxOutputTokens: maxTokens},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(req).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Debug("generate failed", zap.Int("status", resp.StatusCode()), zap.String("body", resp.String()))
		return "", fmt.Errorf("%w: status %d", domain.ErrLLMUnavailable, resp.StatusCode())
	}

	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrLLMUnavailable, err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrLLMUnavailable)
	}
	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

// ParseItems asks the model to extract food items from text
func (c *Client) ParseItems(ctx context.Context, text string) ([]domain.ParsedItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	prompt := parseInstruction + "\nText: " + text +
		"\nReturn JSON with shape: {\"items\":[{\"name\":\"\",\"quantity\":null,\"unit\":\"\"}]}"

	out, err := c.generate(ctx, prompt, 0.2, 400)
	if err != nil {
		return nil, err
	}
	return decodeItems(out), nil
}

// NormalizeName asks the model for the canonical Japanese spelling of name
func (c *Client) NormalizeName(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	prompt := normalizeInstruction + "\nName: " + name + "\nOutput only the canonical Japanese food name."

	out, err := c.generate(ctx, prompt, 0, 16)
	if err != nil {
		return "", err
	}
	// the model sometimes echoes a label or a second line
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return strings.TrimSpace(out), nil
}

type itemsDocument struct {
	Items []struct {
		Name     string `json:"name"`
		Quantity any    `json:"quantity"`
		Unit     string `json:"unit"`
	} `json:"items"`
}

// decodeItems reads the model's JSON answer, tolerating code fences and
// leading prose. Undecodable output yields no items.
func decodeItems(raw string) []domain.ParsedItem {
	raw = strings.TrimSpace(codeFence.ReplaceAllString(strings.TrimSpace(raw), ""))
	if raw == "" {
		return nil
	}

	var doc itemsDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		m := trailingObject.FindString(raw)
		if m == "" {
			return nil
		}
		doc = itemsDocument{}
		if err := json.Unmarshal([]byte(m), &doc); err != nil {
			return nil
		}
	}

	items := make([]domain.ParsedItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		items = append(items, domain.ParsedItem{
			Name:     name,
			Quantity: quantityOf(it.Quantity),
			Unit:     strings.TrimSpace(it.Unit),
		})
	}
	return items
}

func quantityOf(v any) *float64 {
	switch q := v.(type) {
	case float64:
		return &q
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	default:
		return nil
	}
}
