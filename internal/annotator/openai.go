package annotator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/pkg/types"
)

// Provider configuration
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultBaseURL     = "https://api.openai.com"

	// DefaultTimeout covers one chat completion round trip
	DefaultTimeout = 60 * time.Second

	// Retry configuration
	MaxRetries        = 3
	InitialBackoffMs  = 250
	MaxBackoffMs      = 4000
	BackoffMultiplier = 2.0
)

// systemPrompt pins the model to machine-readable output. The placeholder
// instruction keeps masked entities byte-for-byte intact so offsets can be
// mapped back after unmasking.
const systemPrompt = `You are a copy editor. Find spelling, grammar, and style problems in the user's text.

Respond with a single JSON object of this form:
{"corrections": [{"category": "...", "start_index": 0, "end_index": 0, "original_text": "...", "suggested_replacement": "...", "explanation": "..."}]}

Rules:
- "category" is one of "spelling", "grammar", "style".
- "start_index" and "end_index" are byte offsets into the text exactly as given.
- "original_text" is the exact text between those offsets.
- Treat tokens of the form <ENTITY_TYPE_N> as opaque proper nouns. Never correct, reword, or remove them.
- Do not rewrite whole sentences. Report the smallest span that fixes each problem.
- Return {"corrections": []} when the text is clean.
- Output JSON only, no commentary.`

// OpenAI implements Annotator using an OpenAI-compatible chat completions API
type OpenAI struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	retry      RetryConfig
	log        *zap.Logger
}

// NewOpenAI creates a chat-completions backed annotator. The API key falls
// back to OPENAI_API_KEY when the config leaves it empty.
func NewOpenAI(cfg Config, cache *Cache) (*OpenAI, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrMissingAPIKey, EnvOpenAIAPIKey)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cache,
		retry: DefaultRetryConfig(),
		log:   log,
	}, nil
}

func (o *OpenAI) Name() string {
	return ProviderOpenAI
}

// Model returns the configured model name
func (o *OpenAI) Model() string {
	return o.model
}

func (o *OpenAI) Annotate(ctx context.Context, pc types.ProcessedChunk) ([]types.RawCorrection, error) {
	if pc.MaskedText == "" {
		return nil, ErrEmptyText
	}

	// Check cache
	hash := ComputeHash(ProviderOpenAI, o.model, pc.MaskedText)
	if o.cache != nil {
		if raws, ok := o.cache.Get(hash); ok {
			return raws, nil
		}
	}

	// Use retry logic with exponential backoff
	raws, err := retryWithBackoff(ctx, o.retry, func() ([]types.RawCorrection, error) {
		return o.callAPI(ctx, pc.MaskedText)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d retries: %v", ErrRequestFailed, o.retry.MaxRetries, err)
	}

	if o.cache != nil {
		o.cache.Set(hash, raws)
	}

	return raws, nil
}

func (o *OpenAI) callAPI(ctx context.Context, masked string) ([]types.RawCorrection, error) {
	reqBody := map[string]interface{}{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": masked},
		},
		"temperature":     0,
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	content := strings.TrimSpace(apiResp.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	o.log.Debug("annotator response received",
		zap.String("model", o.model),
		zap.Int("content_bytes", len(content)))

	return parseCorrections(content)
}

// parseCorrections extracts the corrections array from model output. Fenced
// code blocks and stray prose around the JSON are tolerated; everything
// inside still goes through offset resolution, so a parse here only
// establishes structure, never positions.
func parseCorrections(content string) ([]types.RawCorrection, error) {
	s := strings.TrimSpace(content)

	// Strip a markdown code fence if the model added one
	if strings.HasPrefix(s, "```") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	var wrapper struct {
		Corrections []types.RawCorrection `json:"corrections"`
	}

	if start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(s[start:end+1]), &wrapper); err == nil {
			return wrapper.Corrections, nil
		}
	}

	// Some models return the bare array despite the schema instruction
	if start, end := strings.IndexByte(s, '['), strings.LastIndexByte(s, ']'); start >= 0 && end > start {
		var raws []types.RawCorrection
		if err := json.Unmarshal([]byte(s[start:end+1]), &raws); err == nil {
			return raws, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, snippet(s, 120))
}

// snippet truncates s for error messages
func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func (o *OpenAI) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
