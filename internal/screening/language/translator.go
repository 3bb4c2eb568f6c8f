package language

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"namescreen/internal/screening/ports"
)

// ErrEmptyTranslation is returned when the backend answers with no text.
var ErrEmptyTranslation = errors.New("empty translation")

const translatePrompt = "You transliterate and translate personal and organisation names for sanctions screening. " +
	"Reply with the name written in the target language only, with no quotes, notes or explanation."

// OpenAIConfig configures any OpenAI-compatible chat completion endpoint
// (OpenAI, vLLM, Ollama, LiteLLM).
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAITranslator translates names with a chat completion model.
type OpenAITranslator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAITranslator(cfg OpenAIConfig) *OpenAITranslator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenAITranslator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
	}
}

func (t *OpenAITranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translatePrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Target language: %s\nName: %s", targetLang, text)},
		},
		MaxTokens: 64,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyTranslation
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}

// CachedTranslator memoizes translations. Names repeat heavily across screening
// traffic and translation is the slowest stage.
type CachedTranslator struct {
	next  ports.Translator
	cache *gocache.Cache
}

func NewCachedTranslator(next ports.Translator, ttl time.Duration) *CachedTranslator {
	return &CachedTranslator{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *CachedTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	key := targetLang + "\x00" + text
	if v, ok := c.cache.Get(key); ok {
		return v.(string), nil
	}
	out, err := c.next.Translate(ctx, text, targetLang)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(key, out)
	return out, nil
}

// RateLimitedTranslator caps the request rate to the translation backend.
type RateLimitedTranslator struct {
	next    ports.Translator
	limiter *rate.Limiter
}

func NewRateLimitedTranslator(next ports.Translator, perSecond float64, burst int) *RateLimitedTranslator {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedTranslator{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (r *RateLimitedTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("translation rate limit: %w", err)
	}
	return r.next.Translate(ctx, text, targetLang)
}
