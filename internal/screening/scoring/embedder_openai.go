package scoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sashabaranov/go-openai"

	"namescreen/internal/screening/ports"
)

// ErrModelNotLoaded is returned by model calls made before Load.
var ErrModelNotLoaded = errors.New("model not loaded")

// OpenAIConfig points at any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func (c OpenAIConfig) client() *openai.Client {
	cfg := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (c OpenAIConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}

// OpenAIEmbedder calls an embeddings endpoint. Load creates the client and
// probes the endpoint once to learn the vector size.
type OpenAIEmbedder struct {
	cfg   OpenAIConfig
	model string

	mu         sync.RWMutex
	client     *openai.Client
	dimensions int
}

func NewOpenAIEmbedder(cfg OpenAIConfig) *OpenAIEmbedder {
	model := cfg.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{cfg: cfg, model: model}
}

func (e *OpenAIEmbedder) Load(ctx context.Context) error {
	client := e.cfg.client()
	vec, err := e.embed(ctx, client, "probe")
	if err != nil {
		return fmt.Errorf("load embedding model %s: %w", e.model, err)
	}
	e.mu.Lock()
	e.client = client
	e.dimensions = len(vec)
	e.mu.Unlock()
	return nil
}

func (e *OpenAIEmbedder) Close() error {
	e.mu.Lock()
	e.client = nil
	e.mu.Unlock()
	return nil
}

func (e *OpenAIEmbedder) Dimensions() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dimensions
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	client := e.client
	e.mu.RUnlock()
	if client == nil {
		return nil, ErrModelNotLoaded
	}
	return e.embed(ctx, client, text)
}

func (e *OpenAIEmbedder) embed(ctx context.Context, client *openai.Client, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.timeout())
	defer cancel()

	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding API call failed: %w", err)
	}
	if len(resp.Data) != 1 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("API returned %d embeddings for 1 text", len(resp.Data))
	}
	return resp.Data[0].Embedding, nil
}

// CachedEmbedder memoises vectors by text. Registry names repeat across
// requests so most candidate embeddings are served from memory.
type CachedEmbedder struct {
	ports.EmbeddingModel
	cache *gocache.Cache
}

func NewCachedEmbedder(next ports.EmbeddingModel, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		EmbeddingModel: next,
		cache:          gocache.New(ttl, 2*ttl),
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return v.([]float32), nil
	}
	vec, err := c.EmbeddingModel.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(text, vec)
	return vec, nil
}

// Close flushes the cache and closes the wrapped model.
func (c *CachedEmbedder) Close() error {
	c.cache.Flush()
	return c.EmbeddingModel.Close()
}
