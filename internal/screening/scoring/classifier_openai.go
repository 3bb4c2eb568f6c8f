package scoring

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

const classifyPrompt = "You compare two names for sanctions screening. " +
	"Reply with only the probability, between 0 and 1, that both names refer to the same person or organisation."

// probabilityFloor keeps the logit finite for answers of exactly 0 or 1.
const probabilityFloor = 1e-6

// OpenAIClassifier asks a chat model for a match probability and returns it as
// a (non-match, match) logit pair.
type OpenAIClassifier struct {
	cfg   OpenAIConfig
	model string

	mu     sync.RWMutex
	client *openai.Client
}

func NewOpenAIClassifier(cfg OpenAIConfig) *OpenAIClassifier {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClassifier{cfg: cfg, model: model}
}

func (c *OpenAIClassifier) Load(context.Context) error {
	c.mu.Lock()
	c.client = c.cfg.client()
	c.mu.Unlock()
	return nil
}

func (c *OpenAIClassifier) Close() error {
	c.mu.Lock()
	c.client = nil
	c.mu.Unlock()
	return nil
}

func (c *OpenAIClassifier) Infer(ctx context.Context, a, b string) ([2]float64, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client == nil {
		return [2]float64{}, ErrModelNotLoaded
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout())
	defer cancel()

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifyPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Name A: %s\nName B: %s", a, b)},
		},
		MaxTokens: 8,
	})
	if err != nil {
		return [2]float64{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return [2]float64{}, fmt.Errorf("classifier returned no choices")
	}
	p, err := parseProbability(resp.Choices[0].Message.Content)
	if err != nil {
		return [2]float64{}, err
	}
	return probabilityLogits(p), nil
}

func parseProbability(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("classifier answer %q is not a number", s)
	}
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, fmt.Errorf("classifier answer %g is outside [0, 1]", p)
	}
	return p, nil
}

// probabilityLogits returns logits whose softmax is (1-p, p).
func probabilityLogits(p float64) [2]float64 {
	p = math.Min(1-probabilityFloor, math.Max(probabilityFloor, p))
	return [2]float64{0, math.Log(p / (1 - p))}
}
