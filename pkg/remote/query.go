package remote

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/foodent/foodscan/pkg/client"
	"github.com/foodent/foodscan/pkg/types"
)

// PromptTemplate is the fixed instructional prompt the user query is
// appended to. The response is opaque free text; it is never parsed into a
// structured result and never merged with the catalog pipeline.
const PromptTemplate = `Analyze this food image and respond to the following query:
%s

Please provide detailed information about:
- Ingredients identification
- Nutritional insights
- Preparation methods (if visible)
- Any relevant dietary considerations`

// Config holds remote query settings.
type Config struct {
	// Model is the vision model name on the backing service.
	Model string
	// Timeout is applied when the caller's context carries no deadline.
	Timeout time.Duration
	// Retry enables a single retry with jitter on transient failures.
	Retry bool
}

// DefaultConfig returns the remote query defaults.
func DefaultConfig() Config {
	return Config{
		Model:   "gemini-1.5-flash",
		Timeout: 30 * time.Second,
		Retry:   true,
	}
}

// Querier submits food-image questions to a hosted vision model.
type Querier struct {
	client client.VisionClient
	config Config
	logger *slog.Logger
}

// New creates a Querier. The client must already be configured; a nil client
// is a configuration error surfaced before any network activity.
func New(visionClient client.VisionClient, config Config, logger *slog.Logger) (*Querier, error) {
	if visionClient == nil {
		return nil, fmt.Errorf("%w: no vision client", types.ErrMissingCredential)
	}
	if config.Model == "" {
		config.Model = DefaultConfig().Model
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Querier{
		client: visionClient,
		config: config,
		logger: logger.With("component", "remote-query"),
	}, nil
}

// BuildPrompt combines the fixed template with the user's free-text query.
func BuildPrompt(userQuery string) string {
	return fmt.Sprintf(PromptTemplate, userQuery)
}

// Query sends the normalized image bytes plus the user query and returns the
// model's free-text answer. Transient failures get at most one retry with
// jitter; everything else is terminal and surfaces as ErrRemoteService.
func (q *Querier) Query(ctx context.Context, imageData []byte, userQuery string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.config.Timeout)
		defer cancel()
	}

	prompt := BuildPrompt(userQuery)

	text, err := q.client.Query(ctx, q.config.Model, prompt, imageData)
	if err == nil {
		return text, nil
	}
	if !q.config.Retry || ctx.Err() != nil {
		return "", fmt.Errorf("%w: %v", types.ErrRemoteService, err)
	}

	delay := time.Duration(100+rand.Intn(300)) * time.Millisecond
	q.logger.Warn("vision query failed, retrying once", "error", err, "delay", delay)
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", types.ErrRemoteService, ctx.Err())
	case <-time.After(delay):
	}

	text, err = q.client.Query(ctx, q.config.Model, prompt, imageData)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrRemoteService, err)
	}
	return text, nil
}
