package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/foodent/foodscan/pkg/types"
)

// Config holds credentials and routing for the Vertex AI backend. Exactly
// one of APIKey or CredentialsFile must be set.
type Config struct {
	ProjectID       string
	Location        string
	APIKey          string
	CredentialsFile string
}

// Client implements the VisionClient interface against Google's Gemini
// models on Vertex AI.
type Client struct {
	config Config

	mu     sync.Mutex
	client *genai.Client
}

// NewClient validates the configuration and returns a client. A missing
// credential fails here, before any network call is attempted.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" && config.CredentialsFile == "" {
		return nil, types.ErrMissingCredential
	}
	if config.ProjectID == "" {
		return nil, fmt.Errorf("gemini: project ID is required")
	}
	if config.Location == "" {
		config.Location = "us-central1"
	}
	return &Client{config: config}, nil
}

func (c *Client) connect(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}

	opts := []option.ClientOption{}
	if c.config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.config.CredentialsFile))
	} else {
		opts = append(opts, option.WithAPIKey(c.config.APIKey))
	}

	client, err := genai.NewClient(ctx, c.config.ProjectID, c.config.Location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	c.client = client
	return client, nil
}

// Query sends the prompt and JPEG image bytes to the model and returns the
// raw text of the first candidate.
func (c *Client) Query(ctx context.Context, model, prompt string, imageData []byte) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	gm := client.GenerativeModel(model)
	img := genai.ImageData("image/jpeg", imageData)

	resp, err := gm.GenerateContent(ctx, genai.Text(prompt), img)
	if err != nil {
		return "", fmt.Errorf("failed to call model: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response generated")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in response")
	}
	return sb.String(), nil
}
