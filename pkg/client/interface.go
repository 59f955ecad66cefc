package client

import "context"

// VisionClient submits a prompt plus encoded image bytes to a hosted vision
// model and returns its raw text response.
type VisionClient interface {
	Query(ctx context.Context, model, prompt string, imageData []byte) (string, error)
}
