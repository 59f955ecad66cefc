package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/foodent/foodscan/pkg/types"
)

// fakeClient scripts VisionClient responses for tests.
type fakeClient struct {
	calls     int
	failUntil int
	response  string
	block     bool
}

func (f *fakeClient) Query(ctx context.Context, model, prompt string, imageData []byte) (string, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.calls <= f.failUntil {
		return "", fmt.Errorf("connection reset")
	}
	return f.response, nil
}

func TestNewNilClient(t *testing.T) {
	_, err := New(nil, DefaultConfig(), nil)
	if err == nil {
		t.Fatal("expected error for nil client")
	}
	if !errors.Is(err, types.ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}

func TestQuerySuccess(t *testing.T) {
	fake := &fakeClient{response: "A bowl of salad."}
	q, err := New(fake, DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	text, err := q.Query(context.Background(), []byte("img"), "what is this?")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if text != "A bowl of salad." {
		t.Errorf("unexpected response: %q", text)
	}
	if fake.calls != 1 {
		t.Errorf("expected 1 call, got %d", fake.calls)
	}
}

func TestQueryRetriesOnceOnTransientFailure(t *testing.T) {
	fake := &fakeClient{failUntil: 1, response: "Grilled vegetables."}
	q, err := New(fake, DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	text, err := q.Query(context.Background(), []byte("img"), "describe")
	if err != nil {
		t.Fatalf("Query should succeed on retry: %v", err)
	}
	if text != "Grilled vegetables." {
		t.Errorf("unexpected response: %q", text)
	}
	if fake.calls != 2 {
		t.Errorf("expected 2 calls, got %d", fake.calls)
	}
}

func TestQueryTerminalAfterRetry(t *testing.T) {
	fake := &fakeClient{failUntil: 10}
	q, err := New(fake, DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = q.Query(context.Background(), []byte("img"), "describe")
	if err == nil {
		t.Fatal("expected terminal failure")
	}
	if !errors.Is(err, types.ErrRemoteService) {
		t.Errorf("expected ErrRemoteService, got %v", err)
	}
	if fake.calls != 2 {
		t.Errorf("expected exactly one retry, got %d calls", fake.calls)
	}
}

func TestQueryNoRetryWhenDisabled(t *testing.T) {
	fake := &fakeClient{failUntil: 10}
	cfg := DefaultConfig()
	cfg.Retry = false
	q, err := New(fake, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = q.Query(context.Background(), []byte("img"), "describe")
	if !errors.Is(err, types.ErrRemoteService) {
		t.Errorf("expected ErrRemoteService, got %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("expected 1 call with retry disabled, got %d", fake.calls)
	}
}

func TestQueryTimeout(t *testing.T) {
	fake := &fakeClient{block: true}
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	q, err := New(fake, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	_, err = q.Query(context.Background(), []byte("img"), "describe")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, types.ErrRemoteService) {
		t.Errorf("expected ErrRemoteService, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestQueryCancellation(t *testing.T) {
	fake := &fakeClient{block: true}
	q, err := New(fake, DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = q.Query(ctx, []byte("img"), "describe")
	if !errors.Is(err, types.ErrRemoteService) {
		t.Errorf("cancellation should surface as ErrRemoteService, got %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Is this vegetarian?")

	if !strings.Contains(prompt, "Is this vegetarian?") {
		t.Error("prompt should contain the user query")
	}
	if !strings.Contains(prompt, "Ingredients identification") {
		t.Error("prompt should contain the fixed instructions")
	}
}
