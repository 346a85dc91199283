package openaisdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/koscakluka/ema-thinking/core/llms"
)

func TestPromptUsesChatCompletionsEndpoint(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","created":0,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"hi"}}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`)
	}))
	defer server.Close()

	client, err := NewClient("secret", WithBaseURL(server.URL), WithDefaultModel("m"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := client.Prompt(context.Background(), "question", llms.WithSystemPrompt("sys"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Content != "hi" {
		t.Fatalf("expected content hi, got %q", response.Content)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["model"] != "m" {
		t.Fatalf("expected default model, got %v", gotBody["model"])
	}
	if messages, ok := gotBody["messages"].([]any); !ok || len(messages) != 2 {
		t.Fatalf("expected system and user message, got %v", gotBody["messages"])
	}
}

func TestPromptWrapsAPIErrorsAsTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client, err := NewClient("secret", WithBaseURL(server.URL), WithDefaultModel("m"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Prompt(context.Background(), "question")
	if !llms.IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestPromptWithStreamYieldsContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, content := range []string{"Hel", "lo."} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"created\":0,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", content)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client, err := NewClient("secret", WithBaseURL(server.URL), WithDefaultModel("m"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var text strings.Builder
	for chunk, err := range client.PromptWithStream(context.Background(), "q").Chunks(context.Background()) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if content, ok := chunk.(llms.StreamContentChunk); ok {
			text.WriteString(content.Content())
		}
	}
	if text.String() != "Hello." {
		t.Fatalf("expected Hello., got %q", text.String())
	}
}

func TestStreamTimesOutWhenServerStalls(t *testing.T) {
	for _, testCase := range []struct {
		name          string
		headersFirst  bool
		expectedCause string
	}{
		{name: "after headers", headersFirst: true, expectedCause: errReadTimeout.Error()},
		{name: "before headers", headersFirst: false, expectedCause: "timeout"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			release := make(chan struct{})
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if testCase.headersFirst {
					w.Header().Set("Content-Type", "text/event-stream")
					w.WriteHeader(http.StatusOK)
					w.(http.Flusher).Flush()
				}
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			defer server.Close()
			defer close(release)

			client, err := NewClient("secret",
				WithBaseURL(server.URL),
				WithDefaultModel("m"),
				WithReadTimeout(100*time.Millisecond),
			)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			done := make(chan error, 1)
			go func() {
				var lastErr error
				for _, err := range client.PromptWithStream(context.Background(), "q").Chunks(context.Background()) {
					if err != nil {
						lastErr = err
					}
				}
				done <- lastErr
			}()

			select {
			case err := <-done:
				if !llms.IsTransportError(err) {
					t.Fatalf("expected transport error, got %v", err)
				}
				if !strings.Contains(err.Error(), testCase.expectedCause) {
					t.Fatalf("expected %q in error, got %v", testCase.expectedCause, err)
				}
			case <-time.After(2 * time.Second):
				t.Fatalf("expected stalled stream to time out")
			}
		})
	}
}

func TestStreamReadsFirstChoiceOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"created\":0,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"Yes.\"}},{\"index\":1,\"delta\":{\"content\":\"No.\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client, err := NewClient("secret", WithBaseURL(server.URL), WithDefaultModel("m"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var text strings.Builder
	for chunk, err := range client.PromptWithStream(context.Background(), "q").Chunks(context.Background()) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if content, ok := chunk.(llms.StreamContentChunk); ok {
			text.WriteString(content.Content())
		}
	}
	if text.String() != "Yes." {
		t.Fatalf("expected only the first choice, got %q", text.String())
	}
}
