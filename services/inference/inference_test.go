package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newStubServer(t *testing.T, capture *Request, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := Response{
			Choices: []Choice{{Message: Message{Role: "assistant", Content: content}}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestOptionsOverrideRequestDefaults(t *testing.T) {
	var got Request
	server := newStubServer(t, &got, `{"ok":true}`)
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	content, err := client.SimpleCompletion(context.Background(), "system", "user",
		WithModel("llama3.3-70b-instruct"),
		WithTemperature(0.7),
		WithMaxTokens(512))
	if err != nil {
		t.Fatal(err)
	}
	if content != `{"ok":true}` {
		t.Errorf("content = %q", content)
	}

	if got.Model != "llama3.3-70b-instruct" {
		t.Errorf("model = %q, default not overridden", got.Model)
	}
	if got.Temperature != 0.7 {
		t.Errorf("temperature = %v", got.Temperature)
	}
	if got.MaxTokens != 512 {
		t.Errorf("max_tokens = %d", got.MaxTokens)
	}
}

func TestJSONCompletionRequestsJSONMode(t *testing.T) {
	var got Request
	server := newStubServer(t, &got, `{}`)
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	if _, err := client.JSONCompletion(context.Background(), "system", "user"); err != nil {
		t.Fatal(err)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", got.ResponseFormat)
	}
	if got.Model != DefaultModel {
		t.Errorf("model = %q, want default", got.Model)
	}
}

func TestExtractContent(t *testing.T) {
	resp := &Response{Choices: []Choice{{Message: Message{Content: "hello"}}}}
	if got := resp.ExtractContent(); got != "hello" {
		t.Errorf("got %q", got)
	}

	empty := &Response{}
	if got := empty.ExtractContent(); got != "" {
		t.Errorf("empty response content = %q", got)
	}
}
