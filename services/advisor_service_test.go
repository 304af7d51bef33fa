package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bosala-platform/bosala-api/model"
)

func TestParseRankResponseValidJSON(t *testing.T) {
	raw := `{"ranked":[{"id":"qu-1","name":"Doha University","city":"Doha","type":"Public","why_good_fit":"strong CS program","likely_requirements":["IELTS 6.0"],"links":["https://qu.example"]}],"notes":"two candidates considered"}`

	result := ParseRankResponse(raw)
	if len(result.Ranked) != 1 {
		t.Fatalf("ranked = %+v", result.Ranked)
	}
	if result.Ranked[0].ID != "qu-1" || result.Ranked[0].WhyGoodFit != "strong CS program" {
		t.Errorf("entry = %+v", result.Ranked[0])
	}
	if result.Raw != "" {
		t.Error("valid responses must not carry the raw fallback")
	}
}

func TestParseRankResponseMarkdownWrapped(t *testing.T) {
	raw := "```json\n{\"ranked\":[{\"id\":\"du-1\",\"name\":\"Dubai Institute\"}],\"notes\":\"\"}\n```"

	result := ParseRankResponse(raw)
	if len(result.Ranked) != 1 || result.Ranked[0].ID != "du-1" {
		t.Fatalf("fenced JSON not parsed: %+v", result)
	}
}

func TestParseRankResponseNonJSONFallback(t *testing.T) {
	raw := "I'm sorry, I cannot rank these universities right now."

	result := ParseRankResponse(raw)
	if result.Ranked == nil || len(result.Ranked) != 0 {
		t.Fatalf("ranked = %v, want empty", result.Ranked)
	}
	if result.Raw != raw {
		t.Error("fallback must carry the original text")
	}
	if result.Notes == "" {
		t.Error("fallback must explain itself")
	}
}

func TestParseRankResponseWrongShapeFallback(t *testing.T) {
	// Valid JSON, but not the ranked/notes object the prompt asks for.
	raw := `{"answer":"Qatar University is best","confidence":0.9}`

	result := ParseRankResponse(raw)
	if result.Ranked == nil || len(result.Ranked) != 0 {
		t.Fatalf("ranked = %v, want empty", result.Ranked)
	}
	if result.Raw != raw {
		t.Errorf("raw = %q, want the original text", result.Raw)
	}
	if result.Notes == "" {
		t.Error("fallback must explain itself")
	}
}

func TestParseRankResponseNullRanked(t *testing.T) {
	result := ParseRankResponse(`{"ranked":null,"notes":"nothing matched"}`)
	if result.Ranked == nil || len(result.Ranked) != 0 {
		t.Fatalf("ranked must be an empty list, got %v", result.Ranked)
	}
}

func TestRankWithoutCredential(t *testing.T) {
	s := NewAdvisorService(nil, nil)
	if s.Available() {
		t.Fatal("advisor without a client must report unavailable")
	}

	_, err := s.Rank(context.Background(), model.StudentProfile{}, nil)
	if !errors.Is(err, ErrAdvisorUnavailable) {
		t.Fatalf("err = %v, want ErrAdvisorUnavailable", err)
	}
}
