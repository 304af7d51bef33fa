package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bosala-platform/bosala-api/model"
	"github.com/bosala-platform/bosala-api/services/inference"
	"github.com/bosala-platform/bosala-api/utils"
	"github.com/bosala-platform/bosala-api/utils/cache"
)

// maxRankCandidates caps how many institutions are sent to the model in a
// single request. The batch goes out as one request, never fanned out.
const maxRankCandidates = 30

// rankCacheTTL bounds how long an identical rank query reuses a prior
// model response.
const rankCacheTTL = time.Hour

// ErrAdvisorUnavailable means the inference credential is not configured;
// callers degrade to the scored shortlist.
var ErrAdvisorUnavailable = errors.New("advisor: inference not configured")

// RankedUniversity is one entry of the model's ranked output.
type RankedUniversity struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	City               string   `json:"city"`
	Type               string   `json:"type"`
	WhyGoodFit         string   `json:"why_good_fit"`
	LikelyRequirements []string `json:"likely_requirements"`
	Links              []string `json:"links"`
}

// RankResult is the advisor's structured answer. When the model response
// is not valid JSON, Ranked is empty and Raw carries the original text so
// the caller can still show an explicit "unranked" fallback.
type RankResult struct {
	RequestID string             `json:"request_id"`
	Ranked    []RankedUniversity `json:"ranked"`
	Notes     string             `json:"notes"`
	Raw       string             `json:"raw,omitempty"`
}

// rankCandidate is the compact institution record serialized for the model.
type rankCandidate struct {
	ID      string            `json:"id"`
	NameAr  string            `json:"name_ar"`
	NameEn  string            `json:"name_en"`
	Country string            `json:"country"`
	City    string            `json:"city"`
	Type    string            `json:"type"`
	Links   map[string]string `json:"links,omitempty"`
}

// rankRequest is the structured payload sent as the user prompt.
type rankRequest struct {
	RequestID      string               `json:"request_id"`
	StudentProfile model.StudentProfile `json:"student_profile"`
	Universities   []rankCandidate      `json:"universities"`
}

const rankSystemPrompt = `You are an admissions advisor for students choosing a university in the Gulf region. Given a student profile and a list of candidate universities, rank the candidates from best to worst fit. Respond with a JSON object of the shape {"ranked": [{"id", "name", "city", "type", "why_good_fit", "likely_requirements": [], "links": []}], "notes": ""}. Only rank universities from the provided list; never invent entries.`

// AdvisorService forwards a filtered shortlist to the external ranking
// collaborator. The collaborator is optional and untrusted.
type AdvisorService struct {
	client *inference.Client
	cache  *cache.RedisCache // optional response cache, may be nil
}

// NewAdvisorService creates the advisor. client may be nil when no
// credential is configured; Rank then reports ErrAdvisorUnavailable.
func NewAdvisorService(client *inference.Client, redisCache *cache.RedisCache) *AdvisorService {
	return &AdvisorService{client: client, cache: redisCache}
}

// Available reports whether the ranking collaborator is configured.
func (s *AdvisorService) Available() bool {
	return s.client != nil
}

// Rank sends up to maxRankCandidates shortlist entries plus the student
// profile to the model and parses its ranked answer. The context bounds
// the whole call; there is no retry.
func (s *AdvisorService) Rank(ctx context.Context, profile model.StudentProfile, entries []ShortlistEntry) (*RankResult, error) {
	if !s.Available() {
		return nil, ErrAdvisorUnavailable
	}

	if len(entries) > maxRankCandidates {
		entries = entries[:maxRankCandidates]
	}

	req := rankRequest{
		RequestID:      uuid.NewString(),
		StudentProfile: profile,
		Universities:   make([]rankCandidate, 0, len(entries)),
	}
	for _, e := range entries {
		req.Universities = append(req.Universities, rankCandidate{
			ID:      e.Institution.ID,
			NameAr:  e.Institution.NameAr,
			NameEn:  e.Institution.NameEn,
			Country: e.Institution.Country,
			City:    e.Institution.City,
			Type:    e.Institution.Type,
			Links:   e.Institution.Links(),
		})
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("advisor: marshal request: %w", err)
	}

	cacheKey := s.rankCacheKey(profile, entries)
	if cached := s.cachedResult(ctx, cacheKey); cached != nil {
		cached.RequestID = req.RequestID
		return cached, nil
	}

	raw, err := s.client.JSONCompletion(ctx, rankSystemPrompt, string(payload),
		inference.WithTemperature(0.2),
		inference.WithMaxTokens(2048))
	if err != nil {
		return nil, fmt.Errorf("advisor: inference call: %w", err)
	}

	result := ParseRankResponse(raw)
	result.RequestID = req.RequestID

	if len(result.Ranked) > 0 {
		s.storeResult(ctx, cacheKey, result)
	}
	return result, nil
}

// ParseRankResponse parses untrusted model output into a RankResult. A
// response that is not valid JSON, or that violates the documented shape,
// falls back to {ranked: [], notes: explanation, raw: original}.
func ParseRankResponse(raw string) *RankResult {
	var result RankResult
	if err := utils.ExtractJSONTo(raw, &result); err != nil {
		log.Printf("[Advisor] model response was not valid JSON: %v", err)
		return &RankResult{
			Ranked: []RankedUniversity{},
			Notes:  "model response was not valid JSON; returning unranked results",
			Raw:    raw,
		}
	}
	// Valid JSON that carries neither a ranked list nor notes is some other
	// object entirely; treat it the same as non-JSON and keep the original
	// text for display.
	if result.Ranked == nil && result.Notes == "" {
		log.Println("[Advisor] model response did not match the expected shape")
		return &RankResult{
			Ranked: []RankedUniversity{},
			Notes:  "model response did not match the expected shape; returning unranked results",
			Raw:    raw,
		}
	}
	if result.Ranked == nil {
		result.Ranked = []RankedUniversity{}
	}
	return &result
}

// rankCacheKey hashes the query identity: profile plus candidate ids in
// order.
func (s *AdvisorService) rankCacheKey(profile model.StudentProfile, entries []ShortlistEntry) string {
	var b strings.Builder
	data, _ := json.Marshal(profile)
	b.Write(data)
	for _, e := range entries {
		b.WriteByte('|')
		b.WriteString(e.Institution.ID)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return "advisor:rank:" + hex.EncodeToString(sum[:])
}

func (s *AdvisorService) cachedResult(ctx context.Context, key string) *RankResult {
	if s.cache == nil {
		return nil
	}
	var result RankResult
	if err := s.cache.GetJSON(ctx, key, &result); err != nil {
		return nil
	}
	return &result
}

func (s *AdvisorService) storeResult(ctx context.Context, key string, result *RankResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, result, rankCacheTTL); err != nil {
		log.Printf("[Advisor] failed to cache rank result: %v", err)
	}
}
