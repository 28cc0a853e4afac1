package service

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/pkg/ai"
)

// Fixed penalties applied by the heuristic analyzer. The score is a pure
// function of the content: identical input always yields identical output.
const (
	penaltyInappropriate = 30
	penaltyTooShort      = 10
	penaltyNoContact     = 5
	penaltyMarkup        = 20

	riskConfidence = 0.85

	minContentLength = 10
)

// RiskService scores submitted content. The result is advisory only and
// never changes an item's moderation status.
type RiskService interface {
	Analyze(ctx context.Context, content, contentType string) dto.AnalysisResponse
	AnalyzeWithAI(ctx context.Context, content, contentType string) dto.AnalysisResponse
}

type riskService struct {
	analyzer  ai.Analyzer
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewRiskService constructs the risk analyzer. analyzer may be nil; AI
// enrichment is then skipped and the heuristic result stands alone.
func NewRiskService(analyzer ai.Analyzer, logger zerolog.Logger) RiskService {
	return &riskService{
		analyzer:  analyzer,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "risk_service").Logger(),
	}
}

func (s *riskService) Analyze(_ context.Context, content, contentType string) dto.AnalysisResponse {
	score := 0.0
	flags := []string{}

	if strings.Contains(strings.ToLower(content), "inappropriate") {
		score += penaltyInappropriate
		flags = append(flags, "Contains inappropriate language")
	}

	if len(content) < minContentLength {
		score += penaltyTooShort
		flags = append(flags, "Content too short")
	}

	if contentType == models.ModerationTypeProfile && !strings.Contains(content, "@") {
		score += penaltyNoContact
		flags = append(flags, "Missing contact information")
	}

	if s.sanitizer.Sanitize(content) != content {
		score += penaltyMarkup
		flags = append(flags, "Contains markup")
	}

	return dto.AnalysisResponse{
		RiskScore:       score,
		Flags:           flags,
		Confidence:      riskConfidence,
		Recommendations: recommendationsForScore(score),
	}
}

// AnalyzeWithAI runs the heuristic and, when an AI analyzer is configured,
// merges its flags and recommendations into the result. AI failure falls back
// to the heuristic silently.
func (s *riskService) AnalyzeWithAI(ctx context.Context, content, contentType string) dto.AnalysisResponse {
	result := s.Analyze(ctx, content, contentType)

	if s.analyzer == nil {
		return result
	}

	assessment, err := s.analyzer.Analyze(ctx, ai.AnalysisInput{
		Content:     content,
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("ai content analysis unavailable, using heuristic result")
		return result
	}

	result.Flags = mergeUnique(result.Flags, assessment.Flags)
	result.Recommendations = mergeUnique(result.Recommendations, assessment.Recommendations)
	if assessment.Confidence > result.Confidence {
		result.Confidence = assessment.Confidence
	}

	return result
}

func recommendationsForScore(score float64) []string {
	switch {
	case score > 70:
		return []string{"Requires manual review", "Consider rejection"}
	case score > 40:
		return []string{"Flag for review"}
	default:
		return []string{"Safe for auto-approval"}
	}
}

func mergeUnique(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, value := range base {
		seen[value] = struct{}{}
	}
	for _, value := range extra {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		base = append(base, trimmed)
	}
	return base
}
