package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "yearbook",
		Subsystem: "ai",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of AI content analysis requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yearbook",
		Subsystem: "ai",
		Name:      "analysis_failures_total",
		Help:      "Number of AI content analysis failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI analyzer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIAnalyzer implements Analyzer against the OpenAI chat completion API.
type OpenAIAnalyzer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIAnalyzer builds a new analyzer using the provided configuration.
func NewOpenAIAnalyzer(cfg OpenAIConfig) (*OpenAIAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}

	tracer := otel.Tracer("github.com/noah-isme/yearbook-go-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIAnalyzer{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Analyze sends the content to OpenAI and parses the structured assessment.
func (a *OpenAIAnalyzer) Analyze(parent context.Context, input AnalysisInput) (AnalysisResult, error) {
	ctx, span := a.tracer.Start(parent, "openai.analyze", trace.WithAttributes(
		attribute.String("model", a.cfg.Model),
		attribute.String("content_type", input.ContentType),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: analyzerSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildAnalysisPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	aiDuration.WithLabelValues(a.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		aiFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AnalysisResult{}, fmt.Errorf("openai analyze: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AnalysisResult{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := parseAnalysisResponse(content)
	if err != nil {
		aiFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return AnalysisResult{}, err
	}

	result.Raw = map[string]interface{}{
		"usage": resp.Usage,
	}

	return result, nil
}

func analyzerSystemPrompt() string {
	return "You are a content moderator for a school yearbook. " +
		"Respond with a JSON object containing flags (array of short strings naming policy concerns), " +
		"recommendations (array of short strings), and confidence (0-1). " +
		"Flag bullying, personal data exposure, and content unsuitable for a school publication."
}

func buildAnalysisPrompt(input AnalysisInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Content Type\n")
	builder.WriteString(input.ContentType)
	builder.WriteString("\n\n## Submitted Content\n")
	builder.WriteString(input.Content)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseAnalysisResponse(content string) (AnalysisResult, error) {
	type payload struct {
		Flags           []string `json:"flags"`
		Recommendations []string `json:"recommendations"`
		Confidence      float64  `json:"confidence"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return AnalysisResult{}, fmt.Errorf("parse analysis json: %w", err)
	}

	if data.Confidence < 0 {
		data.Confidence = 0
	}
	if data.Confidence > 1 {
		data.Confidence = 1
	}

	return AnalysisResult{
		Flags:           data.Flags,
		Recommendations: data.Recommendations,
		Confidence:      data.Confidence,
	}, nil
}
