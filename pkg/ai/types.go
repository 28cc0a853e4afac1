package ai

import "context"

// AnalysisInput contains the submitted content to assess.
type AnalysisInput struct {
	Content     string
	ContentType string
}

// AnalysisResult is the structured assessment returned by the model.
type AnalysisResult struct {
	Flags           []string               `json:"flags"`
	Recommendations []string               `json:"recommendations"`
	Confidence      float64                `json:"confidence"`
	Raw             map[string]interface{} `json:"raw,omitempty"`
}

// Analyzer describes an AI model capable of assessing submitted content for
// moderation risk.
type Analyzer interface {
	Analyze(ctx context.Context, input AnalysisInput) (AnalysisResult, error)
}
