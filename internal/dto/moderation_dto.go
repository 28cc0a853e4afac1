package dto

import (
	"time"

	"github.com/noah-isme/yearbook-go-api/internal/models"
)

// ModerationListRequest defines filters for listing queue items.
type ModerationListRequest struct {
	YearID   string `validate:"required"`
	Type     string
	Status   string
	Priority string
	Query    string
}

// ModerationItemResponse serializes a queue item.
type ModerationItemResponse struct {
	ID              uint                   `json:"id"`
	YearID          string                 `json:"year_id"`
	Type            string                 `json:"type"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	SubmittedBy     SubmitterResponse      `json:"submitted_by"`
	SubmittedAt     time.Time              `json:"submitted_at"`
	Priority        string                 `json:"priority"`
	Status          string                 `json:"status"`
	Metadata        map[string]interface{} `json:"metadata"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time             `json:"reviewed_at,omitempty"`
	ReviewedBy      string                 `json:"reviewed_by,omitempty"`
}

// SubmitterResponse identifies who submitted the content.
type SubmitterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// BulkActionRequest applies one decision to a set of queue items.
type BulkActionRequest struct {
	ItemIDs []uint `json:"itemIds" validate:"required,min=1,dive,gt=0"`
	Action  string `json:"action" validate:"required,oneof=approve reject"`
	Reason  string `json:"reason"`
}

// BulkActionResponse reports the per-item outcome of a bulk decision.
type BulkActionResponse struct {
	Updated        []ModerationItemResponse `json:"updated"`
	NotFound       []uint                   `json:"notFound"`
	TotalProcessed int                      `json:"totalProcessed"`
}

// AnalyzeRequest asks for a risk assessment of submitted content.
type AnalyzeRequest struct {
	ItemID  uint   `json:"itemId"`
	Content string `json:"content" validate:"required"`
	Type    string `json:"type" validate:"required"`
}

// AnalysisResponse is the advisory risk assessment. It never changes item
// status by itself.
type AnalysisResponse struct {
	RiskScore       float64  `json:"riskScore"`
	Flags           []string `json:"flags"`
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
}

// NewModerationItemResponse converts a model into a DTO.
func NewModerationItemResponse(item models.ModerationItem) ModerationItemResponse {
	metadata := map[string]interface{}{}
	for key, value := range item.Metadata {
		metadata[key] = value
	}

	return ModerationItemResponse{
		ID:          item.ID,
		YearID:      item.YearID,
		Type:        item.Type,
		Title:       item.Title,
		Description: item.Description,
		SubmittedBy: SubmitterResponse{
			ID:    item.SubmitterID,
			Name:  item.SubmitterName,
			Email: item.SubmitterEmail,
		},
		SubmittedAt:     item.SubmittedAt,
		Priority:        item.Priority,
		Status:          item.Status,
		Metadata:        metadata,
		RejectionReason: item.RejectionReason,
		ReviewedAt:      item.ReviewedAt,
		ReviewedBy:      item.ReviewedBy,
	}
}

// NewModerationItemResponseSlice converts a batch of models.
func NewModerationItemResponseSlice(items []models.ModerationItem) []ModerationItemResponse {
	responses := make([]ModerationItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewModerationItemResponse(item))
	}
	return responses
}
