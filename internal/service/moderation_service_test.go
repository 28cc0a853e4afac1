package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/yearbook-go-api/internal/dto"
	"github.com/noah-isme/yearbook-go-api/internal/models"
	"github.com/noah-isme/yearbook-go-api/internal/repository"
)

type recordingAudit struct {
	entries []dto.AuditEntryRequest
}

func (r *recordingAudit) Record(_ context.Context, entry dto.AuditEntryRequest) (dto.AuditEntryResponse, error) {
	r.entries = append(r.entries, entry)
	return dto.AuditEntryResponse{}, nil
}

type recordingNotifier struct {
	events []DecisionEvent
}

func (r *recordingNotifier) Publish(_ context.Context, event DecisionEvent) {
	r.events = append(r.events, event)
}

func setupServiceTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func newModerationFixture(t *testing.T) (ModerationService, repository.ModerationRepository, *recordingAudit, *recordingNotifier) {
	t.Helper()
	db := setupServiceTestDB(t, &models.ModerationItem{})
	repo := repository.NewModerationRepository(db)
	audit := &recordingAudit{}
	notifier := &recordingNotifier{}
	svc := NewModerationService(repo, audit, notifier, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	return svc, repo, audit, notifier
}

func seedPendingItem(t *testing.T, repo repository.ModerationRepository, yearID, title string) models.ModerationItem {
	t.Helper()
	item := models.ModerationItem{
		YearID:        yearID,
		Type:          models.ModerationTypePhoto,
		Title:         title,
		Description:   "Awaiting review",
		SubmitterID:   "student-3",
		SubmitterName: "Bima Santoso",
		SubmittedAt:   time.Now().UTC(),
		Priority:      models.ModerationPriorityMedium,
		Status:        models.ModerationStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), &item))
	return item
}

func TestModerationServiceApproveWritesAuditAndNotifies(t *testing.T) {
	svc, repo, audit, notifier := newModerationFixture(t)
	item := seedPendingItem(t, repo, "2026", "Prom Night")
	reviewer := Reviewer{ID: "admin-1", Name: "Admin One", IPAddress: "10.0.0.1", UserAgent: "cli"}

	updated, err := svc.Approve(context.Background(), "2026", item.ID, reviewer)
	require.NoError(t, err)
	require.Equal(t, models.ModerationStatusApproved, updated.Status)
	require.Equal(t, "Admin One", updated.ReviewedBy)
	require.NotNil(t, updated.ReviewedAt)

	require.Len(t, audit.entries, 1)
	require.Equal(t, "moderation.approve", audit.entries[0].Action)
	require.Equal(t, "moderation_item", audit.entries[0].TargetType)
	require.Equal(t, "admin-1", audit.entries[0].UserID)
	require.Equal(t, "2026", audit.entries[0].SchoolYearID)

	require.Len(t, notifier.events, 1)
	require.Equal(t, "approve", notifier.events[0].Action)
	require.Equal(t, item.ID, notifier.events[0].ItemID)
	require.Equal(t, "student-3", notifier.events[0].SubmitterID)
}

func TestModerationServiceRejectRequiresReason(t *testing.T) {
	svc, repo, audit, _ := newModerationFixture(t)
	item := seedPendingItem(t, repo, "2026", "Group Selfie")
	reviewer := Reviewer{ID: "admin-1"}

	_, err := svc.Reject(context.Background(), "2026", item.ID, reviewer, "   ")
	require.ErrorIs(t, err, ErrRejectionReasonRequired)
	require.Empty(t, audit.entries, "no mutation, no audit entry")

	rejected, err := svc.Reject(context.Background(), "2026", item.ID, reviewer, "Policy violation")
	require.NoError(t, err)
	require.Equal(t, models.ModerationStatusRejected, rejected.Status)
	require.Equal(t, "Policy violation", rejected.RejectionReason)

	require.Len(t, audit.entries, 1)
	require.Equal(t, "moderation.reject", audit.entries[0].Action)
	require.Equal(t, "Policy violation", audit.entries[0].Details["reason"])
}

func TestModerationServiceDecisionIsFinal(t *testing.T) {
	svc, repo, _, _ := newModerationFixture(t)
	item := seedPendingItem(t, repo, "2026", "Science Fair")
	reviewer := Reviewer{ID: "admin-1"}

	_, err := svc.Approve(context.Background(), "2026", item.ID, reviewer)
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), "2026", item.ID, reviewer, "Changed my mind")
	require.ErrorIs(t, err, ErrModerationItemResolved)

	_, err = svc.Approve(context.Background(), "2026", item.ID, reviewer)
	require.ErrorIs(t, err, ErrModerationItemResolved)
}

func TestModerationServiceUnknownItem(t *testing.T) {
	svc, _, _, _ := newModerationFixture(t)

	_, err := svc.Approve(context.Background(), "2026", 999, Reviewer{ID: "admin-1"})
	require.ErrorIs(t, err, ErrModerationItemNotFound)
}

func TestModerationServiceBulkActionMixedOutcomes(t *testing.T) {
	svc, repo, audit, _ := newModerationFixture(t)
	reviewer := Reviewer{ID: "admin-1", Name: "Admin One"}

	pending := seedPendingItem(t, repo, "2026", "Pending A")
	second := seedPendingItem(t, repo, "2026", "Pending B")
	resolved := seedPendingItem(t, repo, "2026", "Already Done")
	_, err := svc.Approve(context.Background(), "2026", resolved.ID, reviewer)
	require.NoError(t, err)
	audit.entries = nil

	result, err := svc.BulkAction(context.Background(), "2026", dto.BulkActionRequest{
		ItemIDs: []uint{pending.ID, second.ID, resolved.ID, 404},
		Action:  "approve",
	}, reviewer)
	require.NoError(t, err)

	require.Len(t, result.Updated, 2)
	require.Equal(t, []uint{404}, result.NotFound)
	require.Equal(t, 4, result.TotalProcessed)
	require.Len(t, audit.entries, 2, "one audit entry per applied decision")
}

func TestModerationServiceBulkActionValidation(t *testing.T) {
	svc, _, _, _ := newModerationFixture(t)
	reviewer := Reviewer{ID: "admin-1"}

	_, err := svc.BulkAction(context.Background(), "2026", dto.BulkActionRequest{
		ItemIDs: []uint{1},
		Action:  "archive",
	}, reviewer)
	require.Error(t, err)

	_, err = svc.BulkAction(context.Background(), "2026", dto.BulkActionRequest{
		ItemIDs: []uint{1},
		Action:  "reject",
	}, reviewer)
	require.ErrorIs(t, err, ErrRejectionReasonRequired)
}

func TestModerationServiceListFilters(t *testing.T) {
	svc, repo, _, _ := newModerationFixture(t)
	seedPendingItem(t, repo, "2026", "Photo One")
	seedPendingItem(t, repo, "2025", "Photo Two")

	items, err := svc.List(context.Background(), dto.ModerationListRequest{YearID: "2026"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Photo One", items[0].Title)

	_, err = svc.List(context.Background(), dto.ModerationListRequest{})
	require.Error(t, err, "year id is mandatory")
}
