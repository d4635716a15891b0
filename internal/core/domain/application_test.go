package domain_test

import (
	"testing"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestApplication_Submit(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.ApplicationStatus
		wantErr    bool
		wantStatus domain.ApplicationStatus
	}{
		{
			name:       "draft submits into review",
			status:     domain.StatusDraft,
			wantErr:    false,
			wantStatus: domain.StatusUnderReview,
		},
		{
			name:       "under review cannot be resubmitted",
			status:     domain.StatusUnderReview,
			wantErr:    true,
			wantStatus: domain.StatusUnderReview,
		},
		{
			name:       "approved cannot be resubmitted",
			status:     domain.StatusApproved,
			wantErr:    true,
			wantStatus: domain.StatusApproved,
		},
		{
			name:       "rejected cannot be resubmitted",
			status:     domain.StatusRejected,
			wantErr:    true,
			wantStatus: domain.StatusRejected,
		},
		{
			name:       "cancelled cannot be resubmitted",
			status:     domain.StatusCancelled,
			wantErr:    true,
			wantStatus: domain.StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := domain.Application{Status: tt.status}
			err := app.Submit()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, app.Status)
		})
	}
}

func TestApplication_Cancel(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.ApplicationStatus
		wantErr    bool
		wantStatus domain.ApplicationStatus
	}{
		{
			name:       "draft cancels",
			status:     domain.StatusDraft,
			wantErr:    false,
			wantStatus: domain.StatusCancelled,
		},
		{
			name:       "under review cancels",
			status:     domain.StatusUnderReview,
			wantErr:    false,
			wantStatus: domain.StatusCancelled,
		},
		{
			name:       "approved cannot be cancelled",
			status:     domain.StatusApproved,
			wantErr:    true,
			wantStatus: domain.StatusApproved,
		},
		{
			name:       "rejected cannot be cancelled",
			status:     domain.StatusRejected,
			wantErr:    true,
			wantStatus: domain.StatusRejected,
		},
		{
			name:       "cancelled cannot be cancelled again",
			status:     domain.StatusCancelled,
			wantErr:    true,
			wantStatus: domain.StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := domain.Application{Status: tt.status}
			err := app.Cancel()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, app.Status)
		})
	}
}

func TestApplication_CanBeEditedAndDeleted(t *testing.T) {
	tests := []struct {
		status     domain.ApplicationStatus
		canEdit    bool
		canDelete  bool
		isTerminal bool
	}{
		{domain.StatusDraft, true, true, false},
		{domain.StatusUnderReview, true, false, false},
		{domain.StatusApproved, false, false, true},
		{domain.StatusRejected, false, false, true},
		{domain.StatusCancelled, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			app := domain.Application{Status: tt.status}
			assert.Equal(t, tt.canEdit, app.CanBeEdited())
			assert.Equal(t, tt.canDelete, app.CanBeDeleted())
			assert.Equal(t, tt.isTerminal, app.IsTerminal())
		})
	}
}

func TestApproval_CanBeActedOnBy(t *testing.T) {
	pending := domain.Approval{ApproverID: "user-1", Status: domain.ApprovalPending}
	decided := domain.Approval{ApproverID: "user-1", Status: domain.ApprovalApproved}

	assert.True(t, pending.CanBeActedOnBy("user-1"))
	assert.False(t, pending.CanBeActedOnBy("user-2"), "only the designated approver may act")
	assert.False(t, decided.CanBeActedOnBy("user-1"), "decided rows refuse further actions")
}
