package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swarmfeedback/internal/auth"
	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/model"
)

func TestSubmissionService_CreateAndListMine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.addUser("u", model.RoleSubmitter)

	created, err := f.submissionSvc.Create(ctx, u, CreateSubmissionInput{Title: "Demo", Description: "x"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, u.UserID, created.OwnerUserID)

	mine, err := f.submissionSvc.ListMine(ctx, u)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
	assert.Equal(t, "Demo", mine[0].Title)

	assert.Contains(t, f.activity.actions(u.UserID), model.ActionCreateSubmission)
}

func TestSubmissionService_CreateValidation(t *testing.T) {
	f := newFixture()
	u := f.addUser("u", model.RoleSubmitter)

	_, err := f.submissionSvc.Create(context.Background(), u, CreateSubmissionInput{Title: "  ", Description: "x"})
	assert.ErrorIs(t, err, apperrors.ErrFieldsRequired)

	_, err = f.submissionSvc.Create(context.Background(), auth.Anonymous(), CreateSubmissionInput{Title: "t", Description: "d"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSubmissionService_NonAdminListingOnlyApprovedOrOwn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	alice := f.addUser("alice", model.RoleSubmitter)
	bob := f.addUser("bob", model.RoleSubmitter)

	aliceOwn, err := f.submissionSvc.Create(ctx, alice, CreateSubmissionInput{Title: "a", Description: "a"})
	require.NoError(t, err)
	bobPending, err := f.submissionSvc.Create(ctx, bob, CreateSubmissionInput{Title: "b1", Description: "b"})
	require.NoError(t, err)
	bobApproved, err := f.submissionSvc.Create(ctx, bob, CreateSubmissionInput{Title: "b2", Description: "b"})
	require.NoError(t, err)
	bobRejected, err := f.submissionSvc.Create(ctx, bob, CreateSubmissionInput{Title: "b3", Description: "b"})
	require.NoError(t, err)
	_, err = f.submissionSvc.UpdateStatus(ctx, admin, bobApproved.ID, "APPROVED")
	require.NoError(t, err)
	_, err = f.submissionSvc.UpdateStatus(ctx, admin, bobRejected.ID, "REJECTED")
	require.NoError(t, err)

	visible, err := f.submissionSvc.List(ctx, alice)
	require.NoError(t, err)
	ids := []string{}
	for _, s := range visible {
		assert.True(t, s.Status == model.StatusApproved || s.OwnerUserID == alice.UserID)
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{aliceOwn.ID, bobApproved.ID}, ids)

	everything, err := f.submissionSvc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, everything, 4)

	_, err = f.submissionSvc.Get(ctx, alice, bobPending.ID)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
	got, err := f.submissionSvc.Get(ctx, bob, bobPending.ID)
	require.NoError(t, err)
	assert.Equal(t, bobPending.ID, got.ID)
	_, err = f.submissionSvc.Get(ctx, admin, bobRejected.ID)
	assert.NoError(t, err)
}

func TestSubmissionService_UpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	u := f.addUser("u", model.RoleSubmitter)
	sub, err := f.submissionSvc.Create(ctx, u, CreateSubmissionInput{Title: "t", Description: "d"})
	require.NoError(t, err)

	for _, bad := range []string{"OPEN", "DONE", ""} {
		_, err := f.submissionSvc.UpdateStatus(ctx, admin, sub.ID, bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus, bad)
	}

	_, err = f.submissionSvc.UpdateStatus(ctx, u, sub.ID, "APPROVED")
	assert.ErrorIs(t, err, apperrors.ErrAdminRequired)
	_, err = f.submissionSvc.UpdateStatus(ctx, auth.Anonymous(), sub.ID, "APPROVED")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = f.submissionSvc.UpdateStatus(ctx, admin, "missing", "APPROVED")
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)

	// No terminal state: APPROVED and REJECTED can be swapped freely.
	for _, next := range []model.Status{model.StatusApproved, model.StatusRejected, model.StatusApproved, model.StatusPending} {
		updated, err := f.submissionSvc.UpdateStatus(ctx, admin, sub.ID, string(next))
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
		assert.NotNil(t, updated.UpdatedAt)
	}
	assert.Contains(t, f.activity.actions(admin.UserID), model.ActionUpdateSubmissionStatus)
}
