package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swarmfeedback/internal/auth"
	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/model"
)

func ptr[T any](v T) *T { return &v }

func approvedSubmission(t *testing.T, f *fixture, owner, admin auth.Principal) *model.Submission {
	t.Helper()
	ctx := context.Background()
	sub, err := f.submissionSvc.Create(ctx, owner, CreateSubmissionInput{Title: "Demo", Description: "x"})
	require.NoError(t, err)
	sub, err = f.submissionSvc.UpdateStatus(ctx, admin, sub.ID, "APPROVED")
	require.NoError(t, err)
	return sub
}

func TestFeedbackService_RatingBounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	owner := f.addUser("owner", model.RoleSubmitter)
	sub := approvedSubmission(t, f, owner, admin)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.feedbackSvc.Create(ctx, auth.Anonymous(), CreateFeedbackInput{SubmissionID: sub.ID, Rating: rating})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRating, rating)
	}
	for _, rating := range []int{1, 5} {
		_, err := f.feedbackSvc.Create(ctx, auth.Anonymous(), CreateFeedbackInput{SubmissionID: sub.ID, Rating: rating})
		assert.NoError(t, err, rating)
	}

	_, err := f.feedbackSvc.Create(ctx, auth.Anonymous(), CreateFeedbackInput{SubmissionID: "missing", Rating: 3})
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
}

func TestFeedbackService_CreateStatusAndReviewer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	owner := f.addUser("owner", model.RoleSubmitter)
	reviewer := f.addUser("rev", model.RoleReviewer)
	sub := approvedSubmission(t, f, owner, admin)

	anon, err := f.feedbackSvc.Create(ctx, auth.Anonymous(), CreateFeedbackInput{SubmissionID: sub.ID, Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, model.AnonymousReviewer, anon.ReviewerUserID)
	assert.Equal(t, model.StatusPending, anon.Status)

	byReviewer, err := f.feedbackSvc.Create(ctx, reviewer, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, reviewer.UserID, byReviewer.ReviewerUserID)
	assert.Equal(t, model.StatusPending, byReviewer.Status)
	assert.Contains(t, f.activity.actions(reviewer.UserID), model.ActionGiveFeedback)

	rev, err := f.users.FindByID(ctx, reviewer.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, rev.ReviewsGiven)

	byAdmin, err := f.feedbackSvc.Create(ctx, admin, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, byAdmin.Status)
}

func TestFeedbackService_AdminAutoApproveCanBeDisabled(t *testing.T) {
	f := newFixture()
	f.feedbackSvc = NewFeedbackService(f.store, f.userSvc, f.activitySvc, nil, FeedbackOptions{AutoApproveAdmin: false})
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	owner := f.addUser("owner", model.RoleSubmitter)
	sub := approvedSubmission(t, f, owner, admin)

	fb, err := f.feedbackSvc.Create(ctx, admin, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, fb.Status)
}

func TestFeedbackService_Visibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	owner := f.addUser("owner", model.RoleSubmitter)
	reviewer := f.addUser("rev", model.RoleReviewer)
	stranger := f.addUser("stranger", model.RoleSubmitter)
	sub := approvedSubmission(t, f, owner, admin)

	pending, err := f.feedbackSvc.Create(ctx, reviewer, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 2})
	require.NoError(t, err)
	approved, err := f.feedbackSvc.Create(ctx, reviewer, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 4})
	require.NoError(t, err)
	_, err = f.feedbackSvc.UpdateStatus(ctx, admin, approved.ID, "APPROVED", "")
	require.NoError(t, err)

	list, err := f.feedbackSvc.List(ctx, stranger)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, approved.ID, list[0].ID)

	list, err = f.feedbackSvc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	forStranger, err := f.feedbackSvc.ListForSubmission(ctx, stranger, sub.ID)
	require.NoError(t, err)
	assert.Len(t, forStranger, 1)
	forOwner, err := f.feedbackSvc.ListForSubmission(ctx, owner, sub.ID)
	require.NoError(t, err)
	assert.Len(t, forOwner, 2)

	// Reviewer sees everything they wrote; owner sees only approved feedback received.
	reviewerMine, err := f.feedbackSvc.ListMine(ctx, reviewer)
	require.NoError(t, err)
	assert.Len(t, reviewerMine, 2)
	ownerMine, err := f.feedbackSvc.ListMine(ctx, owner)
	require.NoError(t, err)
	require.Len(t, ownerMine, 1)
	assert.Equal(t, approved.ID, ownerMine[0].ID)
	assert.NotEqual(t, pending.ID, ownerMine[0].ID)

	// Approved feedback on a rejected submission is listed for its owner only.
	hidden, err := f.submissionSvc.Create(ctx, owner, CreateSubmissionInput{Title: "Draft", Description: "x"})
	require.NoError(t, err)
	_, err = f.submissionSvc.UpdateStatus(ctx, admin, hidden.ID, "REJECTED")
	require.NoError(t, err)
	onHidden, err := f.feedbackSvc.Create(ctx, admin, CreateFeedbackInput{SubmissionID: hidden.ID, Comments: "hidden work", Rating: 3})
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, onHidden.Status)

	list, err = f.feedbackSvc.List(ctx, stranger)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, approved.ID, list[0].ID)
	_, err = f.feedbackSvc.ListForSubmission(ctx, stranger, hidden.ID)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)

	list, err = f.feedbackSvc.List(ctx, owner)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, fb := range list {
		ids = append(ids, fb.ID)
	}
	assert.ElementsMatch(t, []string{approved.ID, onHidden.ID}, ids)

	list, err = f.feedbackSvc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestFeedbackService_ListMineDeduplicates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	self := f.addUser("self", model.RoleSubmitter, model.RoleReviewer)
	sub := approvedSubmission(t, f, self, admin)

	fb, err := f.feedbackSvc.Create(ctx, self, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 3})
	require.NoError(t, err)
	_, err = f.feedbackSvc.UpdateStatus(ctx, admin, fb.ID, "APPROVED", "")
	require.NoError(t, err)

	mine, err := f.feedbackSvc.ListMine(ctx, self)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestFeedbackService_AdminUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	owner := f.addUser("owner", model.RoleSubmitter)
	reviewer := f.addUser("rev", model.RoleReviewer)
	sub := approvedSubmission(t, f, owner, admin)
	fb, err := f.feedbackSvc.Create(ctx, reviewer, CreateFeedbackInput{SubmissionID: sub.ID, Comments: "ok", Rating: 3})
	require.NoError(t, err)

	_, err = f.feedbackSvc.Update(ctx, reviewer, fb.ID, UpdateFeedbackInput{Comments: ptr("x")})
	assert.ErrorIs(t, err, apperrors.ErrAdminRequired)
	_, err = f.feedbackSvc.Update(ctx, admin, fb.ID, UpdateFeedbackInput{Rating: ptr(9)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRating)
	_, err = f.feedbackSvc.Update(ctx, admin, fb.ID, UpdateFeedbackInput{Status: ptr("CLOSED")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	_, err = f.feedbackSvc.UpdateStatus(ctx, admin, fb.ID, "open", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	_, err = f.feedbackSvc.Update(ctx, admin, "missing", UpdateFeedbackInput{})
	assert.ErrorIs(t, err, apperrors.ErrFeedbackNotFound)

	updated, err := f.feedbackSvc.Update(ctx, admin, fb.ID, UpdateFeedbackInput{
		Comments: ptr("better"), Rating: ptr(4), Status: ptr("rejected"), RejectionReason: ptr("off topic"),
	})
	require.NoError(t, err)
	assert.Equal(t, "better", updated.Comments)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, model.StatusRejected, updated.Status)
	assert.Equal(t, "off topic", updated.RejectionReason)
	assert.Contains(t, f.activity.actions(admin.UserID), model.ActionUpdateFeedback)

	approved, err := f.feedbackSvc.UpdateStatus(ctx, admin, fb.ID, "APPROVED", "ignored")
	require.NoError(t, err)
	assert.Empty(t, approved.RejectionReason)
	assert.Contains(t, f.activity.actions(admin.UserID), model.ActionUpdateFeedbackStatus)
}

func TestFeedbackService_PointsAwardedOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	owner := f.addUser("owner", model.RoleSubmitter)
	reviewer := f.addUser("rev", model.RoleReviewer)
	sub := approvedSubmission(t, f, owner, admin)
	fb, err := f.feedbackSvc.Create(ctx, reviewer, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 5})
	require.NoError(t, err)

	for _, status := range []string{"APPROVED", "REJECTED", "APPROVED"} {
		_, err := f.feedbackSvc.UpdateStatus(ctx, admin, fb.ID, status, "")
		require.NoError(t, err)
	}

	rev, err := f.users.FindByID(ctx, reviewer.UserID)
	require.NoError(t, err)
	assert.Equal(t, PointsPerApprovedReview, rev.Points)
	assert.Equal(t, model.LevelBronze, rev.Level)
	assert.True(t, rev.HasBadge(BadgeFirstReview))
	assert.False(t, rev.HasBadge(BadgeTopReviewer))
}

func TestFeedbackService_NoPointsWhenWriteFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	owner := f.addUser("owner", model.RoleSubmitter)
	reviewer := f.addUser("rev", model.RoleReviewer)
	sub := approvedSubmission(t, f, owner, admin)

	points := func(p auth.Principal) *model.User {
		u, err := f.users.FindByID(ctx, p.UserID)
		require.NoError(t, err)
		return u
	}

	f.feedback.err = errors.New("db down")
	_, err := f.feedbackSvc.Create(ctx, admin, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 5})
	require.Error(t, err)
	assert.Zero(t, points(admin).Points)
	assert.Empty(t, points(admin).Badges)

	f.feedback.err = nil
	fb, err := f.feedbackSvc.Create(ctx, reviewer, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 4})
	require.NoError(t, err)

	f.feedback.err = errors.New("db down")
	_, err = f.feedbackSvc.UpdateStatus(ctx, admin, fb.ID, "APPROVED", "")
	require.Error(t, err)
	assert.Zero(t, points(reviewer).Points)

	f.feedback.err = nil
	for _, status := range []string{"APPROVED", "REJECTED", "APPROVED"} {
		_, err := f.feedbackSvc.UpdateStatus(ctx, admin, fb.ID, status, "")
		require.NoError(t, err)
	}
	assert.Equal(t, PointsPerApprovedReview, points(reviewer).Points)

	stored, err := f.store.Feedback.FindByID(ctx, fb.ID)
	require.NoError(t, err)
	assert.True(t, stored.PointsAwarded)
}

func TestFeedbackService_Reply(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	owner := f.addUser("owner", model.RoleSubmitter)
	reviewer := f.addUser("rev", model.RoleReviewer)
	sub := approvedSubmission(t, f, owner, admin)
	fb, err := f.feedbackSvc.Create(ctx, reviewer, CreateFeedbackInput{SubmissionID: sub.ID, Rating: 4})
	require.NoError(t, err)

	_, err = f.feedbackSvc.Reply(ctx, reviewer, fb.ID, "thanks")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = f.feedbackSvc.Reply(ctx, owner, fb.ID, "  ")
	assert.ErrorIs(t, err, apperrors.ErrFieldsRequired)

	replied, err := f.feedbackSvc.Reply(ctx, owner, fb.ID, "thanks")
	require.NoError(t, err)
	assert.Equal(t, "thanks", replied.SubmitterReply)
	assert.NotNil(t, replied.SubmitterRepliedAt)
	assert.Contains(t, f.activity.actions(owner.UserID), model.ActionReplyFeedback)
}

// Reviewer rates a submission 5, an admin approves it, and the owner's profile shows 5.0.
func TestScenario_ApprovedRatingShowsOnProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.addUser("admin", model.RoleAdmin)
	u := f.addUser("u", model.RoleSubmitter)
	r := f.addUser("r", model.RoleReviewer)

	sub, err := f.submissionSvc.Create(ctx, u, CreateSubmissionInput{Title: "Demo", Description: "x"})
	require.NoError(t, err)
	fb, err := f.feedbackSvc.Create(ctx, r, CreateFeedbackInput{SubmissionID: sub.ID, Comments: "great", Rating: 5})
	require.NoError(t, err)

	before, err := f.userSvc.GetMe(ctx, u)
	require.NoError(t, err)
	assert.Nil(t, before.Ratings)

	_, err = f.feedbackSvc.UpdateStatus(ctx, admin, fb.ID, "APPROVED", "")
	require.NoError(t, err)

	profile, err := f.userSvc.GetMe(ctx, u)
	require.NoError(t, err)
	require.NotNil(t, profile.Ratings)
	assert.Equal(t, 5.0, *profile.Ratings)
}
