package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow_backend/internal/models"
	"talentflow_backend/internal/repositories"
)

type reminderFixture struct {
	service   ReminderService
	apps      *fakeApplicationRepo
	reminders *fakeReminderRepo
	users     *fakeUserRepo
	notifRepo *fakeNotificationRepo
	provider  *recordingEmailProvider
}

func newReminderFixture(t *testing.T) *reminderFixture {
	t.Helper()

	apps := newFakeApplicationRepo()
	reminders := newFakeReminderRepo()
	notifRepo := newFakeNotificationRepo()
	provider := newRecordingEmailProvider()
	cfg := testConfig()

	users := &fakeUserRepo{staff: []models.User{
		{BaseModel: models.BaseModel{ID: "u-1"}, Name: "Rita Recruiter", Email: "rita@talentflow.test", Role: models.UserRoleRecruiter, IsActive: true},
		{BaseModel: models.BaseModel{ID: "u-2"}, Name: "Mark Manager", Email: "mark@talentflow.test", Role: models.UserRoleManager, IsActive: true},
		{BaseModel: models.BaseModel{ID: "u-3"}, Name: "Ines Inactive", Email: "ines@talentflow.test", Role: models.UserRoleRecruiter, IsActive: false},
	}}

	notifier := NewNotificationService(notifRepo, provider, cfg.Email.FromEmail, cfg.Email.FromName, cfg.Notifications.MaxRetries)
	service := NewReminderService(apps, reminders, users, notifier, cfg)

	return &reminderFixture{
		service:   service,
		apps:      apps,
		reminders: reminders,
		users:     users,
		notifRepo: notifRepo,
		provider:  provider,
	}
}

// addReviewedApplication seeds an application in reviewed status whose
// last update is the given age in the past.
func (f *reminderFixture) addReviewedApplication(id string, age time.Duration) {
	f.apps.add(&models.Application{
		BaseModel: models.BaseModel{
			ID:        id,
			UpdatedAt: time.Now().Add(-age),
		},
		CandidateID:      "cand-" + id,
		JobRequirementID: "req-1",
		Status:           models.ApplicationStatusReviewed,
		Candidate: &models.Candidate{
			Name:  "Alice Johnson",
			Email: "alice@example.com",
		},
		JobRequirement: &models.JobRequirement{
			Title: "Backend Engineer",
		},
	})
}

func TestSweep_RemindsActiveStaffAboutStaleApplication(t *testing.T) {
	f := newReminderFixture(t)
	f.addReviewedApplication("app-1", 4*24*time.Hour)

	response, err := f.service.SweepStaleApplications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, response.ApplicationsProcessed)
	assert.Equal(t, 1, response.RemindersCreated)
	assert.Equal(t, 2, response.RemindersSent, "one delivery per active staff recipient")
	assert.Equal(t, 2, f.provider.sentCount())

	reminders, err := f.reminders.FindByApplication("app-1")
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, models.ReminderStatusSent, reminders[0].Status)
	assert.Equal(t, repositories.NotificationTypeStaffReminder, reminders[0].Type)
	assert.NotNil(t, reminders[0].SentAt)
}

func TestSweep_ReminderContentNamesCandidateAndRole(t *testing.T) {
	f := newReminderFixture(t)
	f.addReviewedApplication("app-1", 4*24*time.Hour)

	_, err := f.service.SweepStaleApplications(context.Background())
	require.NoError(t, err)

	sent := f.provider.lastSent()
	require.NotNil(t, sent)
	assert.Contains(t, sent.HTMLBody, "Alice Johnson")
	assert.Contains(t, sent.HTMLBody, "Backend Engineer")
	assert.NotContains(t, sent.HTMLBody, "{{")
}

func TestSweep_SecondSweepDoesNotReremind(t *testing.T) {
	f := newReminderFixture(t)
	f.addReviewedApplication("app-1", 4*24*time.Hour)

	first, err := f.service.SweepStaleApplications(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.RemindersCreated)

	second, err := f.service.SweepStaleApplications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, second.ApplicationsProcessed)
	assert.Equal(t, 0, second.RemindersCreated)
	assert.Equal(t, 0, second.RemindersSent)

	reminders, err := f.reminders.FindByApplication("app-1")
	require.NoError(t, err)
	assert.Len(t, reminders, 1, "at most one sent reminder per application")
}

func TestSweep_FreshAndNonReviewedApplicationsIgnored(t *testing.T) {
	f := newReminderFixture(t)
	f.addReviewedApplication("app-fresh", 2*time.Hour)
	f.apps.add(&models.Application{
		BaseModel: models.BaseModel{
			ID:        "app-pending",
			UpdatedAt: time.Now().Add(-5 * 24 * time.Hour),
		},
		Status: models.ApplicationStatusPending,
	})

	response, err := f.service.SweepStaleApplications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, response.ApplicationsProcessed)
	assert.Equal(t, 0, response.RemindersCreated)
	assert.Equal(t, 0, f.provider.sentCount())
}

func TestSweep_RecipientFailureDoesNotAbort(t *testing.T) {
	f := newReminderFixture(t)
	f.addReviewedApplication("app-1", 4*24*time.Hour)
	f.provider.failFor["rita@talentflow.test"] = errors.New("smtp: mailbox full")

	response, err := f.service.SweepStaleApplications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, response.ApplicationsProcessed)
	assert.Equal(t, 1, response.RemindersCreated, "the reminder record is still written")
	assert.Equal(t, 1, response.RemindersSent, "only the successful delivery counts")
	assert.Equal(t, 1, f.provider.sentCount())

	failed := f.notifRepo.recordsByStatus(models.NotificationStatusFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "rita@talentflow.test", failed[0].Recipient)
}

func TestSweep_MultipleStaleApplications(t *testing.T) {
	f := newReminderFixture(t)
	f.addReviewedApplication("app-1", 4*24*time.Hour)
	f.addReviewedApplication("app-2", 5*24*time.Hour)

	response, err := f.service.SweepStaleApplications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, response.ApplicationsProcessed)
	assert.Equal(t, 2, response.RemindersCreated)
	assert.Equal(t, 4, response.RemindersSent)
}

func TestSweep_NoStaffStillRecordsReminder(t *testing.T) {
	f := newReminderFixture(t)
	f.users.staff = nil
	f.addReviewedApplication("app-1", 4*24*time.Hour)

	response, err := f.service.SweepStaleApplications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, response.ApplicationsProcessed)
	assert.Equal(t, 1, response.RemindersCreated)
	assert.Equal(t, 0, response.RemindersSent)
}
