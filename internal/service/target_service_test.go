package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-insight-api/internal/models"
	appErrors "github.com/noah-isme/lms-insight-api/pkg/errors"
)

const day = int64(24 * 3600)

type mockEnrolmentReader struct {
	enrolment  *models.UserEnrolment
	lastAccess *models.LastAccess
	err        error
}

func (m *mockEnrolmentReader) FindUserEnrolment(ctx context.Context, userID, courseID int64) (*models.UserEnrolment, error) {
	return m.enrolment, m.err
}

func (m *mockEnrolmentReader) FindLastAccess(ctx context.Context, userID, courseID int64) (*models.LastAccess, error) {
	return m.lastAccess, m.err
}

type mockEventReader struct {
	event     *models.LogEvent
	err       error
	gotFilter models.EventFilter
}

func (m *mockEventReader) Earliest(ctx context.Context, filter models.EventFilter) (*models.LogEvent, error) {
	m.gotFilter = filter
	return m.event, m.err
}

type mockVisibilityResolver struct {
	visible bool
	err     error
}

func (m *mockVisibilityResolver) ModuleVisibleToUser(ctx context.Context, cmID, userID int64) (bool, error) {
	return m.visible, m.err
}

func newTestTarget(now int64, enrolments *mockEnrolmentReader, events *mockEventReader, visibility *mockVisibilityResolver) *TargetService {
	if enrolments == nil {
		enrolments = &mockEnrolmentReader{}
	}
	if events == nil {
		events = &mockEventReader{}
	}
	if visibility == nil {
		visibility = &mockVisibilityResolver{visible: true}
	}
	svc := NewTargetService(enrolments, events, visibility, nil)
	svc.now = func() int64 { return now }
	return svc
}

func baseActivity(now int64) models.Activity {
	return models.Activity{
		Assignment: models.Assignment{
			ID:                   10,
			CourseID:             1,
			Name:                 "Essay",
			AllowSubmissionsFrom: now - 30*day,
			DueDate:              now - 10*day,
		},
		Course:  models.Course{ID: 1, StartDate: now - 60*day},
		Module:  models.CourseModule{ID: 100, CourseID: 1, ModuleID: 2, Instance: 10, Visible: true},
		Context: models.ModuleContext{ID: 500, ContextLevel: models.ContextLevelModule, InstanceID: 100},
	}
}

func TestIsValidActivityRejectionOrder(t *testing.T) {
	now := int64(1_700_000_000)
	svc := newTestTarget(now, nil, nil, nil)

	tests := []struct {
		name    string
		mutate  func(*models.Activity)
		reason  string
		forTrng bool
	}{
		{
			name:    "no due or cutoff date",
			mutate:  func(a *models.Activity) { a.Assignment.DueDate = 0; a.Assignment.CutoffDate = 0 },
			reason:  ReasonNoDueDate,
			forTrng: true,
		},
		{
			name:    "hidden module",
			mutate:  func(a *models.Activity) { a.Module.Visible = false },
			reason:  ReasonNotVisible,
			forTrng: true,
		},
		{
			name: "not yet open",
			mutate: func(a *models.Activity) {
				a.Assignment.AllowSubmissionsFrom = now + day
				a.Assignment.DueDate = now + 10*day
			},
			reason:  ReasonNotStarted,
			forTrng: true,
		},
		{
			name:    "still open for training",
			mutate:  func(a *models.Activity) { a.Assignment.DueDate = now + day },
			reason:  ReasonStillOpen,
			forTrng: true,
		},
		{
			name: "start after end",
			mutate: func(a *models.Activity) {
				a.Assignment.AllowSubmissionsFrom = now - 5*day
				a.Assignment.DueDate = now - 10*day
			},
			reason:  ReasonWrongDates,
			forTrng: true,
		},
		{
			name:    "team submission",
			mutate:  func(a *models.Activity) { a.Assignment.TeamSubmission = true },
			reason:  ReasonTeamSubmission,
			forTrng: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			activity := baseActivity(now)
			tc.mutate(&activity)
			ok, reason := svc.IsValidActivity(activity, tc.forTrng)
			assert.False(t, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestIsValidActivityAccepts(t *testing.T) {
	now := int64(1_700_000_000)
	svc := newTestTarget(now, nil, nil, nil)

	ok, reason := svc.IsValidActivity(baseActivity(now), true)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestIsValidActivityPredictionAllowsOpen(t *testing.T) {
	now := int64(1_700_000_000)
	svc := newTestTarget(now, nil, nil, nil)

	activity := baseActivity(now)
	activity.Assignment.DueDate = now + 10*day

	ok, reason := svc.IsValidActivity(activity, false)
	assert.True(t, ok)
	assert.Empty(t, reason)

	ok, reason = svc.IsValidActivity(activity, true)
	assert.False(t, ok)
	assert.Equal(t, ReasonStillOpen, reason)
}

func TestIsValidActivityCutoffFallback(t *testing.T) {
	now := int64(1_700_000_000)
	svc := newTestTarget(now, nil, nil, nil)

	activity := baseActivity(now)
	activity.Assignment.DueDate = 0
	activity.Assignment.CutoffDate = now - 10*day

	ok, reason := svc.IsValidActivity(activity, true)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func sampleBundle(now int64) models.SampleBundle {
	activity := baseActivity(now)
	return models.SampleBundle{
		Course:     activity.Course,
		User:       models.Participant{ID: 7, Username: "student7"},
		Context:    activity.Context,
		Module:     activity.Module,
		Assignment: activity.Assignment,
		Submission: models.Submission{ID: 77, AssignmentID: 10, UserID: 7},
	}
}

func TestIsValidSampleAccepts(t *testing.T) {
	now := int64(1_700_000_000)
	bundle := sampleBundle(now)
	due := bundle.Assignment.DueDate

	enrolments := &mockEnrolmentReader{
		enrolment:  &models.UserEnrolment{UserID: 7, CourseID: 1, TimeStart: due - 100*day},
		lastAccess: &models.LastAccess{UserID: 7, CourseID: 1, TimeAccess: due - 5*day},
	}
	svc := newTestTarget(now, enrolments, nil, nil)

	ok, err := svc.IsValidSample(context.Background(), bundle, true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsValidSampleMissingRecords(t *testing.T) {
	now := int64(1_700_000_000)
	bundle := sampleBundle(now)

	t.Run("no enrolment", func(t *testing.T) {
		svc := newTestTarget(now, &mockEnrolmentReader{}, nil, nil)
		ok, err := svc.IsValidSample(context.Background(), bundle, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("never accessed course", func(t *testing.T) {
		enrolments := &mockEnrolmentReader{
			enrolment: &models.UserEnrolment{UserID: 7, CourseID: 1, TimeStart: now - 100*day},
		}
		svc := newTestTarget(now, enrolments, nil, nil)
		ok, err := svc.IsValidSample(context.Background(), bundle, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestIsValidSampleExpiredEnrolment(t *testing.T) {
	now := int64(1_700_000_000)
	bundle := sampleBundle(now)
	due := bundle.Assignment.DueDate

	enrolments := &mockEnrolmentReader{
		enrolment: &models.UserEnrolment{
			UserID:    7,
			CourseID:  1,
			TimeStart: due - 100*day,
			TimeEnd:   due - day,
		},
		lastAccess: &models.LastAccess{UserID: 7, CourseID: 1, TimeAccess: due - 5*day},
	}
	svc := newTestTarget(now, enrolments, nil, nil)

	ok, err := svc.IsValidSample(context.Background(), bundle, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsValidSampleStaleness(t *testing.T) {
	now := int64(1_700_000_000)
	bundle := sampleBundle(now)
	due := bundle.Assignment.DueDate

	t.Run("enrolment older than a year rejected", func(t *testing.T) {
		enrolments := &mockEnrolmentReader{
			enrolment:  &models.UserEnrolment{UserID: 7, CourseID: 1, TimeStart: due - 400*day},
			lastAccess: &models.LastAccess{UserID: 7, CourseID: 1, TimeAccess: due - 5*day},
		}
		svc := newTestTarget(now, enrolments, nil, nil)
		ok, err := svc.IsValidSample(context.Background(), bundle, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("enrolment within the window accepted", func(t *testing.T) {
		enrolments := &mockEnrolmentReader{
			enrolment:  &models.UserEnrolment{UserID: 7, CourseID: 1, TimeStart: due - 300*day},
			lastAccess: &models.LastAccess{UserID: 7, CourseID: 1, TimeAccess: due - 5*day},
		}
		svc := newTestTarget(now, enrolments, nil, nil)
		ok, err := svc.IsValidSample(context.Background(), bundle, true)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stale last access rejected", func(t *testing.T) {
		enrolments := &mockEnrolmentReader{
			enrolment:  &models.UserEnrolment{UserID: 7, CourseID: 1, TimeStart: due - 300*day},
			lastAccess: &models.LastAccess{UserID: 7, CourseID: 1, TimeAccess: due - 400*day},
		}
		svc := newTestTarget(now, enrolments, nil, nil)
		ok, err := svc.IsValidSample(context.Background(), bundle, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("timecreated anchors when timestart missing", func(t *testing.T) {
		enrolments := &mockEnrolmentReader{
			enrolment:  &models.UserEnrolment{UserID: 7, CourseID: 1, TimeCreated: due - 400*day},
			lastAccess: &models.LastAccess{UserID: 7, CourseID: 1, TimeAccess: due - 5*day},
		}
		svc := newTestTarget(now, enrolments, nil, nil)
		ok, err := svc.IsValidSample(context.Background(), bundle, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no anchor date skips staleness checks", func(t *testing.T) {
		noDates := bundle
		noDates.Assignment.DueDate = 0
		noDates.Course.StartDate = 0
		enrolments := &mockEnrolmentReader{
			enrolment:  &models.UserEnrolment{UserID: 7, CourseID: 1, TimeStart: due - 900*day},
			lastAccess: &models.LastAccess{UserID: 7, CourseID: 1, TimeAccess: due - 900*day},
		}
		svc := newTestTarget(now, enrolments, nil, nil)
		ok, err := svc.IsValidSample(context.Background(), noDates, true)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCalculateLabel(t *testing.T) {
	now := int64(1_700_000_000)
	activity := baseActivity(now)
	bundle := sampleBundle(now)

	t.Run("module hidden from user yields no label", func(t *testing.T) {
		svc := newTestTarget(now, nil, nil, &mockVisibilityResolver{visible: false})
		label, err := svc.CalculateLabel(context.Background(), bundle, activity)
		require.NoError(t, err)
		assert.Nil(t, label)
	})

	t.Run("no submission event means late", func(t *testing.T) {
		events := &mockEventReader{}
		svc := newTestTarget(now, nil, events, nil)
		label, err := svc.CalculateLabel(context.Background(), bundle, activity)
		require.NoError(t, err)
		require.NotNil(t, label)
		assert.Equal(t, 1, *label)

		assert.Equal(t, models.EventFilter{
			UserID:            7,
			ContextLevel:      models.ContextLevelModule,
			ContextInstanceID: 100,
			CRUD:              models.CRUDUpdate,
			EventName:         models.EventAssessableSubmitted,
		}, events.gotFilter)
	})

	t.Run("submission after the deadline is late", func(t *testing.T) {
		events := &mockEventReader{event: &models.LogEvent{TimeCreated: activity.End() + 3600}}
		svc := newTestTarget(now, nil, events, nil)
		label, err := svc.CalculateLabel(context.Background(), bundle, activity)
		require.NoError(t, err)
		require.NotNil(t, label)
		assert.Equal(t, 1, *label)
	})

	t.Run("submission before the deadline is on time", func(t *testing.T) {
		events := &mockEventReader{event: &models.LogEvent{TimeCreated: activity.End() - 3600}}
		svc := newTestTarget(now, nil, events, nil)
		label, err := svc.CalculateLabel(context.Background(), bundle, activity)
		require.NoError(t, err)
		require.NotNil(t, label)
		assert.Equal(t, 0, *label)
	})

	t.Run("event store failure surfaces as configuration error", func(t *testing.T) {
		events := &mockEventReader{err: errors.New("connection refused")}
		svc := newTestTarget(now, nil, events, nil)
		_, err := svc.CalculateLabel(context.Background(), bundle, activity)
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrEventStore.Code, appErr.Code)
	})
}

func TestCalculateLabelDeterministic(t *testing.T) {
	now := int64(1_700_000_000)
	activity := baseActivity(now)
	bundle := sampleBundle(now)

	events := &mockEventReader{event: &models.LogEvent{TimeCreated: activity.End() - 100}}
	svc := newTestTarget(now, nil, events, nil)

	first, err := svc.CalculateLabel(context.Background(), bundle, activity)
	require.NoError(t, err)
	second, err := svc.CalculateLabel(context.Background(), bundle, activity)
	require.NoError(t, err)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}
