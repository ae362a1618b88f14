package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-insight-api/internal/models"
	appErrors "github.com/noah-isme/lms-insight-api/pkg/errors"
)

// Rejection reasons reported by IsValidActivity. These are stable strings
// the orchestrator logs, not user-facing copy.
const (
	ReasonNoDueDate      = "no due date"
	ReasonNotVisible     = "course module not visible"
	ReasonNotStarted     = "not yet started"
	ReasonStillOpen      = "still open"
	ReasonWrongDates     = "wrong dates"
	ReasonTeamSubmission = "team submission assignments are not supported"
)

const (
	yearSeconds = 365 * 24 * 3600
	weekSeconds = 7 * 24 * 3600

	// staleWindow is roughly one academic year. Enrolments and access
	// records older than this relative to the due date are carried over
	// from previous years and would poison the dataset.
	staleWindow = yearSeconds + 4*weekSeconds
)

type enrolmentReader interface {
	FindUserEnrolment(ctx context.Context, userID, courseID int64) (*models.UserEnrolment, error)
	FindLastAccess(ctx context.Context, userID, courseID int64) (*models.LastAccess, error)
}

type eventReader interface {
	Earliest(ctx context.Context, filter models.EventFilter) (*models.LogEvent, error)
}

type userVisibilityResolver interface {
	ModuleVisibleToUser(ctx context.Context, cmID, userID int64) (bool, error)
}

// TargetService decides which activities and samples are eligible and
// computes the late-submission label. It implements analytics.Target for
// the late_assign_submission model.
type TargetService struct {
	enrolments enrolmentReader
	events     eventReader
	visibility userVisibilityResolver
	logger     *zap.Logger
	now        func() int64
}

// NewTargetService constructs TargetService.
func NewTargetService(enrolments enrolmentReader, events eventReader, visibility userVisibilityResolver, logger *zap.Logger) *TargetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TargetService{
		enrolments: enrolments,
		events:     events,
		visibility: visibility,
		logger:     logger,
		now:        func() int64 { return time.Now().Unix() },
	}
}

// IsValidActivity gates whether an activity may contribute samples. Checks
// short-circuit in a fixed order; the first failure wins.
func (s *TargetService) IsValidActivity(activity models.Activity, forTraining bool) (bool, string) {
	now := s.now()

	if activity.End() == 0 {
		return false, ReasonNoDueDate
	}

	if !activity.Module.Visible {
		return false, ReasonNotVisible
	}

	if activity.Start() > now {
		return false, ReasonNotStarted
	}

	if forTraining && activity.End() > now {
		return false, ReasonStillOpen
	}

	// Weird but possible.
	if activity.Start() >= activity.End() {
		return false, ReasonWrongDates
	}

	if activity.Assignment.TeamSubmission {
		// The label lookup expects every participant to trigger their own
		// submission event; on team submissions only one member does.
		return false, ReasonTeamSubmission
	}

	return true, ""
}

// IsValidSample applies enrollment-window and staleness checks to a single
// sample. Rejections are expected outcomes, not errors.
func (s *TargetService) IsValidSample(ctx context.Context, bundle models.SampleBundle, forTraining bool) (bool, error) {
	enrolment, err := s.enrolments.FindUserEnrolment(ctx, bundle.User.ID, bundle.Course.ID)
	if err != nil {
		return false, err
	}
	if enrolment == nil {
		return false, nil
	}

	lastAccess, err := s.enrolments.FindLastAccess(ctx, bundle.User.ID, bundle.Course.ID)
	if err != nil {
		return false, err
	}
	if lastAccess == nil {
		return false, nil
	}

	if enrolment.TimeEnd != 0 &&
		(bundle.Course.StartDate > enrolment.TimeEnd || bundle.Assignment.DueDate > enrolment.TimeEnd) {
		// The enrolment ended before the course started or before the
		// assignment was due: a leftover from a previous run of the course.
		return false, nil
	}

	var limit int64
	if bundle.Assignment.DueDate != 0 {
		limit = bundle.Assignment.DueDate - staleWindow
	} else if bundle.Course.StartDate != 0 {
		limit = bundle.Course.StartDate - staleWindow
	}

	if limit != 0 {
		// Enrolments lasting longer than an academic year are reused-course
		// leftovers with students of previous years still enrolled. Courses
		// shorter than a year slip through, which is acceptable noise.
		start := enrolment.TimeStart
		if start == 0 {
			start = enrolment.TimeCreated
		}
		if start < limit {
			return false, nil
		}

		if lastAccess.TimeAccess < limit {
			return false, nil
		}
	}

	return true, nil
}

// CalculateLabel computes the binary late/on-time label for a sample. A nil
// label means the sample is excluded from the labeled dataset (module not
// visible to this particular user).
func (s *TargetService) CalculateLabel(ctx context.Context, bundle models.SampleBundle, activity models.Activity) (*int, error) {
	visible, err := s.visibility.ModuleVisibleToUser(ctx, activity.Module.ID, bundle.User.ID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, nil
	}

	event, err := s.events.Earliest(ctx, models.EventFilter{
		UserID:            bundle.User.ID,
		ContextLevel:      models.ContextLevelModule,
		ContextInstanceID: activity.Module.ID,
		CRUD:              models.CRUDUpdate,
		EventName:         models.EventAssessableSubmitted,
	})
	if err != nil {
		// Without the event log the whole labeling pass is meaningless;
		// surface this as a configuration failure rather than a per-sample
		// result.
		return nil, appErrors.Wrap(err, appErrors.ErrEventStore.Code, appErrors.ErrEventStore.Status, appErrors.ErrEventStore.Message)
	}

	late := 1
	onTime := 0

	if event == nil {
		// No submission event by now: a definite late/non-submission.
		return &late, nil
	}

	if event.TimeCreated > activity.End() {
		return &late, nil
	}

	return &onTime, nil
}
