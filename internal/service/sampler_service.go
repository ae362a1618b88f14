package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

type participantLister interface {
	ListByAssignment(ctx context.Context, assignmentID int64) ([]models.Participant, error)
}

type submissionReader interface {
	ListByAssignmentAndUsers(ctx context.Context, assignmentID int64, userIDs []int64) ([]models.Submission, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Submission, error)
}

type activityResolver interface {
	ResolveByAssignment(ctx context.Context, assignmentID int64) (*models.Activity, error)
}

// SamplerService enumerates submission samples for an activity and resolves
// sample ids back into their contextual bundles. Sample ids are submission
// ids; the mapping is stable across enumeration and lookup.
type SamplerService struct {
	participants participantLister
	submissions  submissionReader
	activities   activityResolver
	logger       *zap.Logger
}

// NewSamplerService constructs SamplerService.
func NewSamplerService(participants participantLister, submissions submissionReader, activities activityResolver, logger *zap.Logger) *SamplerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SamplerService{
		participants: participants,
		submissions:  submissions,
		activities:   activities,
		logger:       logger,
	}
}

// EnumerateSamples returns the sample ids of an activity together with the
// bundle each sample carries. Activities without participants yield empty
// results, not an error.
func (s *SamplerService) EnumerateSamples(ctx context.Context, activity models.Activity) ([]int64, map[int64]models.SampleBundle, error) {
	participants, err := s.participants.ListByAssignment(ctx, activity.Assignment.ID)
	if err != nil {
		return nil, nil, err
	}

	sampleIDs := make([]int64, 0, len(participants))
	bundles := make(map[int64]models.SampleBundle, len(participants))
	if len(participants) == 0 {
		return sampleIDs, bundles, nil
	}

	byUser := make(map[int64]models.Participant, len(participants))
	userIDs := make([]int64, 0, len(participants))
	for _, p := range participants {
		byUser[p.ID] = p
		userIDs = append(userIDs, p.ID)
	}

	submissions, err := s.submissions.ListByAssignmentAndUsers(ctx, activity.Assignment.ID, userIDs)
	if err != nil {
		return nil, nil, err
	}

	for _, submission := range submissions {
		user, ok := byUser[submission.UserID]
		if !ok {
			// Participants were fetched moments ago; a submission pointing
			// outside that set means the mirror is inconsistent.
			return nil, nil, fmt.Errorf("submission %d references user %d outside the participant set of assignment %d",
				submission.ID, submission.UserID, activity.Assignment.ID)
		}
		sampleIDs = append(sampleIDs, submission.ID)
		bundles[submission.ID] = models.SampleBundle{
			Course:     activity.Course,
			User:       user,
			Context:    activity.Context,
			Module:     activity.Module,
			Assignment: activity.Assignment,
			Submission: submission,
		}
	}

	return sampleIDs, bundles, nil
}

// ResolveSamples rebuilds bundles for an arbitrary batch of sample ids. The
// batch may span many assignments; activity and participant data is
// resolved once per distinct assignment and cached for the duration of the
// call only, since the underlying records may change between calls.
func (s *SamplerService) ResolveSamples(ctx context.Context, sampleIDs []int64) (map[int64]models.SampleBundle, error) {
	bundles := make(map[int64]models.SampleBundle, len(sampleIDs))
	if len(sampleIDs) == 0 {
		return bundles, nil
	}

	submissions, err := s.submissions.ListByIDs(ctx, sampleIDs)
	if err != nil {
		return nil, err
	}

	activities := make(map[int64]*models.Activity)
	participants := make(map[int64]map[int64]models.Participant)

	for _, submission := range submissions {
		activity, ok := activities[submission.AssignmentID]
		if !ok {
			activity, err = s.activities.ResolveByAssignment(ctx, submission.AssignmentID)
			if err != nil {
				return nil, err
			}
			list, err := s.participants.ListByAssignment(ctx, submission.AssignmentID)
			if err != nil {
				return nil, err
			}
			byUser := make(map[int64]models.Participant, len(list))
			for _, p := range list {
				byUser[p.ID] = p
			}
			activities[submission.AssignmentID] = activity
			participants[submission.AssignmentID] = byUser
		}

		user, ok := participants[submission.AssignmentID][submission.UserID]
		if !ok {
			return nil, fmt.Errorf("submission %d references user %d outside the participant set of assignment %d",
				submission.ID, submission.UserID, submission.AssignmentID)
		}
		bundles[submission.ID] = models.SampleBundle{
			Course:     activity.Course,
			User:       user,
			Context:    activity.Context,
			Module:     activity.Module,
			Assignment: activity.Assignment,
			Submission: submission,
		}
	}

	return bundles, nil
}

// DescribeSample formats a sample for display: the assignment name scoped
// to the given context, plus the generic assignment icon.
func (s *SamplerService) DescribeSample(sampleID, contextID int64, bundle models.SampleBundle) (string, models.Icon) {
	description := strings.TrimSpace(bundle.Assignment.Name)
	if description == "" {
		description = fmt.Sprintf("assignment %d", bundle.Assignment.ID)
	}
	if contextID != 0 && contextID != bundle.Context.ID {
		s.logger.Warn("sample described outside its own context",
			zap.Int64("sample_id", sampleID),
			zap.Int64("context_id", contextID))
	}
	icon := models.Icon{Component: "mod_assign", Name: "icon", Alt: description}
	return description, icon
}
