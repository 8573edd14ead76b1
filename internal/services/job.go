package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// JobService tracks the lifecycle of asynchronous tasks. One job event per
// attempt, keyed by the entity the task works on.
type JobService interface {
	StartJob(dbc dbctx.Context, externalID uuid.UUID, jobType types.JobType) (*types.JobEvent, error)
	CompleteJob(dbc dbctx.Context, id uuid.UUID, data interface{}) error
	FailJob(dbc dbctx.Context, id uuid.UUID, errs interface{}) error
	GetJob(dbc dbctx.Context, id uuid.UUID) (*types.JobEvent, error)
	GetLatestJobForEntity(dbc dbctx.Context, externalID uuid.UUID) (*types.JobEvent, error)
}

type jobService struct {
	jobEvents repos.JobEventRepo
	log       *logger.Logger
}

func NewJobService(jobEvents repos.JobEventRepo, baseLog *logger.Logger) JobService {
	return &jobService{
		jobEvents: jobEvents,
		log:       baseLog.With("service", "JobService"),
	}
}

func (s *jobService) StartJob(dbc dbctx.Context, externalID uuid.UUID, jobType types.JobType) (*types.JobEvent, error) {
	event, err := s.jobEvents.Create(dbc, &types.JobEvent{
		ExternalID: externalID,
		Type:       jobType,
		Status:     types.JobProcessing,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create job event: %w", err)
	}
	s.log.Info("job started", "jobID", event.ID, "type", jobType, "externalID", externalID)
	return event, nil
}

func (s *jobService) CompleteJob(dbc dbctx.Context, id uuid.UUID, data interface{}) error {
	if data != nil {
		if err := s.jobEvents.SetData(dbc, id, data); err != nil {
			return err
		}
	}
	if err := s.jobEvents.UpdateStatus(dbc, id, types.JobCompleted); err != nil {
		return fmt.Errorf("failed to mark job %s completed: %w", id, err)
	}
	s.log.Info("job completed", "jobID", id)
	return nil
}

func (s *jobService) FailJob(dbc dbctx.Context, id uuid.UUID, errs interface{}) error {
	if errs != nil {
		if err := s.jobEvents.SetErrors(dbc, id, errs); err != nil {
			return err
		}
	}
	if err := s.jobEvents.UpdateStatus(dbc, id, types.JobFailed); err != nil {
		return fmt.Errorf("failed to mark job %s failed: %w", id, err)
	}
	s.log.Warn("job failed", "jobID", id)
	return nil
}

func (s *jobService) GetJob(dbc dbctx.Context, id uuid.UUID) (*types.JobEvent, error) {
	return s.jobEvents.GetByID(dbc, id)
}

func (s *jobService) GetLatestJobForEntity(dbc dbctx.Context, externalID uuid.UUID) (*types.JobEvent, error) {
	return s.jobEvents.GetLatestByExternalID(dbc, externalID)
}
