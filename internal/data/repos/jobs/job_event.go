package jobs

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type JobEventRepo interface {
	Create(dbc dbctx.Context, event *types.JobEvent) (*types.JobEvent, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.JobEvent, error)
	// GetLatestByExternalID returns the most recent job for the entity it
	// operates on, e.g. a sourcing record group.
	GetLatestByExternalID(dbc dbctx.Context, externalID uuid.UUID) (*types.JobEvent, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.JobStatus) error
	// SetData replaces the job data blob, typically with collected warnings.
	SetData(dbc dbctx.Context, id uuid.UUID, data interface{}) error
	// SetErrors replaces the job error blob with whatever made it fail.
	SetErrors(dbc dbctx.Context, id uuid.UUID, errs interface{}) error
}

type jobEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobEventRepo(db *gorm.DB, baseLog *logger.Logger) JobEventRepo {
	repoLog := baseLog.With("repo", "JobEventRepo")
	return &jobEventRepo{db: db, log: repoLog}
}

func (r *jobEventRepo) Create(dbc dbctx.Context, event *types.JobEvent) (*types.JobEvent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (r *jobEventRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.JobEvent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.JobEvent
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job %s: %w", id, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *jobEventRepo) GetLatestByExternalID(dbc dbctx.Context, externalID uuid.UUID) (*types.JobEvent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.JobEvent
	if err := transaction.WithContext(dbc.Ctx).
		Where("external_id = ?", externalID).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job for entity %s: %w", externalID, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *jobEventRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.JobStatus) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Model(&types.JobEvent{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *jobEventRepo) SetData(dbc dbctx.Context, id uuid.UUID, data interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal job data: %w", err)
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.JobEvent{}).
		Where("id = ?", id).
		Update("data", datatypes.JSON(raw)).Error
}

func (r *jobEventRepo) SetErrors(dbc dbctx.Context, id uuid.UUID, errs interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	raw, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("failed to marshal job errors: %w", err)
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.JobEvent{}).
		Where("id = ?", id).
		Update("errors", datatypes.JSON(raw)).Error
}
