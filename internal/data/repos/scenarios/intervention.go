package scenarios

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type InterventionRepo interface {
	Create(dbc dbctx.Context, intervention *types.ScenarioIntervention) (*types.ScenarioIntervention, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ScenarioIntervention, error)
	GetByScenarioID(dbc dbctx.Context, scenarioID uuid.UUID) ([]*types.ScenarioIntervention, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	DeleteByScenarioID(dbc dbctx.Context, scenarioID uuid.UUID) error
}

type interventionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterventionRepo(db *gorm.DB, baseLog *logger.Logger) InterventionRepo {
	repoLog := baseLog.With("repo", "InterventionRepo")
	return &interventionRepo{db: db, log: repoLog}
}

func (r *interventionRepo) Create(dbc dbctx.Context, intervention *types.ScenarioIntervention) (*types.ScenarioIntervention, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if intervention.ID == uuid.Nil {
		intervention.ID = uuid.New()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(intervention).Error; err != nil {
		return nil, err
	}
	return intervention, nil
}

func (r *interventionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ScenarioIntervention, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ScenarioIntervention
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("scenario intervention %s: %w", id, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *interventionRepo) GetByScenarioID(dbc dbctx.Context, scenarioID uuid.UUID) ([]*types.ScenarioIntervention, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScenarioIntervention
	if err := transaction.WithContext(dbc.Ctx).
		Where("scenario_id = ?", scenarioID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interventionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.ScenarioIntervention{}).Error
}

func (r *interventionRepo) DeleteByScenarioID(dbc dbctx.Context, scenarioID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Where("scenario_id = ?", scenarioID).
		Delete(&types.ScenarioIntervention{}).Error
}
