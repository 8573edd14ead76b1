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

type ScenarioRepo interface {
	Create(dbc dbctx.Context, scenario *types.Scenario) (*types.Scenario, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Scenario, error)
	FindAll(dbc dbctx.Context) ([]*types.Scenario, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	ClearTable(dbc dbctx.Context) error
}

type scenarioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScenarioRepo(db *gorm.DB, baseLog *logger.Logger) ScenarioRepo {
	repoLog := baseLog.With("repo", "ScenarioRepo")
	return &scenarioRepo{db: db, log: repoLog}
}

func (r *scenarioRepo) Create(dbc dbctx.Context, scenario *types.Scenario) (*types.Scenario, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if scenario.ID == uuid.Nil {
		scenario.ID = uuid.New()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(scenario).Error; err != nil {
		return nil, err
	}
	return scenario, nil
}

func (r *scenarioRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Scenario, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Scenario
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("scenario %s: %w", id, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *scenarioRepo) FindAll(dbc dbctx.Context) ([]*types.Scenario, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Scenario
	if err := transaction.WithContext(dbc.Ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scenarioRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Scenario{}).Error
}

func (r *scenarioRepo) ClearTable(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&types.Scenario{}).Error
}
