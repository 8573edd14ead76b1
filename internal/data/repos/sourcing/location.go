package sourcing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type SourcingLocationRepo interface {
	Create(dbc dbctx.Context, locations []*types.SourcingLocation) ([]*types.SourcingLocation, error)
	// SaveChunked persists the locations in fixed-size batches inside one
	// transaction, reporting progress after each batch.
	SaveChunked(dbc dbctx.Context, locations []*types.SourcingLocation, chunkSize int, startProgress float64, onChunk func(progress float64)) error
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.SourcingLocation, error)
	GetByScenarioInterventionID(dbc dbctx.Context, interventionID uuid.UUID) ([]*types.SourcingLocation, error)
	FindAllActual(dbc dbctx.Context) ([]*types.SourcingLocation, error)
	// DeleteByScenarioInterventionID removes the canceled and replacing
	// locations an intervention created, together with their records.
	DeleteByScenarioInterventionID(dbc dbctx.Context, interventionID uuid.UUID) error
	ClearTable(dbc dbctx.Context) error
}

type sourcingLocationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourcingLocationRepo(db *gorm.DB, baseLog *logger.Logger) SourcingLocationRepo {
	repoLog := baseLog.With("repo", "SourcingLocationRepo")
	return &sourcingLocationRepo{db: db, log: repoLog}
}

func (r *sourcingLocationRepo) Create(dbc dbctx.Context, locations []*types.SourcingLocation) ([]*types.SourcingLocation, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(locations) == 0 {
		return []*types.SourcingLocation{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *sourcingLocationRepo) SaveChunked(dbc dbctx.Context, locations []*types.SourcingLocation, chunkSize int, startProgress float64, onChunk func(progress float64)) error {
	return SaveChunks(dbc, r.db, locations, chunkSize, startProgress, onChunk)
}

func (r *sourcingLocationRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.SourcingLocation, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SourcingLocation
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sourcingLocationRepo) GetByScenarioInterventionID(dbc dbctx.Context, interventionID uuid.UUID) ([]*types.SourcingLocation, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SourcingLocation
	if err := transaction.WithContext(dbc.Ctx).
		Where("scenario_intervention_id = ?", interventionID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sourcingLocationRepo) FindAllActual(dbc dbctx.Context) ([]*types.SourcingLocation, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SourcingLocation
	if err := transaction.WithContext(dbc.Ctx).
		Where("scenario_intervention_id IS NULL").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sourcingLocationRepo) DeleteByScenarioInterventionID(dbc dbctx.Context, interventionID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	err := transaction.WithContext(dbc.Ctx).Exec(`
		DELETE FROM indicator_record
		WHERE sourcing_record_id IN (
			SELECT sr.id FROM sourcing_record sr
			JOIN sourcing_location sl ON sl.id = sr.sourcing_location_id
			WHERE sl.scenario_intervention_id = ?)`,
		interventionID).Error
	if err != nil {
		return err
	}
	err = transaction.WithContext(dbc.Ctx).Exec(`
		DELETE FROM sourcing_record
		WHERE sourcing_location_id IN (
			SELECT id FROM sourcing_location WHERE scenario_intervention_id = ?)`,
		interventionID).Error
	if err != nil {
		return err
	}
	return transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("scenario_intervention_id = ?", interventionID).
		Delete(&types.SourcingLocation{}).Error
}

func (r *sourcingLocationRepo) ClearTable(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&types.SourcingLocation{}).Error
}
