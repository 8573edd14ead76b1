package sourcing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// RecordScope is a sourcing record joined with the location columns the
// impact calculation needs.
type RecordScope struct {
	SourcingRecordID uuid.UUID  `json:"sourcing_record_id"`
	Year             int        `json:"year"`
	Tonnage          float64    `json:"tonnage"`
	MaterialID       uuid.UUID  `json:"material_id"`
	GeoRegionID      *uuid.UUID `json:"geo_region_id"`
	AdminRegionID    *uuid.UUID `json:"admin_region_id"`
}

type SourcingRecordRepo interface {
	Create(dbc dbctx.Context, records []*types.SourcingRecord) ([]*types.SourcingRecord, error)
	SaveChunked(dbc dbctx.Context, records []*types.SourcingRecord, chunkSize int, startProgress float64, onChunk func(progress float64)) error
	GetScopesForImpactCalc(dbc dbctx.Context) ([]RecordScope, error)
	GetByLocationIDs(dbc dbctx.Context, locationIDs []uuid.UUID) ([]*types.SourcingRecord, error)
	GetDistinctYears(dbc dbctx.Context) ([]int, error)
	ClearTable(dbc dbctx.Context) error
}

type sourcingRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourcingRecordRepo(db *gorm.DB, baseLog *logger.Logger) SourcingRecordRepo {
	repoLog := baseLog.With("repo", "SourcingRecordRepo")
	return &sourcingRecordRepo{db: db, log: repoLog}
}

func (r *sourcingRecordRepo) Create(dbc dbctx.Context, records []*types.SourcingRecord) ([]*types.SourcingRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(records) == 0 {
		return []*types.SourcingRecord{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sourcingRecordRepo) SaveChunked(dbc dbctx.Context, records []*types.SourcingRecord, chunkSize int, startProgress float64, onChunk func(progress float64)) error {
	return SaveChunks(dbc, r.db, records, chunkSize, startProgress, onChunk)
}

func (r *sourcingRecordRepo) GetScopesForImpactCalc(dbc dbctx.Context) ([]RecordScope, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []RecordScope
	err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT sr.id AS sourcing_record_id,
			sr.year AS year,
			sr.tonnage AS tonnage,
			sl.material_id AS material_id,
			sl.geo_region_id AS geo_region_id,
			sl.admin_region_id AS admin_region_id
		FROM sourcing_record sr
		JOIN sourcing_location sl ON sl.id = sr.sourcing_location_id
		WHERE sr.deleted_at IS NULL AND sl.deleted_at IS NULL`).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sourcingRecordRepo) GetByLocationIDs(dbc dbctx.Context, locationIDs []uuid.UUID) ([]*types.SourcingRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(locationIDs) == 0 {
		return []*types.SourcingRecord{}, nil
	}

	var results []*types.SourcingRecord
	if err := transaction.WithContext(dbc.Ctx).
		Where("sourcing_location_id IN ?", locationIDs).
		Order("year ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sourcingRecordRepo) GetDistinctYears(dbc dbctx.Context) ([]int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var years []int
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.SourcingRecord{}).
		Distinct("year").
		Order("year ASC").
		Pluck("year", &years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}

func (r *sourcingRecordRepo) ClearTable(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&types.SourcingRecord{}).Error
}
