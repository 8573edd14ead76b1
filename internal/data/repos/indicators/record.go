package indicators

import (
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

const createBatchSize = 500

type IndicatorRecordRepo interface {
	CreateBulk(dbc dbctx.Context, records []*types.IndicatorRecord) ([]*types.IndicatorRecord, error)
	// QueryRaw runs an aggregate SQL expression list produced by the
	// dependency manager and returns one row of named raw values.
	QueryRaw(dbc dbctx.Context, query string, args ...interface{}) (map[string]interface{}, error)
	// QueryRawRows is the grouped variant: one row of raw values per
	// sourcing location scope.
	QueryRawRows(dbc dbctx.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
	ClearTable(dbc dbctx.Context) error
}

type indicatorRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIndicatorRecordRepo(db *gorm.DB, baseLog *logger.Logger) IndicatorRecordRepo {
	repoLog := baseLog.With("repo", "IndicatorRecordRepo")
	return &indicatorRecordRepo{db: db, log: repoLog}
}

func (r *indicatorRecordRepo) CreateBulk(dbc dbctx.Context, records []*types.IndicatorRecord) ([]*types.IndicatorRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(records) == 0 {
		return []*types.IndicatorRecord{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		CreateInBatches(&records, createBatchSize).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *indicatorRecordRepo) QueryRaw(dbc dbctx.Context, query string, args ...interface{}) (map[string]interface{}, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	result := map[string]interface{}{}
	if err := transaction.WithContext(dbc.Ctx).Raw(query, args...).Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *indicatorRecordRepo) QueryRawRows(dbc dbctx.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []map[string]interface{}
	if err := transaction.WithContext(dbc.Ctx).Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *indicatorRecordRepo) ClearTable(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&types.IndicatorRecord{}).Error
}
