package indicators

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

type IndicatorRepo interface {
	FindAllActive(dbc dbctx.Context) ([]*types.Indicator, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Indicator, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Indicator, error)
	GetByTypes(dbc dbctx.Context, nameCodes []types.IndicatorType) ([]*types.Indicator, error)
}

type indicatorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIndicatorRepo(db *gorm.DB, baseLog *logger.Logger) IndicatorRepo {
	repoLog := baseLog.With("repo", "IndicatorRepo")
	return &indicatorRepo{db: db, log: repoLog}
}

func (r *indicatorRepo) FindAllActive(dbc dbctx.Context) ([]*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Indicator
	if err := transaction.WithContext(dbc.Ctx).
		Where("status = ?", types.IndicatorActive).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *indicatorRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Indicator
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("indicator %s: %w", id, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *indicatorRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Indicator
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

func (r *indicatorRepo) GetByTypes(dbc dbctx.Context, nameCodes []types.IndicatorType) ([]*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Indicator
	if len(nameCodes) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("name_code IN ?", nameCodes).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
