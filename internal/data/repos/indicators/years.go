package indicators

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type DataYearRepo interface {
	Create(dbc dbctx.Context, years []*types.DataYear) ([]*types.DataYear, error)
	// GetAvailableYears lists the distinct years with source data for the
	// indicator, optionally narrowed to a set of materials. Sorted ascending.
	GetAvailableYears(dbc dbctx.Context, indicatorID *uuid.UUID, materialIDs []uuid.UUID) ([]int, error)
}

type dataYearRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDataYearRepo(db *gorm.DB, baseLog *logger.Logger) DataYearRepo {
	repoLog := baseLog.With("repo", "DataYearRepo")
	return &dataYearRepo{db: db, log: repoLog}
}

func (r *dataYearRepo) Create(dbc dbctx.Context, years []*types.DataYear) ([]*types.DataYear, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(years) == 0 {
		return []*types.DataYear{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&years).Error; err != nil {
		return nil, err
	}
	return years, nil
}

func (r *dataYearRepo) GetAvailableYears(dbc dbctx.Context, indicatorID *uuid.UUID, materialIDs []uuid.UUID) ([]int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(dbc.Ctx).
		Model(&types.DataYear{}).
		Distinct("year").
		Order("year ASC")
	if indicatorID != nil {
		query = query.Where("indicator_id = ?", *indicatorID)
	}
	if len(materialIDs) > 0 {
		query = query.Where("material_id IN ?", materialIDs)
	}

	var years []int
	if err := query.Pluck("year", &years).Error; err != nil {
		return nil, err
	}
	return years, nil
}
