package catalog

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

type AdminRegionRepo interface {
	Create(dbc dbctx.Context, regions []*types.AdminRegion) ([]*types.AdminRegion, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AdminRegion, error)
	// GetCountryByName resolves a level 0 region by its exact name.
	GetCountryByName(dbc dbctx.Context, name string) (*types.AdminRegion, error)
	GetByNameAndLevel(dbc dbctx.Context, name string, level int) (*types.AdminRegion, error)
	// GetClosestByCoordinates returns the region whose centroid is nearest
	// to the given point, preferring the deepest admin level available.
	GetClosestByCoordinates(dbc dbctx.Context, lat, lng float64) (*types.AdminRegion, error)
	FindAll(dbc dbctx.Context) ([]*types.AdminRegion, error)
}

type adminRegionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminRegionRepo(db *gorm.DB, baseLog *logger.Logger) AdminRegionRepo {
	repoLog := baseLog.With("repo", "AdminRegionRepo")
	return &adminRegionRepo{db: db, log: repoLog}
}

func (r *adminRegionRepo) Create(dbc dbctx.Context, regions []*types.AdminRegion) ([]*types.AdminRegion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(regions) == 0 {
		return []*types.AdminRegion{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *adminRegionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AdminRegion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.AdminRegion
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *adminRegionRepo) GetCountryByName(dbc dbctx.Context, name string) (*types.AdminRegion, error) {
	return r.GetByNameAndLevel(dbc, name, 0)
}

func (r *adminRegionRepo) GetByNameAndLevel(dbc dbctx.Context, name string, level int) (*types.AdminRegion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.AdminRegion
	if err := transaction.WithContext(dbc.Ctx).
		Where("name = ? AND level = ?", name, level).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admin region %q at level %d: %w", name, level, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (r *adminRegionRepo) GetClosestByCoordinates(dbc dbctx.Context, lat, lng float64) (*types.AdminRegion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.AdminRegion
	err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT *
		FROM admin_region
		WHERE deleted_at IS NULL
		ORDER BY level DESC,
			((latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?)) ASC
		LIMIT 1`, lat, lat, lng, lng).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	if result.ID == uuid.Nil {
		return nil, fmt.Errorf("no admin region found for coordinates %f, %f: %w", lat, lng, pkgerrors.ErrNotFound)
	}
	return &result, nil
}

func (r *adminRegionRepo) FindAll(dbc dbctx.Context) ([]*types.AdminRegion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AdminRegion
	if err := transaction.WithContext(dbc.Ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
