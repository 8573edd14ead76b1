package catalog

import (
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

// Radius of the buffer drawn around aggregation point coordinates.
const aggregationPointRadiusMeters = 50000

type GeoRegionRepo interface {
	SaveAsPoint(dbc dbctx.Context, name string, lat, lng float64) (*types.GeoRegion, error)
	SaveAsRadius(dbc dbctx.Context, name string, lat, lng float64) (*types.GeoRegion, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GeoRegion, error)
	// DeleteByID removes a region for good. Used to undo a region created
	// earlier in a geocoding step that failed further down.
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
	DeleteCreatedByUser(dbc dbctx.Context) error
}

type geoRegionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGeoRegionRepo(db *gorm.DB, baseLog *logger.Logger) GeoRegionRepo {
	repoLog := baseLog.With("repo", "GeoRegionRepo")
	return &geoRegionRepo{db: db, log: repoLog}
}

func (r *geoRegionRepo) SaveAsPoint(dbc dbctx.Context, name string, lat, lng float64) (*types.GeoRegion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	region := &types.GeoRegion{
		ID:            uuid.New(),
		Name:          name,
		Geometry:      pointGeometry(lat, lng),
		IsPoint:       true,
		CreatedByUser: true,
	}
	if err := transaction.WithContext(dbc.Ctx).Create(region).Error; err != nil {
		return nil, err
	}
	return region, nil
}

func (r *geoRegionRepo) SaveAsRadius(dbc dbctx.Context, name string, lat, lng float64) (*types.GeoRegion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	region := &types.GeoRegion{
		ID:            uuid.New(),
		Name:          name,
		Geometry:      pointGeometry(lat, lng),
		RadiusMeters:  aggregationPointRadiusMeters,
		CreatedByUser: true,
	}
	if err := transaction.WithContext(dbc.Ctx).Create(region).Error; err != nil {
		return nil, err
	}
	return region, nil
}

func (r *geoRegionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GeoRegion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.GeoRegion
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

func (r *geoRegionRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("id = ?", id).
		Delete(&types.GeoRegion{}).Error
}

func (r *geoRegionRepo) DeleteCreatedByUser(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("is_created_by_user = ?", true).
		Delete(&types.GeoRegion{}).Error
}

func pointGeometry(lat, lng float64) datatypes.JSON {
	geom := fmt.Sprintf(`{"type":"Point","coordinates":[%g,%g]}`, lng, lat)
	return datatypes.JSON([]byte(geom))
}
