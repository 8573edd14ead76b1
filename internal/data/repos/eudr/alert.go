package eudr

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// SourcingRow is one EUDR sourcing location flattened for the dashboard:
// the supplier, what it supplies, where from, and how many plot geometries
// it declared.
type SourcingRow struct {
	SupplierID      uuid.UUID  `json:"supplier_id"`
	SupplierName    string     `json:"supplier_name"`
	MaterialID      uuid.UUID  `json:"material_id"`
	MaterialName    string     `json:"material_name"`
	AdminRegionID   *uuid.UUID `json:"admin_region_id"`
	AdminRegionName string     `json:"admin_region_name"`
	GeoRegionCount  int        `json:"geo_region_count"`
}

// AlertSummary is the per-supplier rollup of satellite alert counts.
type AlertSummary struct {
	SupplierID uuid.UUID `json:"supplier_id"`
	DFS        int       `json:"dfs"`
	SDA        int       `json:"sda"`
	TPL        int       `json:"tpl"`
}

type AlertRepo interface {
	Create(dbc dbctx.Context, alerts []*types.EUDRAlert) ([]*types.EUDRAlert, error)
	GetSourcingRows(dbc dbctx.Context) ([]SourcingRow, error)
	GetAlertSummaries(dbc dbctx.Context) ([]AlertSummary, error)
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	repoLog := baseLog.With("repo", "EUDRAlertRepo")
	return &alertRepo{db: db, log: repoLog}
}

func (r *alertRepo) Create(dbc dbctx.Context, alerts []*types.EUDRAlert) ([]*types.EUDRAlert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(alerts) == 0 {
		return []*types.EUDRAlert{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepo) GetSourcingRows(dbc dbctx.Context) ([]SourcingRow, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []SourcingRow
	err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT s.id AS supplier_id,
			s.name AS supplier_name,
			m.id AS material_id,
			m.name AS material_name,
			ar.id AS admin_region_id,
			COALESCE(ar.name, '') AS admin_region_name,
			COUNT(sl.geo_region_id) AS geo_region_count
		FROM sourcing_location sl
		JOIN supplier s ON s.id = sl.producer_id
		JOIN material m ON m.id = sl.material_id
		LEFT JOIN admin_region ar ON ar.id = sl.admin_region_id
		WHERE sl.location_type = ?
			AND sl.deleted_at IS NULL
		GROUP BY s.id, s.name, m.id, m.name, ar.id, ar.name`,
		types.LocationEUDR).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *alertRepo) GetAlertSummaries(dbc dbctx.Context) ([]AlertSummary, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []AlertSummary
	err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT supplier_id,
			SUM(dfs) AS dfs,
			SUM(sda) AS sda,
			SUM(tpl) AS tpl
		FROM eudr_alert
		GROUP BY supplier_id`).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
