package sourcing

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type ImpactGroupBy string

const (
	GroupByMaterial     ImpactGroupBy = "material"
	GroupByBusinessUnit ImpactGroupBy = "business-unit"
	GroupBySupplier     ImpactGroupBy = "supplier"
	GroupByRegion       ImpactGroupBy = "region"
	GroupByLocationType ImpactGroupBy = "location-type"
)

type ImpactTableQuery struct {
	IndicatorIDs []uuid.UUID
	StartYear    int
	EndYear      int
	GroupBy      ImpactGroupBy
	// ScenarioID switches the query from actual sourcing rows to the rows
	// created by the scenario's interventions.
	ScenarioID *uuid.UUID
}

// ImpactTableRow is one aggregated impact value: indicator x entity x year.
// TypeByIntervention is set only on scenario rows.
type ImpactTableRow struct {
	IndicatorID        uuid.UUID `json:"indicator_id"`
	Year               int       `json:"year"`
	Name               string    `json:"name"`
	ParentName         *string   `json:"parent_name,omitempty"`
	Impact             float64   `json:"impact"`
	TypeByIntervention *string   `json:"type_by_intervention,omitempty"`
}

type TonnageByYear struct {
	Year    int     `json:"year"`
	Tonnage float64 `json:"tonnage"`
}

type ImpactDataRepo interface {
	GetImpactTableRows(dbc dbctx.Context, q ImpactTableQuery) ([]ImpactTableRow, error)
	GetPurchasedTonnageByYear(dbc dbctx.Context, startYear, endYear int) ([]TonnageByYear, error)
}

type impactDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImpactDataRepo(db *gorm.DB, baseLog *logger.Logger) ImpactDataRepo {
	repoLog := baseLog.With("repo", "ImpactDataRepo")
	return &impactDataRepo{db: db, log: repoLog}
}

func (r *impactDataRepo) GetImpactTableRows(dbc dbctx.Context, q ImpactTableQuery) ([]ImpactTableRow, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	entityJoin, nameExpr, parentExpr, err := groupByClauses(q.GroupBy)
	if err != nil {
		return nil, err
	}

	scenarioFilter := "sl.scenario_intervention_id IS NULL"
	args := []interface{}{}
	if q.ScenarioID != nil {
		scenarioFilter = `sl.scenario_intervention_id IN (
			SELECT id FROM scenario_intervention WHERE scenario_id = ? AND deleted_at IS NULL)`
		args = append(args, *q.ScenarioID)
	}

	query := fmt.Sprintf(`
		SELECT ir.indicator_id AS indicator_id,
			sr.year AS year,
			%s AS name,
			%s AS parent_name,
			SUM(ir.value) AS impact,
			MAX(sl.intervention_type) AS type_by_intervention
		FROM indicator_record ir
		JOIN sourcing_record sr ON sr.id = ir.sourcing_record_id
		JOIN sourcing_location sl ON sl.id = sr.sourcing_location_id
		%s
		WHERE ir.deleted_at IS NULL
			AND sr.deleted_at IS NULL
			AND sl.deleted_at IS NULL
			AND ir.indicator_id IN ?
			AND sr.year BETWEEN ? AND ?
			AND %s
		GROUP BY ir.indicator_id, sr.year, name, parent_name
		ORDER BY name ASC, sr.year ASC`,
		nameExpr, parentExpr, entityJoin, scenarioFilter)

	queryArgs := append([]interface{}{q.IndicatorIDs, q.StartYear, q.EndYear}, args...)

	var results []ImpactTableRow
	if err := transaction.WithContext(dbc.Ctx).Raw(query, queryArgs...).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *impactDataRepo) GetPurchasedTonnageByYear(dbc dbctx.Context, startYear, endYear int) ([]TonnageByYear, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []TonnageByYear
	err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT sr.year AS year, SUM(sr.tonnage) AS tonnage
		FROM sourcing_record sr
		JOIN sourcing_location sl ON sl.id = sr.sourcing_location_id
		WHERE sr.deleted_at IS NULL
			AND sl.deleted_at IS NULL
			AND sl.scenario_intervention_id IS NULL
			AND sr.year BETWEEN ? AND ?
		GROUP BY sr.year
		ORDER BY sr.year ASC`, startYear, endYear).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func groupByClauses(groupBy ImpactGroupBy) (entityJoin, nameExpr, parentExpr string, err error) {
	switch groupBy {
	case GroupByMaterial:
		return `JOIN material g ON g.id = sl.material_id
			LEFT JOIN material gp ON gp.id = g.parent_id`,
			"g.name", "gp.name", nil
	case GroupByBusinessUnit:
		return `JOIN business_unit g ON g.id = sl.business_unit_id
			LEFT JOIN business_unit gp ON gp.id = g.parent_id`,
			"g.name", "gp.name", nil
	case GroupBySupplier:
		return `JOIN supplier g ON g.id = sl.t1_supplier_id
			LEFT JOIN supplier gp ON gp.id = g.parent_id`,
			"g.name", "gp.name", nil
	case GroupByRegion:
		return `JOIN admin_region g ON g.id = sl.admin_region_id
			LEFT JOIN admin_region gp ON gp.id = g.parent_id`,
			"g.name", "gp.name", nil
	case GroupByLocationType:
		return "", "sl.location_type", "NULL", nil
	default:
		return "", "", "", fmt.Errorf("unsupported group by %q: %w", groupBy, pkgerrors.ErrInvalidArgument)
	}
}
