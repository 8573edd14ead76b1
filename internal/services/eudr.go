package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/eudr"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// BreakdownEntry is one material or origin slice of the EUDR dashboard:
// how many distinct suppliers source through it and how their plots and
// satellite alerts break down. DFS/SDA/TPL count suppliers with at least
// one alert of that type, not the alerts themselves.
type BreakdownEntry struct {
	Name              string `json:"name"`
	Suppliers         int    `json:"suppliers"`
	PlotsWithGeometry int    `json:"plots_with_geometry"`
	PlotsMissing      int    `json:"plots_missing_geometry"`
	DFS               int    `json:"dfs"`
	SDA               int    `json:"sda"`
	TPL               int    `json:"tpl"`
}

type EUDRDashboard struct {
	ByMaterial []BreakdownEntry `json:"by_material"`
	ByOrigin   []BreakdownEntry `json:"by_origin"`
}

type EUDRDashboardService interface {
	GetDashboard(dbc dbctx.Context) (*EUDRDashboard, error)
}

type eudrDashboardService struct {
	alerts repos.EUDRAlertRepo
	log    *logger.Logger
}

func NewEUDRDashboardService(alerts repos.EUDRAlertRepo, baseLog *logger.Logger) EUDRDashboardService {
	return &eudrDashboardService{
		alerts: alerts,
		log:    baseLog.With("service", "EUDRDashboardService"),
	}
}

func (s *eudrDashboardService) GetDashboard(dbc dbctx.Context) (*EUDRDashboard, error) {
	var sourcingRows []eudr.SourcingRow
	var summaries []eudr.AlertSummary

	group, ctx := errgroup.WithContext(contextOrBackground(dbc))
	group.Go(func() error {
		var err error
		sourcingRows, err = s.alerts.GetSourcingRows(dbctx.Context{Ctx: ctx, Tx: dbc.Tx})
		return err
	})
	group.Go(func() error {
		var err error
		summaries, err = s.alerts.GetAlertSummaries(dbctx.Context{Ctx: ctx, Tx: dbc.Tx})
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	alertsBySupplier := make(map[string]eudr.AlertSummary, len(summaries))
	for _, summary := range summaries {
		alertsBySupplier[summary.SupplierID.String()] = summary
	}

	byMaterial := newBreakdownBuilder()
	byOrigin := newBreakdownBuilder()
	for _, row := range sourcingRows {
		alertData := alertsBySupplier[row.SupplierID.String()]
		byMaterial.add(row.MaterialName, row, alertData)
		originName := row.AdminRegionName
		if originName == "" {
			originName = "Unknown"
		}
		byOrigin.add(originName, row, alertData)
	}

	return &EUDRDashboard{
		ByMaterial: byMaterial.entries(),
		ByOrigin:   byOrigin.entries(),
	}, nil
}

// breakdownBuilder accumulates one dashboard dimension. Suppliers are
// deduplicated per entry since one supplier can appear in many rows.
type breakdownBuilder struct {
	byName map[string]*BreakdownEntry
	seen   map[string]map[string]bool
}

func newBreakdownBuilder() *breakdownBuilder {
	return &breakdownBuilder{
		byName: map[string]*BreakdownEntry{},
		seen:   map[string]map[string]bool{},
	}
}

func (b *breakdownBuilder) add(name string, row eudr.SourcingRow, alertData eudr.AlertSummary) {
	entry, ok := b.byName[name]
	if !ok {
		entry = &BreakdownEntry{Name: name}
		b.byName[name] = entry
		b.seen[name] = map[string]bool{}
	}

	if row.GeoRegionCount > 0 {
		entry.PlotsWithGeometry += row.GeoRegionCount
	}

	supplierKey := row.SupplierID.String()
	if b.seen[name][supplierKey] {
		return
	}
	b.seen[name][supplierKey] = true
	entry.Suppliers++
	if row.GeoRegionCount == 0 {
		entry.PlotsMissing++
	}
	if alertData.DFS > 0 {
		entry.DFS++
	}
	if alertData.SDA > 0 {
		entry.SDA++
	}
	if alertData.TPL > 0 {
		entry.TPL++
	}
}

func (b *breakdownBuilder) entries() []BreakdownEntry {
	result := make([]BreakdownEntry, 0, len(b.byName))
	for _, entry := range b.byName {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func contextOrBackground(dbc dbctx.Context) context.Context {
	if dbc.Ctx != nil {
		return dbc.Ctx
	}
	return context.Background()
}
