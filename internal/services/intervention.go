package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/sourcing"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/geocoding"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// CreateInterventionDTO describes which slice of the sourcing portfolio an
// intervention rewires and what replaces it.
type CreateInterventionDTO struct {
	ScenarioID      uuid.UUID
	Title           string
	Type            types.InterventionKind
	Description     string
	StartYear       int
	Percentage      float64
	MaterialIDs     []uuid.UUID
	BusinessUnitIDs []uuid.UUID
	SupplierIDs     []uuid.UUID
	AdminRegionIDs  []uuid.UUID
	NewMaterialID   *uuid.UUID
	NewT1SupplierID *uuid.UUID
	NewProducerID   *uuid.UUID
	NewLocationType types.LocationType
	NewCountryInput string
	NewAddressInput string
	NewLocationLat  *float64
	NewLocationLng  *float64
}

// InterventionService creates and removes scenario interventions. Creating
// one copies the matched sourcing locations as canceled rows with negated
// tonnage, adds the replacing rows, and computes indicator records for both.
type InterventionService interface {
	CreateIntervention(ctx context.Context, dto CreateInterventionDTO) (*types.ScenarioIntervention, error)
	DeleteIntervention(ctx context.Context, id uuid.UUID) error
	DeleteScenario(ctx context.Context, scenarioID uuid.UUID) error
}

type interventionService struct {
	db               *gorm.DB
	scenarios        repos.ScenarioRepo
	interventions    repos.InterventionRepo
	locations        repos.SourcingLocationRepo
	records          repos.SourcingRecordRepo
	indicatorRecords repos.IndicatorRecordRepo
	resolver         *geocoding.Resolver
	calculator       ImpactCalculatorService
	log              *logger.Logger
}

func NewInterventionService(
	db *gorm.DB,
	scenarios repos.ScenarioRepo,
	interventions repos.InterventionRepo,
	locations repos.SourcingLocationRepo,
	records repos.SourcingRecordRepo,
	indicatorRecords repos.IndicatorRecordRepo,
	resolver *geocoding.Resolver,
	calculator ImpactCalculatorService,
	baseLog *logger.Logger,
) InterventionService {
	return &interventionService{
		db:               db,
		scenarios:        scenarios,
		interventions:    interventions,
		locations:        locations,
		records:          records,
		indicatorRecords: indicatorRecords,
		resolver:         resolver,
		calculator:       calculator,
		log:              baseLog.With("service", "InterventionService"),
	}
}

func (s *interventionService) CreateIntervention(ctx context.Context, dto CreateInterventionDTO) (*types.ScenarioIntervention, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin intervention transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	if _, err := s.scenarios.GetByID(dbc, dto.ScenarioID); err != nil {
		return nil, err
	}

	matched, err := s.matchLocations(dbc, dto)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("no sourcing locations match the intervention filters")
	}

	percentage := dto.Percentage
	if percentage == 0 {
		percentage = 100
	}
	intervention, err := s.interventions.Create(dbc, &types.ScenarioIntervention{
		ScenarioID:      dto.ScenarioID,
		Title:           dto.Title,
		Type:            dto.Type,
		Description:     dto.Description,
		StartYear:       dto.StartYear,
		Percentage:      percentage,
		NewMaterialID:   dto.NewMaterialID,
		NewT1SupplierID: dto.NewT1SupplierID,
		NewProducerID:   dto.NewProducerID,
		NewCountryInput: dto.NewCountryInput,
		NewAddressInput: dto.NewAddressInput,
		NewLocationLat:  dto.NewLocationLat,
		NewLocationLng:  dto.NewLocationLng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create intervention: %w", err)
	}

	newLocations, newRecords, err := s.buildInterventionLocations(dbc, intervention, dto, matched, percentage)
	if err != nil {
		return nil, err
	}

	if _, err := s.locations.Create(dbc, newLocations); err != nil {
		return nil, fmt.Errorf("failed to save intervention sourcing locations: %w", err)
	}
	if _, err := s.records.Create(dbc, newRecords); err != nil {
		return nil, fmt.Errorf("failed to save intervention sourcing records: %w", err)
	}

	scopes := recordScopes(newLocations, newRecords)
	indicatorRecords, err := s.calculator.CalculateImpactsForScope(dbc, scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate intervention impacts: %w", err)
	}
	if _, err := s.indicatorRecords.CreateBulk(dbc, indicatorRecords); err != nil {
		return nil, fmt.Errorf("failed to save intervention indicator records: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit intervention transaction: %w", err)
	}
	committed = true

	s.log.Info("intervention created", "interventionID", intervention.ID,
		"scenarioID", dto.ScenarioID, "locations", len(newLocations))
	return intervention, nil
}

func (s *interventionService) DeleteIntervention(ctx context.Context, id uuid.UUID) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	if _, err := s.interventions.GetByID(dbc, id); err != nil {
		return err
	}
	if err := s.locations.DeleteByScenarioInterventionID(dbc, id); err != nil {
		return fmt.Errorf("failed to delete intervention sourcing data: %w", err)
	}
	if err := s.interventions.Delete(dbc, id); err != nil {
		return fmt.Errorf("failed to delete intervention: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// DeleteScenario removes the scenario with every intervention it holds and
// the sourcing data those interventions created.
func (s *interventionService) DeleteScenario(ctx context.Context, scenarioID uuid.UUID) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	if _, err := s.scenarios.GetByID(dbc, scenarioID); err != nil {
		return err
	}
	interventions, err := s.interventions.GetByScenarioID(dbc, scenarioID)
	if err != nil {
		return fmt.Errorf("failed to load scenario interventions: %w", err)
	}
	for _, intervention := range interventions {
		if err := s.locations.DeleteByScenarioInterventionID(dbc, intervention.ID); err != nil {
			return fmt.Errorf("failed to delete intervention sourcing data: %w", err)
		}
	}
	if err := s.interventions.DeleteByScenarioID(dbc, scenarioID); err != nil {
		return fmt.Errorf("failed to delete scenario interventions: %w", err)
	}
	if err := s.scenarios.Delete(dbc, scenarioID); err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	s.log.Info("scenario deleted", "scenarioID", scenarioID, "interventions", len(interventions))
	return nil
}

// matchLocations narrows the actual sourcing locations to the intervention
// filters. An empty filter matches everything.
func (s *interventionService) matchLocations(dbc dbctx.Context, dto CreateInterventionDTO) ([]*types.SourcingLocation, error) {
	all, err := s.locations.FindAllActual(dbc)
	if err != nil {
		return nil, fmt.Errorf("failed to load sourcing locations: %w", err)
	}

	materials := uuidSet(dto.MaterialIDs)
	businessUnits := uuidSet(dto.BusinessUnitIDs)
	suppliers := uuidSet(dto.SupplierIDs)
	adminRegions := uuidSet(dto.AdminRegionIDs)

	var matched []*types.SourcingLocation
	for _, location := range all {
		if len(materials) > 0 && !materials[location.MaterialID] {
			continue
		}
		if len(businessUnits) > 0 && (location.BusinessUnitID == nil || !businessUnits[*location.BusinessUnitID]) {
			continue
		}
		if len(suppliers) > 0 && !matchesSupplier(location, suppliers) {
			continue
		}
		if len(adminRegions) > 0 && (location.AdminRegionID == nil || !adminRegions[*location.AdminRegionID]) {
			continue
		}
		matched = append(matched, location)
	}
	return matched, nil
}

// buildInterventionLocations copies each matched location as a canceled row
// with negated tonnage from the start year on, plus the replacing rows the
// intervention type calls for.
func (s *interventionService) buildInterventionLocations(
	dbc dbctx.Context,
	intervention *types.ScenarioIntervention,
	dto CreateInterventionDTO,
	matched []*types.SourcingLocation,
	percentage float64,
) ([]*types.SourcingLocation, []*types.SourcingRecord, error) {
	matchedIDs := make([]uuid.UUID, 0, len(matched))
	for _, location := range matched {
		matchedIDs = append(matchedIDs, location.ID)
	}
	actualRecords, err := s.records.GetByLocationIDs(dbc, matchedIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sourcing records: %w", err)
	}
	recordsByLocation := make(map[uuid.UUID][]*types.SourcingRecord)
	for _, record := range actualRecords {
		recordsByLocation[record.SourcingLocationID] = append(recordsByLocation[record.SourcingLocationID], record)
	}

	var newLocations []*types.SourcingLocation
	var newRecords []*types.SourcingRecord
	canceled := types.InterventionSourcingLocationCanceled

	for _, location := range matched {
		canceledLocation := copyLocation(location, intervention.ID, &canceled)
		newLocations = append(newLocations, canceledLocation)

		replacingLocation := s.buildReplacingLocation(location, intervention, dto)
		if err := s.resolver.GeoCodeLocation(dbc, replacingLocation); err != nil {
			return nil, nil, fmt.Errorf("failed to geocode replacing location: %w", err)
		}
		newLocations = append(newLocations, replacingLocation)

		for _, record := range recordsByLocation[location.ID] {
			if record.Year < dto.StartYear {
				continue
			}
			moved := record.Tonnage * percentage / 100
			newRecords = append(newRecords,
				&types.SourcingRecord{
					ID:                 uuid.New(),
					SourcingLocationID: canceledLocation.ID,
					Year:               record.Year,
					Tonnage:            -moved,
				},
				&types.SourcingRecord{
					ID:                 uuid.New(),
					SourcingLocationID: replacingLocation.ID,
					Year:               record.Year,
					Tonnage:            moved,
				})
		}
	}
	return newLocations, newRecords, nil
}

// buildReplacingLocation applies the intervention to one matched location:
// a new material keeps the sourcing place, a new supplier or location moves
// it, a production efficiency change keeps everything.
func (s *interventionService) buildReplacingLocation(
	location *types.SourcingLocation,
	intervention *types.ScenarioIntervention,
	dto CreateInterventionDTO,
) *types.SourcingLocation {
	replacing := types.InterventionSourcingLocationReplacing
	replacement := copyLocation(location, intervention.ID, &replacing)

	switch dto.Type {
	case types.InterventionNewMaterial:
		if dto.NewMaterialID != nil {
			replacement.MaterialID = *dto.NewMaterialID
		}
	case types.InterventionNewSupplier:
		replacement.T1SupplierID = dto.NewT1SupplierID
		replacement.ProducerID = dto.NewProducerID
	}

	if dto.NewLocationType != "" {
		// A moved location is geocoded from scratch.
		replacement.LocationType = dto.NewLocationType
		replacement.LocationCountryInput = dto.NewCountryInput
		replacement.LocationAddressInput = dto.NewAddressInput
		replacement.LocationLatitude = dto.NewLocationLat
		replacement.LocationLongitude = dto.NewLocationLng
		replacement.AdminRegionID = nil
		replacement.GeoRegionID = nil
	}
	return replacement
}

func copyLocation(location *types.SourcingLocation, interventionID uuid.UUID, interventionType *types.InterventionType) *types.SourcingLocation {
	clone := *location
	clone.ID = uuid.New()
	clone.ScenarioInterventionID = &interventionID
	clone.InterventionType = interventionType
	return &clone
}

func recordScopes(locations []*types.SourcingLocation, records []*types.SourcingRecord) []sourcing.RecordScope {
	locationsByID := make(map[uuid.UUID]*types.SourcingLocation, len(locations))
	for _, location := range locations {
		locationsByID[location.ID] = location
	}
	scopes := make([]sourcing.RecordScope, 0, len(records))
	for _, record := range records {
		location := locationsByID[record.SourcingLocationID]
		if location == nil {
			continue
		}
		scopes = append(scopes, sourcing.RecordScope{
			SourcingRecordID: record.ID,
			Year:             record.Year,
			Tonnage:          record.Tonnage,
			MaterialID:       location.MaterialID,
			GeoRegionID:      location.GeoRegionID,
			AdminRegionID:    location.AdminRegionID,
		})
	}
	return scopes
}

func matchesSupplier(location *types.SourcingLocation, suppliers map[uuid.UUID]bool) bool {
	if location.T1SupplierID != nil && suppliers[*location.T1SupplierID] {
		return true
	}
	return location.ProducerID != nil && suppliers[*location.ProducerID]
}

func uuidSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
