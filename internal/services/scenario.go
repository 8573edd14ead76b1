package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type CreateScenarioDTO struct {
	Title       string
	Description string
	IsPublic    bool
}

type ScenarioService interface {
	CreateScenario(dbc dbctx.Context, dto CreateScenarioDTO) (*types.Scenario, error)
	GetScenario(dbc dbctx.Context, id uuid.UUID) (*types.Scenario, error)
	ListScenarios(dbc dbctx.Context) ([]*types.Scenario, error)
	ListInterventions(dbc dbctx.Context, scenarioID uuid.UUID) ([]*types.ScenarioIntervention, error)
}

type scenarioService struct {
	scenarios     repos.ScenarioRepo
	interventions repos.InterventionRepo
	log           *logger.Logger
}

func NewScenarioService(scenarios repos.ScenarioRepo, interventions repos.InterventionRepo, baseLog *logger.Logger) ScenarioService {
	return &scenarioService{
		scenarios:     scenarios,
		interventions: interventions,
		log:           baseLog.With("service", "ScenarioService"),
	}
}

func (s *scenarioService) CreateScenario(dbc dbctx.Context, dto CreateScenarioDTO) (*types.Scenario, error) {
	if dto.Title == "" {
		return nil, fmt.Errorf("scenario title is required")
	}
	return s.scenarios.Create(dbc, &types.Scenario{
		Title:       dto.Title,
		Description: dto.Description,
		IsPublic:    dto.IsPublic,
	})
}

func (s *scenarioService) GetScenario(dbc dbctx.Context, id uuid.UUID) (*types.Scenario, error) {
	return s.scenarios.GetByID(dbc, id)
}

func (s *scenarioService) ListScenarios(dbc dbctx.Context) ([]*types.Scenario, error) {
	return s.scenarios.FindAll(dbc)
}

func (s *scenarioService) ListInterventions(dbc dbctx.Context, scenarioID uuid.UUID) ([]*types.ScenarioIntervention, error) {
	if _, err := s.scenarios.GetByID(dbc, scenarioID); err != nil {
		return nil, err
	}
	return s.interventions.GetByScenarioID(dbc, scenarioID)
}
