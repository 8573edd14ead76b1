package services

import (
	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// ClosestAvailableYear picks the year to read source data from: the
// requested year if present, otherwise the greatest earlier year, otherwise
// the smallest later one. ok is false when nothing is available at all.
func ClosestAvailableYear(available []int, year int) (closest int, ok bool) {
	if len(available) == 0 {
		return 0, false
	}

	bestEarlier, haveEarlier := 0, false
	bestLater, haveLater := 0, false
	for _, candidate := range available {
		if candidate == year {
			return candidate, true
		}
		if candidate < year {
			if !haveEarlier || candidate > bestEarlier {
				bestEarlier = candidate
				haveEarlier = true
			}
			continue
		}
		if !haveLater || candidate < bestLater {
			bestLater = candidate
			haveLater = true
		}
	}
	if haveEarlier {
		return bestEarlier, true
	}
	return bestLater, true
}

type YearsService interface {
	GetClosestAvailableYear(dbc dbctx.Context, indicatorID *uuid.UUID, materialIDs []uuid.UUID, year int) (int, bool, error)
	GetAvailableYears(dbc dbctx.Context, indicatorID *uuid.UUID, materialIDs []uuid.UUID) ([]int, error)
}

type yearsService struct {
	dataYears repos.DataYearRepo
	log       *logger.Logger
}

func NewYearsService(dataYears repos.DataYearRepo, baseLog *logger.Logger) YearsService {
	return &yearsService{
		dataYears: dataYears,
		log:       baseLog.With("service", "YearsService"),
	}
}

func (s *yearsService) GetClosestAvailableYear(dbc dbctx.Context, indicatorID *uuid.UUID, materialIDs []uuid.UUID, year int) (int, bool, error) {
	available, err := s.dataYears.GetAvailableYears(dbc, indicatorID, materialIDs)
	if err != nil {
		return 0, false, err
	}
	closest, ok := ClosestAvailableYear(available, year)
	return closest, ok, nil
}

func (s *yearsService) GetAvailableYears(dbc dbctx.Context, indicatorID *uuid.UUID, materialIDs []uuid.UUID) ([]int, error) {
	return s.dataYears.GetAvailableYears(dbc, indicatorID, materialIDs)
}
