package db

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
)

//go:embed indicators.yaml
var indicatorCatalog []byte

type indicatorSeed struct {
	Name        string `yaml:"name"`
	ShortName   string `yaml:"short_name"`
	NameCode    string `yaml:"name_code"`
	Unit        string `yaml:"unit"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
}

type seedFile struct {
	Indicators []indicatorSeed `yaml:"indicators"`
}

// SeedIndicators upserts the built-in indicator catalog keyed by name code.
// Safe to run on every boot.
func SeedIndicators(db *gorm.DB) error {
	var file seedFile
	if err := yaml.Unmarshal(indicatorCatalog, &file); err != nil {
		return fmt.Errorf("failed to parse indicator catalog: %w", err)
	}

	for _, seed := range file.Indicators {
		status := types.IndicatorActive
		if seed.Status == string(types.IndicatorInactive) {
			status = types.IndicatorInactive
		}
		indicator := types.Indicator{
			Name:        seed.Name,
			ShortName:   seed.ShortName,
			NameCode:    types.IndicatorType(seed.NameCode),
			Unit:        seed.Unit,
			Description: seed.Description,
			Status:      status,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "short_name", "unit", "description"}),
		}).Create(&indicator).Error
		if err != nil {
			return fmt.Errorf("failed to seed indicator %s: %w", seed.NameCode, err)
		}
	}
	return nil
}
