package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type BusinessUnitRepo interface {
	// CreateTree persists the hierarchy and returns the id of every node
	// keyed by its dotted name path ("parent.child").
	CreateTree(dbc dbctx.Context, nodes []TreeNode) (map[string]uuid.UUID, error)
	FindAll(dbc dbctx.Context) ([]*types.BusinessUnit, error)
	ClearTable(dbc dbctx.Context) error
}

type businessUnitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBusinessUnitRepo(db *gorm.DB, baseLog *logger.Logger) BusinessUnitRepo {
	repoLog := baseLog.With("repo", "BusinessUnitRepo")
	return &businessUnitRepo{db: db, log: repoLog}
}

func (r *businessUnitRepo) CreateTree(dbc dbctx.Context, nodes []TreeNode) (map[string]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	byPath := make(map[string]uuid.UUID)
	if err := r.createLevel(dbc, transaction, nodes, nil, "", "", byPath); err != nil {
		return nil, err
	}
	return byPath, nil
}

func (r *businessUnitRepo) createLevel(dbc dbctx.Context, tx *gorm.DB, nodes []TreeNode, parentID *uuid.UUID, parentMpath, parentNamePath string, byPath map[string]uuid.UUID) error {
	for _, node := range nodes {
		unit := &types.BusinessUnit{
			ID:       uuid.New(),
			ParentID: parentID,
			Name:     node.Name,
		}
		unit.Mpath = parentMpath + unit.ID.String() + "."
		if err := tx.WithContext(dbc.Ctx).Create(unit).Error; err != nil {
			return err
		}

		namePath := node.Name
		if parentNamePath != "" {
			namePath = parentNamePath + PathSeparator + node.Name
		}
		byPath[namePath] = unit.ID

		id := unit.ID
		if err := r.createLevel(dbc, tx, node.Children, &id, unit.Mpath, namePath, byPath); err != nil {
			return err
		}
	}
	return nil
}

func (r *businessUnitRepo) FindAll(dbc dbctx.Context) ([]*types.BusinessUnit, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BusinessUnit
	if err := transaction.WithContext(dbc.Ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *businessUnitRepo) ClearTable(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&types.BusinessUnit{}).Error
}
