package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type MaterialRepo interface {
	Create(dbc dbctx.Context, materials []*types.Material) ([]*types.Material, error)
	// CreateTree persists the hierarchy and returns the id of every node
	// keyed by its dotted name path ("parent.child").
	CreateTree(dbc dbctx.Context, nodes []TreeNode) (map[string]uuid.UUID, error)
	SetHsCodeID(dbc dbctx.Context, id uuid.UUID, hsCodeID string) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Material, error)
	GetByName(dbc dbctx.Context, name string) (*types.Material, error)
	GetByHsCodeID(dbc dbctx.Context, hsCodeID string) (*types.Material, error)
	FindAll(dbc dbctx.Context) ([]*types.Material, error)
	FindAllActive(dbc dbctx.Context) ([]*types.Material, error)
	ClearTable(dbc dbctx.Context) error
}

type materialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMaterialRepo(db *gorm.DB, baseLog *logger.Logger) MaterialRepo {
	repoLog := baseLog.With("repo", "MaterialRepo")
	return &materialRepo{db: db, log: repoLog}
}

func (r *materialRepo) Create(dbc dbctx.Context, materials []*types.Material) ([]*types.Material, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(materials) == 0 {
		return []*types.Material{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepo) CreateTree(dbc dbctx.Context, nodes []TreeNode) (map[string]uuid.UUID, error) {
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

func (r *materialRepo) createLevel(dbc dbctx.Context, tx *gorm.DB, nodes []TreeNode, parentID *uuid.UUID, parentMpath, parentNamePath string, byPath map[string]uuid.UUID) error {
	for _, node := range nodes {
		material := &types.Material{
			ID:       uuid.New(),
			ParentID: parentID,
			Name:     node.Name,
			Status:   "active",
		}
		material.Mpath = parentMpath + material.ID.String() + "."
		if err := tx.WithContext(dbc.Ctx).Create(material).Error; err != nil {
			return err
		}

		namePath := node.Name
		if parentNamePath != "" {
			namePath = parentNamePath + PathSeparator + node.Name
		}
		byPath[namePath] = material.ID

		id := material.ID
		if err := r.createLevel(dbc, tx, node.Children, &id, material.Mpath, namePath, byPath); err != nil {
			return err
		}
	}
	return nil
}

func (r *materialRepo) SetHsCodeID(dbc dbctx.Context, id uuid.UUID, hsCodeID string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Model(&types.Material{}).
		Where("id = ?", id).
		Update("hs_code_id", hsCodeID).Error
}

func (r *materialRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Material, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Material
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

func (r *materialRepo) GetByName(dbc dbctx.Context, name string) (*types.Material, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Material
	if err := transaction.WithContext(dbc.Ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *materialRepo) GetByHsCodeID(dbc dbctx.Context, hsCodeID string) (*types.Material, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Material
	if err := transaction.WithContext(dbc.Ctx).
		Where("hs_code_id = ?", hsCodeID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *materialRepo) FindAll(dbc dbctx.Context) ([]*types.Material, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Material
	if err := transaction.WithContext(dbc.Ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *materialRepo) FindAllActive(dbc dbctx.Context) ([]*types.Material, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Material
	if err := transaction.WithContext(dbc.Ctx).
		Where("status = ?", "active").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *materialRepo) ClearTable(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&types.Material{}).Error
}
