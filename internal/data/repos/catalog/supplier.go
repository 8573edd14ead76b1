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

type SupplierRepo interface {
	CreateTree(dbc dbctx.Context, nodes []TreeNode) (map[string]uuid.UUID, error)
	GetByName(dbc dbctx.Context, name string) (*types.Supplier, error)
	FindAll(dbc dbctx.Context) ([]*types.Supplier, error)
	ClearTable(dbc dbctx.Context) error
}

type supplierRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupplierRepo(db *gorm.DB, baseLog *logger.Logger) SupplierRepo {
	repoLog := baseLog.With("repo", "SupplierRepo")
	return &supplierRepo{db: db, log: repoLog}
}

func (r *supplierRepo) CreateTree(dbc dbctx.Context, nodes []TreeNode) (map[string]uuid.UUID, error) {
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

func (r *supplierRepo) createLevel(dbc dbctx.Context, tx *gorm.DB, nodes []TreeNode, parentID *uuid.UUID, parentMpath, parentNamePath string, byPath map[string]uuid.UUID) error {
	for _, node := range nodes {
		supplier := &types.Supplier{
			ID:       uuid.New(),
			ParentID: parentID,
			Name:     node.Name,
		}
		supplier.Mpath = parentMpath + supplier.ID.String() + "."
		if err := tx.WithContext(dbc.Ctx).Create(supplier).Error; err != nil {
			return err
		}

		namePath := node.Name
		if parentNamePath != "" {
			namePath = parentNamePath + PathSeparator + node.Name
		}
		byPath[namePath] = supplier.ID

		id := supplier.ID
		if err := r.createLevel(dbc, tx, node.Children, &id, supplier.Mpath, namePath, byPath); err != nil {
			return err
		}
	}
	return nil
}

func (r *supplierRepo) GetByName(dbc dbctx.Context, name string) (*types.Supplier, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Supplier
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

func (r *supplierRepo) FindAll(dbc dbctx.Context) ([]*types.Supplier, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Supplier
	if err := transaction.WithContext(dbc.Ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supplierRepo) ClearTable(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&types.Supplier{}).Error
}
