package sourcing

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type SourcingRecordGroupRepo interface {
	Create(dbc dbctx.Context, group *types.SourcingRecordGroup) (*types.SourcingRecordGroup, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SourcingRecordGroup, error)
	ClearTable(dbc dbctx.Context) error
}

type sourcingRecordGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourcingRecordGroupRepo(db *gorm.DB, baseLog *logger.Logger) SourcingRecordGroupRepo {
	repoLog := baseLog.With("repo", "SourcingRecordGroupRepo")
	return &sourcingRecordGroupRepo{db: db, log: repoLog}
}

func (r *sourcingRecordGroupRepo) Create(dbc dbctx.Context, group *types.SourcingRecordGroup) (*types.SourcingRecordGroup, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (r *sourcingRecordGroupRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SourcingRecordGroup, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.SourcingRecordGroup
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

func (r *sourcingRecordGroupRepo) ClearTable(dbc dbctx.Context) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&types.SourcingRecordGroup{}).Error
}
