package action

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]DocumentAction, error)
	FindByID(ctx context.Context, id uint64) (*DocumentAction, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]DocumentAction, error) {
	var actions []DocumentAction
	err := r.db.WithContext(ctx).Order("name ASC").Find(&actions).Error
	return actions, err
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id uint64) (*DocumentAction, error) {
	var a DocumentAction
	err := r.db.WithContext(ctx).First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
