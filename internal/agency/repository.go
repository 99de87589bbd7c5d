package agency

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]Agency, error)
	FindByID(ctx context.Context, id uint64) (*Agency, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Agency, error) {
	var agencies []Agency
	err := r.db.WithContext(ctx).Order("name ASC").Find(&agencies).Error
	return agencies, err
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id uint64) (*Agency, error) {
	var a Agency
	err := r.db.WithContext(ctx).First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
