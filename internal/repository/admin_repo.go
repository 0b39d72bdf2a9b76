package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/internal/model"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(admin *model.Admin) error {
	return r.db.Create(admin).Error
}

func (r *AdminRepository) GetByID(id int64) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.Where("id = ?", id).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) GetByPhone(phone string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.Where("phone = ?", phone).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
