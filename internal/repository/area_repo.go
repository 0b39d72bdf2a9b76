package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/internal/model"
)

type AreaRepository struct {
	db *gorm.DB
}

func NewAreaRepository(db *gorm.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

func (r *AreaRepository) Create(area *model.Area) error {
	return r.db.Create(area).Error
}

func (r *AreaRepository) GetByID(id int64) (*model.Area, error) {
	var area model.Area
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&area).Error
	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *AreaRepository) List(page, pageSize int) ([]*model.Area, int64, error) {
	var areas []*model.Area
	var total int64

	query := r.db.Model(&model.Area{}).Where("is_deleted = ?", false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&areas).Error
	if err != nil {
		return nil, 0, err
	}

	return areas, total, nil
}

func (r *AreaRepository) Update(area *model.Area) error {
	return r.db.Save(area).Error
}

func (r *AreaRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Area{}).Where("id = ?", id).Updates(fields).Error
}

// SoftDelete 软删除；区域不做物理删除，历史时段仍可关联查询
func (r *AreaRepository) SoftDelete(id int64) error {
	return r.db.Model(&model.Area{}).Where("id = ?", id).
		Update("is_deleted", true).Error
}
