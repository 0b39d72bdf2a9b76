package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByPhone(phone, countryCode string) (*model.User, error) {
	var user model.User
	err := r.db.Where("phone = ? AND country_code = ? AND is_deleted = ?",
		phone, countryCode, false).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListEnrollableByArea 列出区域内可自动订阅的居民（启用且未删除）
func (r *UserRepository) ListEnrollableByArea(areaID int64) ([]*model.User, error) {
	var users []*model.User
	err := r.db.Where("area_id = ? AND enabled = ? AND is_deleted = ?",
		areaID, true, false).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) ListByArea(areaID int64, page, pageSize int) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64

	query := r.db.Model(&model.User{}).Where("area_id = ? AND is_deleted = ?", areaID, false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) SoftDelete(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *UserRepository) ExistsByPhone(phone, countryCode string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("phone = ? AND country_code = ? AND is_deleted = ?", phone, countryCode, false).
		Count(&count).Error
	return count > 0, err
}

// ListByIDs 按 ID 批量查询（通知 worker 使用）
func (r *UserRepository) ListByIDs(ids []int64) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*model.User
	err := r.db.Where("id IN ? AND is_deleted = ?", ids, false).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
