package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/model"
	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/repository"
)

var (
	ErrUserNotFound = errors.New("用户不存在")
	ErrPhoneExists  = errors.New("手机号已被注册")
)

type UserService struct {
	userRepo *repository.UserRepository
	areaRepo *repository.AreaRepository
	cfg      *config.Config
}

func NewUserService(userRepo *repository.UserRepository, areaRepo *repository.AreaRepository, cfg *config.Config) *UserService {
	return &UserService{
		userRepo: userRepo,
		areaRepo: areaRepo,
		cfg:      cfg,
	}
}

// Create 管理员创建居民。未指定默认水量时使用配置默认值。
func (s *UserService) Create(req *dto.CreateUserRequest) (*dto.UserInfo, error) {
	exists, err := s.userRepo.ExistsByPhone(req.Phone, req.CountryCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPhoneExists
	}

	if _, err := s.areaRepo.GetByID(req.AreaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}

	quantity := req.WaterQuantity
	if quantity == 0 {
		quantity = s.cfg.Delivery.DefaultWaterQuantity
	}

	user := &model.User{
		Name:          req.Name,
		Phone:         req.Phone,
		CountryCode:   req.CountryCode,
		AreaID:        req.AreaID,
		AddressLine:   req.AddressLine,
		Landmark:      req.Landmark,
		WaterQuantity: quantity,
		Enabled:       true,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.buildUserInfo(user), nil
}

// Get 查询居民
func (s *UserService) Get(id int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildUserInfo(user), nil
}

// ListByArea 按区域分页查询居民（管理端）
func (s *UserService) ListByArea(areaID int64, page, pageSize int) ([]*dto.UserInfo, int64, error) {
	users, total, err := s.userRepo.ListByArea(areaID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, s.buildUserInfo(user))
	}
	return infos, total, nil
}

// Update 管理员更新居民
func (s *UserService) Update(id int64, req *dto.UpdateUserRequest) (*dto.UserInfo, error) {
	if _, err := s.userRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.AreaID != nil {
		if _, err := s.areaRepo.GetByID(*req.AreaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAreaNotFound
			}
			return nil, err
		}
		fields["area_id"] = *req.AreaID
	}
	if req.AddressLine != nil {
		fields["address_line"] = *req.AddressLine
	}
	if req.Landmark != nil {
		fields["landmark"] = *req.Landmark
	}
	if req.WaterQuantity != nil {
		fields["water_quantity"] = *req.WaterQuantity
	}
	if req.Enabled != nil {
		fields["enabled"] = *req.Enabled
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	return s.Get(id)
}

// UpdateProfile 居民更新个人资料
func (s *UserService) UpdateProfile(id int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	update := &dto.UpdateUserRequest{
		Name:          req.Name,
		Email:         req.Email,
		AddressLine:   req.AddressLine,
		Landmark:      req.Landmark,
		WaterQuantity: req.WaterQuantity,
	}
	return s.Update(id, update)
}

// Delete 软删除居民
func (s *UserService) Delete(id int64) error {
	if _, err := s.userRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.SoftDelete(id)
}

func (s *UserService) buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:            user.ID,
		Name:          user.Name,
		Phone:         user.Phone,
		CountryCode:   user.CountryCode,
		AreaID:        user.AreaID,
		AddressLine:   user.AddressLine,
		Landmark:      user.Landmark,
		WaterQuantity: user.WaterQuantity,
		Enabled:       user.Enabled,
		Verified:      user.Verified,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	if user.Area != nil {
		info.AreaName = user.Area.Name
	}
	return info
}
