package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/internal/model"
	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/repository"
)

var ErrAreaNotFound = errors.New("配送区域不存在")

type AreaService struct {
	areaRepo *repository.AreaRepository
}

func NewAreaService(areaRepo *repository.AreaRepository) *AreaService {
	return &AreaService{areaRepo: areaRepo}
}

// Create 创建配送区域
func (s *AreaService) Create(req *dto.CreateAreaRequest) (*dto.AreaInfo, error) {
	area := &model.Area{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Pincode:     req.Pincode,
	}

	if err := s.areaRepo.Create(area); err != nil {
		return nil, err
	}

	return buildAreaInfo(area), nil
}

// Get 查询区域
func (s *AreaService) Get(id int64) (*dto.AreaInfo, error) {
	area, err := s.areaRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return buildAreaInfo(area), nil
}

// List 分页查询区域列表
func (s *AreaService) List(page, pageSize int) ([]*dto.AreaInfo, int64, error) {
	areas, total, err := s.areaRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.AreaInfo, 0, len(areas))
	for _, area := range areas {
		infos = append(infos, buildAreaInfo(area))
	}
	return infos, total, nil
}

// Update 更新区域
func (s *AreaService) Update(id int64, req *dto.UpdateAreaRequest) (*dto.AreaInfo, error) {
	if _, err := s.areaRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.Pincode != nil {
		fields["pincode"] = *req.Pincode
	}

	if len(fields) > 0 {
		if err := s.areaRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	return s.Get(id)
}

// Delete 软删除区域
func (s *AreaService) Delete(id int64) error {
	if _, err := s.areaRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAreaNotFound
		}
		return err
	}
	return s.areaRepo.SoftDelete(id)
}

func buildAreaInfo(area *model.Area) *dto.AreaInfo {
	return &dto.AreaInfo{
		ID:          area.ID,
		Name:        area.Name,
		Description: area.Description,
		City:        area.City,
		Pincode:     area.Pincode,
		CreatedAt:   area.CreatedAt.Format(time.RFC3339),
	}
}
