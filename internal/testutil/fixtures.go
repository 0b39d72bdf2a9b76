package testutil

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	fixtureSeq++
	return fixtureSeq
}

// TestArea 创建测试区域
func TestArea(t *testing.T, db *gorm.DB, opts ...func(*model.Area)) *model.Area {
	t.Helper()

	seq := nextSeq()
	area := &model.Area{
		Name:    fmt.Sprintf("Test Area %d", seq),
		City:    "Hyderabad",
		Pincode: "500001",
	}

	for _, opt := range opts {
		opt(area)
	}

	if err := db.Create(area).Error; err != nil {
		t.Fatalf("Failed to create test area: %v", err)
	}

	return area
}

// WithAreaName 设置区域名称
func WithAreaName(name string) func(*model.Area) {
	return func(a *model.Area) {
		a.Name = name
	}
}

// TestUser 创建测试居民
func TestUser(t *testing.T, db *gorm.DB, areaID int64, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	user := &model.User{
		Name:          fmt.Sprintf("Test Resident %d", seq),
		Phone:         fmt.Sprintf("98%08d", seq),
		CountryCode:   "+91",
		AreaID:        areaID,
		AddressLine:   "12-3-456 Test Street",
		WaterQuantity: 20,
		Enabled:       true,
		Verified:      true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithWaterQuantity 设置默认水量
func WithWaterQuantity(liters int) func(*model.User) {
	return func(u *model.User) {
		u.WaterQuantity = liters
	}
}

// WithEnabled 设置启用状态
func WithEnabled(enabled bool) func(*model.User) {
	return func(u *model.User) {
		u.Enabled = enabled
	}
}

// WithUserEmail 设置邮箱
func WithUserEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithUserDeleted 软删除标记
func WithUserDeleted() func(*model.User) {
	return func(u *model.User) {
		u.IsDeleted = true
	}
}

// TestAdmin 创建测试管理员，password 为明文密码
func TestAdmin(t *testing.T, db *gorm.DB, password string) *model.Admin {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	seq := nextSeq()
	admin := &model.Admin{
		Name:         fmt.Sprintf("Test Admin %d", seq),
		Phone:        fmt.Sprintf("90%08d", seq),
		PasswordHash: string(hash),
	}

	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	return admin
}

// TestSlot 创建测试时段，默认明天 08:00-10:00，截止时间在未来
func TestSlot(t *testing.T, db *gorm.DB, areaID int64, opts ...func(*model.Slot)) *model.Slot {
	t.Helper()

	tomorrow := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	slot := &model.Slot{
		Date:              tomorrow,
		StartTime:         "08:00",
		EndTime:           "10:00",
		AreaID:            areaID,
		Capacity:          100,
		BookingCutoffTime: time.Now().Add(12 * time.Hour),
		Status:            model.SlotStatusAvailable,
		IsActive:          true,
	}

	for _, opt := range opts {
		opt(slot)
	}

	if err := db.Create(slot).Error; err != nil {
		t.Fatalf("Failed to create test slot: %v", err)
	}

	return slot
}

// WithCapacity 设置容量
func WithCapacity(liters int) func(*model.Slot) {
	return func(s *model.Slot) {
		s.Capacity = liters
	}
}

// WithCutoff 设置预订截止时间
func WithCutoff(cutoff time.Time) func(*model.Slot) {
	return func(s *model.Slot) {
		s.BookingCutoffTime = cutoff
	}
}

// WithSlotDate 设置配送日期
func WithSlotDate(date time.Time) func(*model.Slot) {
	return func(s *model.Slot) {
		s.Date = date
	}
}

// WithSlotStatus 设置存储状态
func WithSlotStatus(status string) func(*model.Slot) {
	return func(s *model.Slot) {
		s.Status = status
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, customerID, slotID int64, opts ...func(*model.SlotSubscription)) *model.SlotSubscription {
	t.Helper()

	sub := &model.SlotSubscription{
		CustomerID:         customerID,
		SlotID:             slotID,
		Quantity:           20,
		Status:             model.SubscriptionStatusBooked,
		ExtraRequestStatus: model.ExtraRequestNone,
		IsActive:           true,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithQuantity 设置基础升数
func WithQuantity(liters int) func(*model.SlotSubscription) {
	return func(s *model.SlotSubscription) {
		s.Quantity = liters
	}
}

// WithSubStatus 设置配送状态
func WithSubStatus(status string) func(*model.SlotSubscription) {
	return func(s *model.SlotSubscription) {
		s.Status = status
	}
}

// WithExtra 设置加量申请
func WithExtra(quantity int, status string) func(*model.SlotSubscription) {
	return func(s *model.SlotSubscription) {
		s.ExtraQuantity = quantity
		s.ExtraRequestStatus = status
	}
}
