package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/repository"
	"github.com/qs3c/water_go_server/internal/testutil"
)

func newUserService(db *gorm.DB) *UserService {
	cfg := &config.Config{}
	cfg.Delivery.DefaultWaterQuantity = 20
	return NewUserService(
		repository.NewUserRepository(db),
		repository.NewAreaRepository(db),
		cfg,
	)
}

func TestUserService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newUserService(db)
	area := testutil.TestArea(t, db)

	info, err := svc.Create(&dto.CreateUserRequest{
		Name:          "Ravi Kumar",
		Phone:         "9876543210",
		CountryCode:   "+91",
		Email:         "ravi@example.com",
		AreaID:        area.ID,
		AddressLine:   "8-2-293 Road No 1",
		WaterQuantity: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", info.Name)
	assert.Equal(t, "ravi@example.com", info.Email)
	assert.Equal(t, 40, info.WaterQuantity)
	assert.True(t, info.Enabled)
	assert.False(t, info.Verified)
}

func TestUserService_Create_DefaultWaterQuantity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newUserService(db)
	area := testutil.TestArea(t, db)

	info, err := svc.Create(&dto.CreateUserRequest{
		Name:        "No Quantity",
		Phone:       "9876500001",
		CountryCode: "+91",
		AreaID:      area.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, info.WaterQuantity)
}

func TestUserService_Create_DuplicatePhone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newUserService(db)
	area := testutil.TestArea(t, db)
	existing := testutil.TestUser(t, db, area.ID)

	_, err := svc.Create(&dto.CreateUserRequest{
		Name:        "Duplicate",
		Phone:       existing.Phone,
		CountryCode: existing.CountryCode,
		AreaID:      area.ID,
	})
	assert.ErrorIs(t, err, ErrPhoneExists)
}

func TestUserService_Create_AreaNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newUserService(db)

	_, err := svc.Create(&dto.CreateUserRequest{
		Name:        "Nowhere",
		Phone:       "9876500002",
		CountryCode: "+91",
		AreaID:      9999,
	})
	assert.ErrorIs(t, err, ErrAreaNotFound)
}

func TestUserService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newUserService(db)
	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)

	quantity := 60
	enabled := false
	info, err := svc.Update(user.ID, &dto.UpdateUserRequest{
		WaterQuantity: &quantity,
		Enabled:       &enabled,
	})
	require.NoError(t, err)
	assert.Equal(t, 60, info.WaterQuantity)
	assert.False(t, info.Enabled)
	assert.Equal(t, user.Name, info.Name)
}

func TestUserService_Update_MoveToMissingArea(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newUserService(db)
	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)

	missing := int64(9999)
	_, err := svc.Update(user.ID, &dto.UpdateUserRequest{AreaID: &missing})
	assert.ErrorIs(t, err, ErrAreaNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newUserService(db)
	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)

	address := "New Address Lane 5"
	info, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		AddressLine: &address,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Address Lane 5", info.AddressLine)
}

func TestUserService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newUserService(db)
	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)

	require.NoError(t, svc.Delete(user.ID))

	_, err := svc.Get(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_ListByArea(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newUserService(db)
	area := testutil.TestArea(t, db)
	other := testutil.TestArea(t, db)

	testutil.TestUser(t, db, area.ID)
	testutil.TestUser(t, db, area.ID)
	testutil.TestUser(t, db, other.ID)

	infos, total, err := svc.ListByArea(area.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, infos, 2)
}
