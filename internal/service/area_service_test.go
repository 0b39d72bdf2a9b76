package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/repository"
	"github.com/qs3c/water_go_server/internal/testutil"
)

func TestAreaService_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAreaService(repository.NewAreaRepository(db))

	created, err := svc.Create(&dto.CreateAreaRequest{
		Name:    "Jubilee Hills",
		City:    "Hyderabad",
		Pincode: "500033",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jubilee Hills", got.Name)
	assert.Equal(t, "500033", got.Pincode)
}

func TestAreaService_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAreaService(repository.NewAreaRepository(db))

	_, err := svc.Get(9999)
	assert.ErrorIs(t, err, ErrAreaNotFound)
}

func TestAreaService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAreaService(repository.NewAreaRepository(db))
	area := testutil.TestArea(t, db)

	name := "Renamed Area"
	info, err := svc.Update(area.ID, &dto.UpdateAreaRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Area", info.Name)
	// 未提供的字段保持原值
	assert.Equal(t, area.Pincode, info.Pincode)
}

func TestAreaService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAreaService(repository.NewAreaRepository(db))
	area := testutil.TestArea(t, db)

	require.NoError(t, svc.Delete(area.ID))

	_, err := svc.Get(area.ID)
	assert.ErrorIs(t, err, ErrAreaNotFound)
}

func TestAreaService_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAreaService(repository.NewAreaRepository(db))
	testutil.TestArea(t, db)
	testutil.TestArea(t, db)
	testutil.TestArea(t, db)

	infos, total, err := svc.List(1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, infos, 2)
}
