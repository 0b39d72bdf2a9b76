package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/internal/model"
	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/pkg/jwt"
	"github.com/qs3c/water_go_server/internal/pkg/response"
	"github.com/qs3c/water_go_server/internal/repository"
	"github.com/qs3c/water_go_server/internal/service"
	"github.com/qs3c/water_go_server/internal/testutil"
)

func setupSlotHandler(t *testing.T) (*SlotHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	slotService := service.NewSlotService(
		repository.NewSlotRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
		repository.NewAreaRepository(db),
		nil,
		testConfig(),
	)
	return NewSlotHandler(slotService), db
}

func TestSlotHandler_Create_Success(t *testing.T) {
	handler, db := setupSlotHandler(t)

	area := testutil.TestArea(t, db)
	testutil.TestUser(t, db, area.ID)
	testutil.TestUser(t, db, area.ID)

	router := gin.New()
	router.POST("/slots", handler.Create)

	w := performRequest(router, "POST", "/slots", dto.CreateSlotRequest{
		Date:              "2026-09-10",
		StartTime:         "08:00",
		EndTime:           "10:00",
		AreaID:            area.ID,
		Capacity:          100,
		BookingCutoffTime: "2026-09-09T20:00:00Z",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["enrolled_count"])
}

func TestSlotHandler_Create_UnknownArea(t *testing.T) {
	handler, _ := setupSlotHandler(t)

	router := gin.New()
	router.POST("/slots", handler.Create)

	w := performRequest(router, "POST", "/slots", dto.CreateSlotRequest{
		Date:              "2026-09-10",
		StartTime:         "08:00",
		EndTime:           "10:00",
		AreaID:            9999,
		Capacity:          100,
		BookingCutoffTime: "2026-09-09T20:00:00Z",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestSlotHandler_Create_InvalidRequest(t *testing.T) {
	handler, _ := setupSlotHandler(t)

	router := gin.New()
	router.POST("/slots", handler.Create)

	w := performRequest(router, "POST", "/slots", map[string]string{"date": "2026-09-10"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestSlotHandler_Get_WithStats(t *testing.T) {
	handler, db := setupSlotHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID, testutil.WithCapacity(100))
	testutil.TestSubscription(t, db, user.ID, slot.ID, testutil.WithQuantity(30))

	router := gin.New()
	router.GET("/slots/:id", handler.Get)

	w := performRequest(router, "GET", "/slots/"+itoa(slot.ID), nil)
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	stats, ok := data["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(30), stats["occupied_liters"])
	assert.Equal(t, model.SlotStatusAvailable, stats["status"])
	assert.Equal(t, "30", stats["progress_percentage"])
}

func TestSlotHandler_Get_InvalidID(t *testing.T) {
	handler, _ := setupSlotHandler(t)

	router := gin.New()
	router.GET("/slots/:id", handler.Get)

	w := performRequest(router, "GET", "/slots/abc", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestSlotHandler_Current_NoSubscription(t *testing.T) {
	handler, db := setupSlotHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)

	router := gin.New()
	router.GET("/slots/current", mockAuth(user.ID, jwt.RoleResident), handler.Current)

	w := performRequest(router, "GET", "/slots/current", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestSlotHandler_Current_NoPrincipal(t *testing.T) {
	handler, _ := setupSlotHandler(t)

	router := gin.New()
	router.GET("/slots/current", handler.Current)

	w := performRequest(router, "GET", "/slots/current", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestSlotHandler_Update_CloseSlot(t *testing.T) {
	handler, db := setupSlotHandler(t)

	area := testutil.TestArea(t, db)
	slot := testutil.TestSlot(t, db, area.ID)

	router := gin.New()
	router.PUT("/slots/:id", handler.Update)

	closed := model.SlotStatusClosed
	w := performRequest(router, "PUT", "/slots/"+itoa(slot.ID), dto.UpdateSlotRequest{
		Status: &closed,
	})
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	stats, ok := data["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, model.SlotStatusClosed, stats["status"])
}

func TestSlotHandler_Delete(t *testing.T) {
	handler, db := setupSlotHandler(t)

	area := testutil.TestArea(t, db)
	slot := testutil.TestSlot(t, db, area.ID)

	router := gin.New()
	router.DELETE("/slots/:id", handler.Delete)
	router.GET("/slots/:id", handler.Get)

	w := performRequest(router, "DELETE", "/slots/"+itoa(slot.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "GET", "/slots/"+itoa(slot.ID), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}
