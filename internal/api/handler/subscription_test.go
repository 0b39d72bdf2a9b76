package handler

import (
	"testing"
	"time"

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

func setupSubscriptionHandler(t *testing.T) (*SubscriptionHandler, *service.SubscriptionService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	subService := service.NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewSlotRepository(db),
		nil,
		nil,
		nil,
		testConfig(),
	)
	return NewSubscriptionHandler(subService, testConfig()), subService, db
}

func TestSubscriptionHandler_Cancel_Success(t *testing.T) {
	handler, subService, db := setupSubscriptionHandler(t)

	cutoff := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID, testutil.WithCutoff(cutoff))
	sub := testutil.TestSubscription(t, db, user.ID, slot.ID)

	subService.WithClock(func() time.Time { return cutoff.Add(-time.Hour) })

	router := gin.New()
	router.POST("/subscriptions/:id/cancel", mockAuth(user.ID, jwt.RoleResident), handler.Cancel)

	w := performRequest(router, "POST", "/subscriptions/"+itoa(sub.ID)+"/cancel", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestSubscriptionHandler_Cancel_AfterCutoff(t *testing.T) {
	handler, subService, db := setupSubscriptionHandler(t)

	cutoff := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID, testutil.WithCutoff(cutoff))
	sub := testutil.TestSubscription(t, db, user.ID, slot.ID)

	subService.WithClock(func() time.Time { return cutoff.Add(time.Minute) })

	router := gin.New()
	router.POST("/subscriptions/:id/cancel", mockAuth(user.ID, jwt.RoleResident), handler.Cancel)

	w := performRequest(router, "POST", "/subscriptions/"+itoa(sub.ID)+"/cancel", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodePolicyViolation, resp.Code)
}

func TestSubscriptionHandler_Cancel_NotOwner(t *testing.T) {
	handler, _, db := setupSubscriptionHandler(t)

	area := testutil.TestArea(t, db)
	owner := testutil.TestUser(t, db, area.ID)
	stranger := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID)
	sub := testutil.TestSubscription(t, db, owner.ID, slot.ID)

	router := gin.New()
	router.POST("/subscriptions/:id/cancel", mockAuth(stranger.ID, jwt.RoleResident), handler.Cancel)

	w := performRequest(router, "POST", "/subscriptions/"+itoa(sub.ID)+"/cancel", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestSubscriptionHandler_RequestExtra_Success(t *testing.T) {
	handler, _, db := setupSubscriptionHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID)
	sub := testutil.TestSubscription(t, db, user.ID, slot.ID)

	router := gin.New()
	router.POST("/subscriptions/:id/extra", mockAuth(user.ID, jwt.RoleResident), handler.RequestExtra)

	w := performRequest(router, "POST", "/subscriptions/"+itoa(sub.ID)+"/extra",
		dto.RequestExtraRequest{ExtraQuantity: 15})
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(15), data["extra_quantity"])
	assert.Equal(t, model.ExtraRequestPending, data["extra_request_status"])
}

func TestSubscriptionHandler_RequestExtra_ZeroQuantity(t *testing.T) {
	handler, _, db := setupSubscriptionHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID)
	sub := testutil.TestSubscription(t, db, user.ID, slot.ID)

	router := gin.New()
	router.POST("/subscriptions/:id/extra", mockAuth(user.ID, jwt.RoleResident), handler.RequestExtra)

	w := performRequest(router, "POST", "/subscriptions/"+itoa(sub.ID)+"/extra",
		dto.RequestExtraRequest{ExtraQuantity: 0})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestSubscriptionHandler_DecideExtra_Approve(t *testing.T) {
	handler, _, db := setupSubscriptionHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID)
	sub := testutil.TestSubscription(t, db, user.ID, slot.ID,
		testutil.WithExtra(20, model.ExtraRequestPending))

	router := gin.New()
	router.POST("/subscriptions/:id/extra-decision", handler.DecideExtra)

	w := performRequest(router, "POST", "/subscriptions/"+itoa(sub.ID)+"/extra-decision",
		dto.DecideExtraRequest{Decision: "approved"})
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, model.ExtraRequestApproved, data["extra_request_status"])
}

func TestSubscriptionHandler_DecideExtra_InvalidDecision(t *testing.T) {
	handler, _, db := setupSubscriptionHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID)
	sub := testutil.TestSubscription(t, db, user.ID, slot.ID)

	router := gin.New()
	router.POST("/subscriptions/:id/extra-decision", handler.DecideExtra)

	w := performRequest(router, "POST", "/subscriptions/"+itoa(sub.ID)+"/extra-decision",
		map[string]string{"decision": "maybe"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestSubscriptionHandler_MarkDelivery_Delivered(t *testing.T) {
	handler, _, db := setupSubscriptionHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID)
	sub := testutil.TestSubscription(t, db, user.ID, slot.ID)

	router := gin.New()
	router.POST("/subscriptions/:id/delivery", handler.MarkDelivery)

	w := performRequest(router, "POST", "/subscriptions/"+itoa(sub.ID)+"/delivery",
		dto.MarkDeliveryRequest{Outcome: "delivered"})
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, model.SubscriptionStatusDelivered, data["status"])
	assert.NotEmpty(t, data["delivered_at"])
}

func TestSubscriptionHandler_ListMine(t *testing.T) {
	handler, _, db := setupSubscriptionHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)
	other := testutil.TestUser(t, db, area.ID)
	slot := testutil.TestSlot(t, db, area.ID)

	testutil.TestSubscription(t, db, user.ID, slot.ID)
	testutil.TestSubscription(t, db, other.ID, slot.ID)

	router := gin.New()
	router.GET("/subscriptions", mockAuth(user.ID, jwt.RoleResident), handler.ListMine)

	w := performRequest(router, "GET", "/subscriptions", nil)
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total"])
}
