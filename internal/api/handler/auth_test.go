package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/api/middleware"
	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/pkg/response"
	"github.com/qs3c/water_go_server/internal/repository"
	"github.com/qs3c/water_go_server/internal/service"
	"github.com/qs3c/water_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key"
	cfg.JWT.ExpireHours = 24
	cfg.OTP.ExpireMinutes = 5
	cfg.OTP.CodeLength = 6
	return cfg
}

// mockAuth 直接把登录主体写入上下文，跳过令牌解析
func mockAuth(principalID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.PrincipalIDKey, principalID)
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func setupAuthHandler(t *testing.T) (*AuthHandler, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewAdminRepository(db),
		rdb,
		nil,
		testConfig(),
	)
	return NewAuthHandler(authService), db, mr
}

func TestAuthHandler_RequestOTP_Success(t *testing.T) {
	handler, db, _ := setupAuthHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)

	router := gin.New()
	router.POST("/request-otp", handler.RequestOTP)

	w := performRequest(router, "POST", "/request-otp", dto.RequestOTPRequest{
		Phone:       user.Phone,
		CountryCode: user.CountryCode,
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_RequestOTP_UnknownPhone(t *testing.T) {
	handler, _, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/request-otp", handler.RequestOTP)

	w := performRequest(router, "POST", "/request-otp", dto.RequestOTPRequest{
		Phone:       "0000000000",
		CountryCode: "+91",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestAuthHandler_RequestOTP_InvalidRequest(t *testing.T) {
	handler, _, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/request-otp", handler.RequestOTP)

	w := performRequest(router, "POST", "/request-otp", map[string]string{})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_VerifyOTP_Success(t *testing.T) {
	handler, db, mr := setupAuthHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)

	router := gin.New()
	router.POST("/request-otp", handler.RequestOTP)
	router.POST("/verify-otp", handler.VerifyOTP)

	w := performRequest(router, "POST", "/request-otp", dto.RequestOTPRequest{
		Phone:       user.Phone,
		CountryCode: user.CountryCode,
	})
	require.Equal(t, http.StatusOK, w.Code)

	code, err := mr.Get("otp:" + user.CountryCode + ":" + user.Phone)
	require.NoError(t, err)

	w = performRequest(router, "POST", "/verify-otp", dto.VerifyOTPRequest{
		Phone:       user.Phone,
		CountryCode: user.CountryCode,
		Code:        code,
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_VerifyOTP_WrongCode(t *testing.T) {
	handler, db, _ := setupAuthHandler(t)

	area := testutil.TestArea(t, db)
	user := testutil.TestUser(t, db, area.ID)

	router := gin.New()
	router.POST("/verify-otp", handler.VerifyOTP)

	w := performRequest(router, "POST", "/verify-otp", dto.VerifyOTPRequest{
		Phone:       user.Phone,
		CountryCode: user.CountryCode,
		Code:        "000000",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuthHandler_AdminLogin_Success(t *testing.T) {
	handler, db, _ := setupAuthHandler(t)

	admin := testutil.TestAdmin(t, db, "admin-password-1")

	router := gin.New()
	router.POST("/admin/login", handler.AdminLogin)

	w := performRequest(router, "POST", "/admin/login", dto.AdminLoginRequest{
		Phone:    admin.Phone,
		Password: "admin-password-1",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_AdminLogin_WrongPassword(t *testing.T) {
	handler, db, _ := setupAuthHandler(t)

	admin := testutil.TestAdmin(t, db, "admin-password-1")

	router := gin.New()
	router.POST("/admin/login", handler.AdminLogin)

	w := performRequest(router, "POST", "/admin/login", dto.AdminLoginRequest{
		Phone:    admin.Phone,
		Password: "wrong-password-1",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}
