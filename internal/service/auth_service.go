package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/pkg/email"
	"github.com/qs3c/water_go_server/internal/pkg/jwt"
	"github.com/qs3c/water_go_server/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("手机号或密码错误")
	ErrInvalidOTP         = errors.New("验证码无效或已过期")
	ErrOTPTooFrequent     = errors.New("验证码发送过于频繁，请稍后再试")
	ErrUserDisabled       = errors.New("账号已被停用")
)

type AuthService struct {
	userRepo  *repository.UserRepository
	adminRepo *repository.AdminRepository
	rdb       *redis.Client
	emailSvc  *email.Service
	cfg       *config.Config
}

func NewAuthService(
	userRepo *repository.UserRepository,
	adminRepo *repository.AdminRepository,
	rdb *redis.Client,
	emailSvc *email.Service,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		rdb:       rdb,
		emailSvc:  emailSvc,
		cfg:       cfg,
	}
}

// RequestOTP 居民请求登录验证码。验证码写入 Redis 并设置过期时间，
// 冷却期内不允许重发。
func (s *AuthService) RequestOTP(ctx context.Context, req *dto.RequestOTPRequest) (*dto.RequestOTPResponse, error) {
	user, err := s.userRepo.GetByPhone(req.Phone, req.CountryCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.Enabled {
		return nil, ErrUserDisabled
	}

	cooldown := time.Duration(s.cfg.OTP.ResendCooldown) * time.Second
	if cooldown > 0 {
		ok, err := s.rdb.SetNX(ctx, s.cooldownKey(req.Phone, req.CountryCode), 1, cooldown).Result()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrOTPTooFrequent
		}
	}

	codeLength := s.cfg.OTP.CodeLength
	if codeLength <= 0 {
		codeLength = 6
	}
	code, err := generateOTPCode(codeLength)
	if err != nil {
		return nil, err
	}

	expireMinutes := s.cfg.OTP.ExpireMinutes
	if expireMinutes <= 0 {
		expireMinutes = 10
	}
	expire := time.Duration(expireMinutes) * time.Minute

	if err := s.rdb.Set(ctx, s.otpKey(req.Phone, req.CountryCode), code, expire).Err(); err != nil {
		return nil, err
	}

	// 开发环境直接打印验证码，省去配置投递通道
	if s.cfg.Server.Mode == "debug" {
		log.Printf("OTP for %s%s: %s", req.CountryCode, req.Phone, code)
	}

	if user.Email != nil && s.emailSvc != nil {
		if err := s.emailSvc.SendOTP(*user.Email, code, expireMinutes); err != nil {
			log.Printf("Failed to send OTP email to user %d: %v", user.ID, err)
		}
	}

	return &dto.RequestOTPResponse{
		ExpiresIn: int(expire.Seconds()),
	}, nil
}

// VerifyOTP 校验验证码并签发居民令牌。首次验证成功会标记账号已验证。
func (s *AuthService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByPhone(req.Phone, req.CountryCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.Enabled {
		return nil, ErrUserDisabled
	}

	key := s.otpKey(req.Phone, req.CountryCode)
	stored, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	if stored != req.Code {
		return nil, ErrInvalidOTP
	}

	// 验证码一次性使用
	s.rdb.Del(ctx, key)

	if !user.Verified {
		if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"verified": true}); err != nil {
			return nil, err
		}
		user.Verified = true
	}

	token, err := jwt.GenerateToken(user.ID, jwt.RoleResident, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

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
	}
	if user.Email != nil {
		info.Email = *user.Email
	}

	return &dto.LoginResponse{
		Token: token,
		Role:  jwt.RoleResident,
		User:  info,
	}, nil
}

// AdminLogin 管理员密码登录
func (s *AuthService) AdminLogin(req *dto.AdminLoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.GetByPhone(req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(admin.ID, jwt.RoleAdmin, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		Role:  jwt.RoleAdmin,
	}, nil
}

func (s *AuthService) otpKey(phone, countryCode string) string {
	return fmt.Sprintf("otp:%s:%s", countryCode, phone)
}

func (s *AuthService) cooldownKey(phone, countryCode string) string {
	return fmt.Sprintf("otp_cd:%s:%s", countryCode, phone)
}

// generateOTPCode 生成指定长度的数字验证码
func generateOTPCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
