package service

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
	nlog "github.com/yeisme/regvault/pkg/log"
	"github.com/yeisme/regvault/pkg/middleware"
)

// AuthService 负责用户注册、登录与账号管理.
type AuthService struct {
	*baseService

	authConfig *configs.AuthConfig
}

// NewAuthService 从 context 获取依赖实例.
func NewAuthService(c context.Context) *AuthService {
	return &AuthService{
		baseService: newBaseService(c),
		authConfig:  &configs.GetConfig().Auth,
	}
}

// Register 注册新用户，用户名重复返回冲突错误. Role 为空默认 viewer.
func (a *AuthService) Register(ctx context.Context, req types.RegisterRequest) (types.UserInfo, error) {
	role := req.Role
	if role == "" {
		role = model.RoleViewer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.authConfig.BcryptCost)
	if err != nil {
		return types.UserInfo{}, errors.ErrInternal.WithReasonf("hash password: %v", err)
	}

	user := model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		DisplayName:  req.Display,
		Email:        req.Email,
	}

	gdb := a.dbClient.GetDB().WithContext(ctx)

	var count int64
	if err := gdb.Model(&model.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return types.UserInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	if count > 0 {
		return types.UserInfo{}, errors.ErrUserExists
	}

	if err := gdb.Create(&user).Error; err != nil {
		return types.UserInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	return userToInfo(user), nil
}

// Login 校验凭证并签发会话令牌.
func (a *AuthService) Login(ctx context.Context, req types.LoginRequest) (types.LoginResponse, error) {
	gdb := a.dbClient.GetDB().WithContext(ctx)

	var user model.User
	if err := gdb.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return types.LoginResponse{}, errors.ErrInvalidCredentials
		}

		return types.LoginResponse{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return types.LoginResponse{}, errors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := gdb.Model(&user).Update("last_login_at", now).Error; err != nil {
		// 登录时间只是辅助信息，更新失败不阻塞登录
		nlog.Logger().Warn().Err(err).Str("username", user.Username).Msg("update last_login_at failed")
	}

	expiresAt := now.Add(a.authConfig.TokenTTL())

	token, err := a.issueToken(user, now, expiresAt)
	if err != nil {
		return types.LoginResponse{}, errors.ErrInternal.WithReasonf("sign token: %v", err)
	}

	user.LastLoginAt = &now

	return types.LoginResponse{
		Token:     token,
		ExpiresAt: fmtTime(expiresAt),
		User:      userToInfo(user),
	}, nil
}

// issueToken 签发 HS256 会话令牌.
func (a *AuthService) issueToken(user model.User, now, expiresAt time.Time) (string, error) {
	claims := middleware.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    configs.AppName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.authConfig.Secret))
}

// ChangePassword 修改当前用户密码，需先验证旧密码.
func (a *AuthService) ChangePassword(ctx context.Context, username string, req types.ChangePasswordRequest) error {
	gdb := a.dbClient.GetDB().WithContext(ctx)

	var user model.User
	if err := gdb.Where("username = ?", username).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}

		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return errors.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), a.authConfig.BcryptCost)
	if err != nil {
		return errors.ErrInternal.WithReasonf("hash password: %v", err)
	}

	if err := gdb.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	return nil
}

// ListUsers 列出全部用户（管理员）.
func (a *AuthService) ListUsers(ctx context.Context) ([]types.UserInfo, error) {
	var users []model.User
	if err := a.dbClient.GetDB().WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, errors.ErrStorageFailed.WithReason(err.Error())
	}

	infos := make([]types.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, userToInfo(u))
	}

	return infos, nil
}

// UpdateUserRole 调整用户角色（管理员）.
func (a *AuthService) UpdateUserRole(ctx context.Context, userID uint, role string) (types.UserInfo, error) {
	gdb := a.dbClient.GetDB().WithContext(ctx)

	var user model.User
	if err := gdb.First(&user, userID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return types.UserInfo{}, errors.ErrUserNotFound
		}

		return types.UserInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	if err := gdb.Model(&user).Update("role", role).Error; err != nil {
		return types.UserInfo{}, errors.ErrStorageFailed.WithReason(err.Error())
	}

	user.Role = role

	return userToInfo(user), nil
}

// DeleteUser 删除用户（管理员），不允许删除自己.
func (a *AuthService) DeleteUser(ctx context.Context, userID uint, operator string) error {
	gdb := a.dbClient.GetDB().WithContext(ctx)

	var user model.User
	if err := gdb.First(&user, userID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}

		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	if user.Username == operator {
		return errors.ErrPermissionDenied.WithReason("cannot delete current user")
	}

	if err := gdb.Delete(&user).Error; err != nil {
		return errors.ErrStorageFailed.WithReason(err.Error())
	}

	return nil
}

// EnsureFirstRunAdmin 数据库没有任何用户时创建默认 admin/admin 账户，便于首次运行.
func (a *AuthService) EnsureFirstRunAdmin(ctx context.Context) error {
	if !a.authConfig.FirstRunAdmin {
		return nil
	}

	gdb := a.dbClient.GetDB().WithContext(ctx)

	var count int64
	if err := gdb.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), a.authConfig.BcryptCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		DisplayName:  "Administrator",
	}
	if err := gdb.Create(&admin).Error; err != nil {
		return err
	}

	nlog.Logger().Info().Msg("created first-run admin account, change its password immediately")

	return nil
}

func userToInfo(u model.User) types.UserInfo {
	info := types.UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		Email:       u.Email,
	}
	if u.LastLoginAt != nil {
		info.LastLoginAt = fmtTime(*u.LastLoginAt)
	}

	return info
}
