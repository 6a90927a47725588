package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/regvault/pkg/configs"
	"github.com/yeisme/regvault/pkg/errors"
	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/types"
)

func setAuthConfig(t *testing.T) {
	t.Helper()

	cfg := &configs.GetConfig().Auth
	old := *cfg

	cfg.Secret = "test-secret"
	cfg.TokenExpireMinutes = 60
	cfg.BcryptCost = 4 // 最低成本，测试里足够
	cfg.FirstRunAdmin = true

	t.Cleanup(func() { *cfg = old })
}

// TestAuthRegisterAndLogin 注册后可登录，密码错误与重名都被拒绝.
func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := newTestContext(t)
	setAuthConfig(t)
	svc := NewAuthService(ctx)

	info, err := svc.Register(ctx, types.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleViewer, info.Role)

	_, err = svc.Register(ctx, types.RegisterRequest{Username: "alice", Password: "another"})
	require.Error(t, err)
	assert.Equal(t, 409, errors.AsStatusError(err).Code)

	resp, err := svc.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	_, err = svc.Login(ctx, types.LoginRequest{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, 401, errors.AsStatusError(err).Code)

	_, err = svc.Login(ctx, types.LoginRequest{Username: "nobody", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, 401, errors.AsStatusError(err).Code)
}

// TestAuthChangePassword 旧密码校验通过后新密码生效.
func TestAuthChangePassword(t *testing.T) {
	ctx := newTestContext(t)
	setAuthConfig(t)
	svc := NewAuthService(ctx)

	_, err := svc.Register(ctx, types.RegisterRequest{Username: "bob", Password: "oldpass1"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, "bob", types.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpass1"})
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, "bob", types.ChangePasswordRequest{
		OldPassword: "oldpass1",
		NewPassword: "newpass1",
	}))

	_, err = svc.Login(ctx, types.LoginRequest{Username: "bob", Password: "newpass1"})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, types.LoginRequest{Username: "bob", Password: "oldpass1"})
	assert.Error(t, err)
}

// TestAuthUserManagement 角色调整与删除限制.
func TestAuthUserManagement(t *testing.T) {
	ctx := newTestContext(t)
	setAuthConfig(t)
	svc := NewAuthService(ctx)

	admin, err := svc.Register(ctx, types.RegisterRequest{Username: "root", Password: "rootpass", Role: model.RoleAdmin})
	require.NoError(t, err)

	viewer, err := svc.Register(ctx, types.RegisterRequest{Username: "carol", Password: "carolpass"})
	require.NoError(t, err)

	updated, err := svc.UpdateUserRole(ctx, viewer.ID, model.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, updated.Role)

	// 不允许删除自己
	err = svc.DeleteUser(ctx, admin.ID, "root")
	require.Error(t, err)
	assert.Equal(t, 403, errors.AsStatusError(err).Code)

	require.NoError(t, svc.DeleteUser(ctx, viewer.ID, "root"))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// TestEnsureFirstRunAdmin 空库时自动建 admin，已有用户则不再创建.
func TestEnsureFirstRunAdmin(t *testing.T) {
	ctx := newTestContext(t)
	setAuthConfig(t)
	svc := NewAuthService(ctx)

	require.NoError(t, svc.EnsureFirstRunAdmin(ctx))

	resp, err := svc.Login(ctx, types.LoginRequest{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)

	// 再次调用不会重复创建
	require.NoError(t, svc.EnsureFirstRunAdmin(ctx))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
