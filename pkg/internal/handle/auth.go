package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/regvault/pkg/internal/model"
	"github.com/yeisme/regvault/pkg/internal/service"
	"github.com/yeisme/regvault/pkg/internal/types"
	"github.com/yeisme/regvault/pkg/middleware"
	"github.com/yeisme/regvault/pkg/rule"
)

// Register 用户注册.
//
//	@Summary		用户注册
//	@Description	注册新用户，默认角色为 viewer；只有管理员可以在注册时指定其他角色
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			user	body		types.RegisterRequest	true	"注册请求"
//	@Success		200		{object}	types.UserInfo			"注册成功的用户"
//	@Failure		400		{object}	map[string]string		"请求参数错误"
//	@Failure		409		{object}	map[string]string		"用户名已存在"
//	@Router			/api/v1/auth/register [post]
func Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		bindError(c, err)

		return
	}

	// 非管理员注册一律落 viewer，角色提升走用户管理接口
	if req.Role != "" && middleware.GetRole(c) != middleware.RoleAdmin {
		req.Role = model.RoleViewer
	}

	resp, err := service.NewAuthService(c.Request.Context()).Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// Login 登录换取会话令牌.
//
//	@Summary		用户登录
//	@Description	校验用户名密码，返回 JWT 会话令牌，后续请求放在 Authorization: Bearer 头里
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		types.LoginRequest	true	"登录请求"
//	@Success		200			{object}	types.LoginResponse	"令牌与用户信息"
//	@Failure		401			{object}	map[string]string	"用户名或密码错误"
//	@Router			/api/v1/auth/login [post]
func Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewAuthService(c.Request.Context()).Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChangePassword 修改当前用户密码.
//
//	@Summary		修改密码
//	@Description	验证旧密码后更新为新密码
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			passwords	body		types.ChangePasswordRequest	true	"改密请求"
//	@Success		200			{object}	map[string]string			"修改成功"
//	@Failure		401			{object}	map[string]string			"旧密码错误"
//	@Security		BearerAuth
//	@Router			/api/v1/auth/password [put]
func ChangePassword(c *gin.Context) {
	var req types.ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		bindError(c, err)

		return
	}

	err := service.NewAuthService(c.Request.Context()).ChangePassword(c.Request.Context(), operatorFrom(c), req)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// Me 当前登录用户信息.
//
//	@Summary		当前用户
//	@Tags			认证
//	@Produce		json
//	@Success		200	{object}	middleware.TokenClaims	"令牌声明"
//	@Security		BearerAuth
//	@Router			/api/v1/auth/me [get]
func Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})

		return
	}

	c.JSON(http.StatusOK, claims)
}

// ListUsers 用户列表（管理员）.
//
//	@Summary		用户列表
//	@Tags			用户管理
//	@Produce		json
//	@Success		200	{array}	types.UserInfo	"用户列表"
//	@Security		BearerAuth
//	@Router			/api/v1/users [get]
func ListUsers(c *gin.Context) {
	resp, err := service.NewAuthService(c.Request.Context()).ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateUserRole 调整用户角色（管理员）.
//
//	@Summary		调整用户角色
//	@Tags			用户管理
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"用户 id"
//	@Param			role	body		types.UpdateUserRoleRequest	true	"目标角色"
//	@Success		200		{object}	types.UserInfo				"更新后的用户"
//	@Failure		404		{object}	map[string]string			"用户不存在"
//	@Security		BearerAuth
//	@Router			/api/v1/users/{id}/role [put]
func UpdateUserRole(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateUserRoleRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		bindError(c, err)

		return
	}

	resp, err := service.NewAuthService(c.Request.Context()).UpdateUserRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteUser 删除用户（管理员），不允许删除自己.
//
//	@Summary		删除用户
//	@Tags			用户管理
//	@Produce		json
//	@Param			id	path		int					true	"用户 id"
//	@Success		200	{object}	map[string]string	"删除成功"
//	@Failure		403	{object}	map[string]string	"不能删除当前用户"
//	@Security		BearerAuth
//	@Router			/api/v1/users/{id} [delete]
func DeleteUser(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	err := service.NewAuthService(c.Request.Context()).DeleteUser(c.Request.Context(), id, operatorFrom(c))
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
