package types

// RegisterRequest 用户注册请求.
type RegisterRequest struct {
	Username string `binding:"required" json:"username" rule:"min=3,max=64"`
	Password string `binding:"required" json:"password" rule:"min=6,max=128"`
	Role     string `json:"role,omitempty"     rule:"omitempty,oneof=viewer editor admin"`
	Email    string `json:"email,omitempty"    rule:"omitempty,email"`
	Display  string `json:"display,omitempty"`
}

// LoginRequest 登录请求.
type LoginRequest struct {
	Username string `binding:"required" json:"username"`
	Password string `binding:"required" json:"password"`
}

// UserInfo 用户信息（响应用，不含密码哈希）.
type UserInfo struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	LastLoginAt string `json:"last_login_at,omitempty"`
}

// LoginResponse 登录响应，Token 供后续请求的 Authorization: Bearer 使用.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expires_at"`
	User      UserInfo `json:"user"`
}

// ChangePasswordRequest 修改密码请求.
type ChangePasswordRequest struct {
	OldPassword string `binding:"required" json:"old_password"`
	NewPassword string `binding:"required" json:"new_password" rule:"min=6,max=128"`
}

// UpdateUserRoleRequest 管理员调整用户角色请求.
type UpdateUserRoleRequest struct {
	Role string `binding:"required" json:"role" rule:"oneof=viewer editor admin"`
}
