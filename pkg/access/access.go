package access

// 超级管理员角色编码，对一切权限检查无条件放行
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// 未授权时的固定跳转目标
const (
	LoginPath        = "/login"
	AccessDeniedPath = "/access-denied"
)

// Identity 已认证用户的授权视图
type Identity struct {
	UserID      int64
	Username    string
	Role        string
	Permissions []string
}

// IsSuperAdminRole 判断角色编码是否为超级管理员
func IsSuperAdminRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// IsSuperAdmin 是否为超级管理员
func (i *Identity) IsSuperAdmin() bool {
	return IsSuperAdminRole(i.Role)
}

// HasPermission 是否持有指定页面权限（超级管理员隐式满足一切检查）
func (i *Identity) HasPermission(page string) bool {
	if i.IsSuperAdmin() {
		return true
	}
	for _, p := range i.Permissions {
		if p == page {
			return true
		}
	}
	return false
}

// Decision 授权判定结果
type Decision int

const (
	// DecisionAuthorized 放行
	DecisionAuthorized Decision = iota
	// DecisionNoAuth 未认证，应跳转登录页
	DecisionNoAuth
	// DecisionNoPermission 已认证但权限不足，应跳转拒绝页
	DecisionNoPermission
)

// RedirectPath 该判定对应的跳转目标
func (d Decision) RedirectPath() string {
	switch d {
	case DecisionNoAuth:
		return LoginPath
	case DecisionNoPermission:
		return AccessDeniedPath
	default:
		return ""
	}
}

// Decide 授权判定
//
// 纯函数，无记忆无副作用，每次检查得到相同结果。
// 授权规则唯一的真实来源：任何中间件或处理器不得自行重推导规则。
//
//  1. 无认证用户 => DecisionNoAuth
//  2. 要求超级管理员而角色不符 => DecisionNoPermission
//  3. 要求具体权限、角色非超级管理员且未持有该权限 => DecisionNoPermission
//  4. 其余 => DecisionAuthorized
func Decide(identity *Identity, required string, superAdminOnly bool) Decision {
	if identity == nil {
		return DecisionNoAuth
	}

	if superAdminOnly && !identity.IsSuperAdmin() {
		return DecisionNoPermission
	}

	if required != "" && !identity.HasPermission(required) {
		return DecisionNoPermission
	}

	return DecisionAuthorized
}
