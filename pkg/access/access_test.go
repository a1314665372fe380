package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	normal := &Identity{
		UserID:      1,
		Username:    "zhangsan",
		Role:        "user",
		Permissions: []string{"clients"},
	}
	super := &Identity{
		UserID:   2,
		Username: "root",
		Role:     RoleSuperAdmin,
	}

	tests := []struct {
		name           string
		identity       *Identity
		required       string
		superAdminOnly bool
		want           Decision
	}{
		{"普通用户持有权限", normal, "clients", false, DecisionAuthorized},
		{"普通用户缺少权限", normal, "contracts", false, DecisionNoPermission},
		{"普通用户访问超管页面", normal, "", true, DecisionNoPermission},
		{"超管访问任意权限", super, "anything", false, DecisionAuthorized},
		{"超管访问超管页面", super, "", true, DecisionAuthorized},
		{"超管权限集为空仍放行", super, "revenue", false, DecisionAuthorized},
		{"无认证用户", nil, "clients", false, DecisionNoAuth},
		{"无认证用户访问超管页面", nil, "", true, DecisionNoAuth},
		{"无要求直接放行", normal, "", false, DecisionAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.identity, tt.required, tt.superAdminOnly))
		})
	}
}

func TestDecideIsStable(t *testing.T) {
	u := &Identity{Role: "user", Permissions: []string{"dashboard"}}

	// 判定无副作用，重复调用结果一致
	for i := 0; i < 10; i++ {
		assert.Equal(t, DecisionAuthorized, Decide(u, "dashboard", false))
		assert.Equal(t, DecisionNoPermission, Decide(u, "settings", false))
	}
}

func TestRedirectPath(t *testing.T) {
	assert.Equal(t, LoginPath, DecisionNoAuth.RedirectPath())
	assert.Equal(t, AccessDeniedPath, DecisionNoPermission.RedirectPath())
	assert.Equal(t, "", DecisionAuthorized.RedirectPath())
}

func TestAdminRoleAlsoBypasses(t *testing.T) {
	admin := &Identity{Role: RoleAdmin}
	assert.Equal(t, DecisionAuthorized, Decide(admin, "anything", false))
	assert.Equal(t, DecisionAuthorized, Decide(admin, "", true))
}
