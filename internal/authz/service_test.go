package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceUserWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy(RoleSupport, "/admin/products/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetUserRoles(1, []string{RoleSupport}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	allow, err := svc.EnforceUser(1, "/api/v1/admin/products/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceUser(1, "/api/v1/admin/products/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestBootstrapBuiltinRolesAdminFullAccess(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetUserRoles(7, []string{RoleAdmin}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	cases := []struct {
		obj string
		act string
	}{
		{"/api/v1/admin/products", "POST"},
		{"/api/v1/admin/orders/3", "DELETE"},
		{"/api/v1/admin/users/5", "PUT"},
		{"/api/v1/admin/dashboard", "GET"},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceUser(7, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.act, tc.obj, err)
		}
		if !allow {
			t.Fatalf("expected admin allow for %s %s", tc.act, tc.obj)
		}
	}
}

func TestBootstrapBuiltinRolesSupportReadOnly(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetUserRoles(9, []string{RoleSupport}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	allow, err := svc.EnforceUser(9, "/api/v1/admin/orders", "GET")
	if err != nil {
		t.Fatalf("enforce read failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected support read allow")
	}

	allow, err = svc.EnforceUser(9, "/api/v1/admin/orders/12/deliver", "PUT")
	if err != nil {
		t.Fatalf("enforce deliver failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected support deliver allow")
	}

	allow, err = svc.EnforceUser(9, "/api/v1/admin/products", "POST")
	if err != nil {
		t.Fatalf("enforce write failed: %v", err)
	}
	if allow {
		t.Fatalf("expected support write deny")
	}
}

func TestSetUserRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant ops policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("finance", "/admin/dashboard", "GET"); err != nil {
		t.Fatalf("grant finance policy failed: %v", err)
	}
	if err := svc.SetUserRoles(2, []string{"ops"}); err != nil {
		t.Fatalf("assign ops failed: %v", err)
	}
	if err := svc.SetUserRoles(2, []string{"finance"}); err != nil {
		t.Fatalf("override with finance failed: %v", err)
	}

	roles, err := svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get user roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:finance" {
		t.Fatalf("unexpected roles after override: %v", roles)
	}

	allow, err := svc.EnforceUser(2, "/api/v1/admin/orders", "GET")
	if err != nil {
		t.Fatalf("enforce revoked failed: %v", err)
	}
	if allow {
		t.Fatalf("expected ops policy to be revoked")
	}
}
