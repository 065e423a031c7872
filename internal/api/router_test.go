package api

import (
	"net/http"
	"testing"

	"github.com/guardpost/access-api/internal/api/handler"
	"github.com/guardpost/access-api/internal/core/domain"
	"github.com/guardpost/access-api/internal/core/service"
)

func resolveSeedUser(t *testing.T, username string, role domain.RoleID, perms ...string) domain.Authorities {
	t.Helper()
	permissions := make([]domain.Permission, 0, len(perms))
	for _, p := range perms {
		permissions = append(permissions, domain.Permission{Name: p})
	}
	authorities, err := service.ResolveAuthorities(domain.User{
		Username: username,
		Roles:    []domain.Role{{ID: role, Permissions: permissions}},
	})
	if err != nil {
		t.Fatalf("resolve %s: %v", username, err)
	}
	return authorities
}

// Mirrors the seeded demo graph: fernando is ADMIN with CRUD but no REFACTOR,
// gissy is INVITED with READ only.
func TestPolicyRegistry_SeedScenarios(t *testing.T) {
	registry := NewPolicyRegistry()

	fernando := resolveSeedUser(t, "fernando", domain.RoleAdmin, "CREATE", "READ", "UPDATE", "DELETE")
	gissy := resolveSeedUser(t, "gissy", domain.RoleInvited, "READ")

	if d := registry.DecideOperation(handler.OpProjectRefactor, fernando); d.Allowed {
		t.Fatalf("REFACTOR operation must deny fernando: %+v", d)
	}
	if d := registry.DecideOperation(handler.OpProjectRead, fernando); !d.Allowed {
		t.Fatalf("READ operation must allow fernando: %+v", d)
	}

	if d := registry.DecideRoute(http.MethodGet, "/auth/hello-secured2", gissy); d.Allowed {
		t.Fatalf("CREATE route must deny gissy: %+v", d)
	}
	if d := registry.DecideRoute(http.MethodGet, "/auth/hello-secured", gissy); !d.Allowed {
		t.Fatalf("READ route must allow gissy: %+v", d)
	}
	if d := registry.DecideRoute(http.MethodGet, "/auth/hello", nil); !d.Allowed {
		t.Fatalf("public route must allow an unauthenticated caller: %+v", d)
	}
	if d := registry.DecideRoute(http.MethodGet, "/projects", gissy); !d.Allowed {
		t.Fatalf("any authenticated role may reach /projects: %+v", d)
	}
	if d := registry.DecideRoute(http.MethodDelete, "/projects", gissy); d.Allowed {
		t.Fatalf("unregistered method/route pair must deny: %+v", d)
	}
}
