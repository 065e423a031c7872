package authz

import (
	"net/http"
	"testing"

	"github.com/guardpost/access-api/internal/core/domain"
)

func TestRegistry_EmptyTableDeniesEverything(t *testing.T) {
	reg := NewRegistry()
	granted := domain.NewAuthorities("ROLE_ADMIN", "READ", "CREATE", "UPDATE", "DELETE")

	if d := reg.DecideRoute(http.MethodGet, "/anything", granted); d.Allowed {
		t.Fatalf("empty registry must deny routes, got %+v", d)
	}
	if d := reg.DecideOperation("any.op", granted); d.Allowed {
		t.Fatalf("empty registry must deny operations, got %+v", d)
	}
}

func TestRegistry_RouteMatching(t *testing.T) {
	reg := NewRegistry().
		Route(http.MethodGet, "/auth/hello", AlwaysAllow()).
		Route(http.MethodGet, "/auth/hello-secured", HasAuthority("READ")).
		Route(http.MethodGet, "/admin/*", HasAuthority("ROLE_ADMIN"))

	reader := domain.NewAuthorities("READ")
	admin := domain.NewAuthorities("ROLE_ADMIN")

	if d := reg.DecideRoute(http.MethodGet, "/auth/hello", nil); !d.Allowed {
		t.Fatalf("public route denied anonymous caller: %+v", d)
	}
	if d := reg.DecideRoute(http.MethodGet, "/auth/hello-secured", reader); !d.Allowed {
		t.Fatalf("READ holder denied: %+v", d)
	}
	if d := reg.DecideRoute(http.MethodPost, "/auth/hello", nil); d.Allowed {
		t.Fatalf("method must be part of the rule key: %+v", d)
	}
	if d := reg.DecideRoute(http.MethodGet, "/admin/users/42", admin); !d.Allowed {
		t.Fatalf("wildcard pattern did not match: %+v", d)
	}
	if d := reg.DecideRoute(http.MethodGet, "/admin/users/42", reader); d.Allowed {
		t.Fatalf("wildcard rule wrongly allowed non-admin: %+v", d)
	}
	if d := reg.DecideRoute(http.MethodGet, "/unregistered", admin); d.Allowed {
		t.Fatalf("unregistered route must deny: %+v", d)
	}
}

func TestRegistry_ExactRouteWinsOverWildcard(t *testing.T) {
	reg := NewRegistry().
		Route(http.MethodGet, "/admin/*", AlwaysDeny()).
		Route(http.MethodGet, "/admin/ping", AlwaysAllow())

	if d := reg.DecideRoute(http.MethodGet, "/admin/ping", nil); !d.Allowed {
		t.Fatalf("exact rule must win over wildcard: %+v", d)
	}
	if d := reg.DecideRoute(http.MethodGet, "/admin/other", nil); d.Allowed {
		t.Fatalf("wildcard rule must still apply elsewhere: %+v", d)
	}
}

func TestRegistry_OperationNarrowsRouteAllow(t *testing.T) {
	reg := NewRegistry().
		Route(http.MethodPost, "/projects/refactor", HasAnyAuthority("ROLE_ADMIN", "ROLE_DEVELOPER")).
		Operation("project.refactor", HasAuthority("REFACTOR"))

	// fernando: ADMIN, holds CRUD but not REFACTOR.
	fernando := domain.NewAuthorities("ROLE_ADMIN", "CREATE", "READ", "UPDATE", "DELETE")

	if d := reg.DecideRoute(http.MethodPost, "/projects/refactor", fernando); !d.Allowed {
		t.Fatalf("route level should allow an admin: %+v", d)
	}
	if d := reg.DecideOperation("project.refactor", fernando); d.Allowed {
		t.Fatalf("operation level must deny without REFACTOR: %+v", d)
	}

	// brian: DEVELOPER, holds REFACTOR.
	brian := domain.NewAuthorities("ROLE_DEVELOPER", "CREATE", "READ", "UPDATE", "DELETE", "REFACTOR")
	if d := reg.DecideOperation("project.refactor", brian); !d.Allowed {
		t.Fatalf("REFACTOR holder denied: %+v", d)
	}
}
