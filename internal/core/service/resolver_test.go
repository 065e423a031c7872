package service

import (
	"errors"
	"testing"

	"github.com/guardpost/access-api/internal/core/domain"
)

func adminUser() domain.User {
	return domain.User{
		Username: "fernando",
		Roles: []domain.Role{
			{
				ID: domain.RoleAdmin,
				Permissions: []domain.Permission{
					{Name: "CREATE"}, {Name: "READ"}, {Name: "UPDATE"}, {Name: "DELETE"},
				},
			},
		},
	}
}

func TestResolveAuthorities_RolesAndPermissions(t *testing.T) {
	authorities, err := ResolveAuthorities(adminUser())
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}

	want := []string{"ROLE_ADMIN", "CREATE", "READ", "UPDATE", "DELETE"}
	for _, w := range want {
		if !authorities.Has(w) {
			t.Fatalf("expected authority %q, got %v", w, authorities.Values())
		}
	}
	if len(authorities) != len(want) {
		t.Fatalf("expected exactly %d authorities, got %v", len(want), authorities.Values())
	}
}

func TestResolveAuthorities_DuplicatesCollapse(t *testing.T) {
	user := domain.User{
		Username: "dual",
		Roles: []domain.Role{
			{ID: domain.RoleUser, Permissions: []domain.Permission{{Name: "READ"}, {Name: "CREATE"}}},
			{ID: domain.RoleInvited, Permissions: []domain.Permission{{Name: "READ"}}},
		},
	}

	authorities, err := ResolveAuthorities(user)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	// ROLE_USER, ROLE_INVITED, READ, CREATE — READ appears once.
	if len(authorities) != 4 {
		t.Fatalf("expected 4 authorities, got %v", authorities.Values())
	}
}

func TestResolveAuthorities_Idempotent(t *testing.T) {
	user := adminUser()
	first, err := ResolveAuthorities(user)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := ResolveAuthorities(user)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("resolve not idempotent: %v vs %v", first.Values(), second.Values())
	}
}

func TestResolveAuthorities_EmptyPermissionSet(t *testing.T) {
	user := domain.User{
		Username: "bare",
		Roles:    []domain.Role{{ID: domain.RoleInvited, Permissions: []domain.Permission{}}},
	}
	authorities, err := ResolveAuthorities(user)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if len(authorities) != 1 || !authorities.Has("ROLE_INVITED") {
		t.Fatalf("expected only ROLE_INVITED, got %v", authorities.Values())
	}
}

func TestResolveAuthorities_NilRolesIsIntegrityError(t *testing.T) {
	if _, err := ResolveAuthorities(domain.User{Username: "lazy"}); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestResolveAuthorities_NilPermissionsIsIntegrityError(t *testing.T) {
	user := domain.User{
		Username: "partial",
		Roles:    []domain.Role{{ID: domain.RoleUser}},
	}
	if _, err := ResolveAuthorities(user); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestResolveAuthorities_BlankPermissionNameIsIntegrityError(t *testing.T) {
	user := domain.User{
		Username: "broken",
		Roles: []domain.Role{
			{ID: domain.RoleUser, Permissions: []domain.Permission{{Name: "  "}}},
		},
	}
	if _, err := ResolveAuthorities(user); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestResolveAuthorities_BlankRoleIDIsIntegrityError(t *testing.T) {
	user := domain.User{
		Username: "broken",
		Roles:    []domain.Role{{ID: "", Permissions: []domain.Permission{}}},
	}
	if _, err := ResolveAuthorities(user); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}
