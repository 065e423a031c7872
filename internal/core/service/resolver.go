package service

import (
	"fmt"
	"strings"

	"github.com/guardpost/access-api/internal/core/domain"
)

// ResolveAuthorities walks the user's role/permission graph and returns the
// flattened authority set: one "ROLE_<id>" entry per role plus the name of
// every permission reachable through any role. Duplicates collapse silently —
// the same permission is often reachable through several roles.
//
// The graph must be eagerly loaded. A nil role slice or a nil permission
// slice means the credential store handed over a partial graph, and resolving
// it would silently under-grant; that is treated as a data-integrity failure,
// as is a blank role identifier or permission name.
func ResolveAuthorities(user domain.User) (domain.Authorities, error) {
	if user.Roles == nil {
		return nil, fmt.Errorf("%w: role set not loaded for user %q", domain.ErrDataIntegrity, user.Username)
	}

	authorities := make(domain.Authorities)
	for _, role := range user.Roles {
		if strings.TrimSpace(string(role.ID)) == "" {
			return nil, fmt.Errorf("%w: role with blank identifier on user %q", domain.ErrDataIntegrity, user.Username)
		}
		if role.Permissions == nil {
			return nil, fmt.Errorf("%w: permission set not loaded for role %s", domain.ErrDataIntegrity, role.ID)
		}
		authorities[domain.RolePrefix+string(role.ID)] = struct{}{}

		for _, perm := range role.Permissions {
			if strings.TrimSpace(perm.Name) == "" {
				return nil, fmt.Errorf("%w: role %s references a permission with a blank name", domain.ErrDataIntegrity, role.ID)
			}
			authorities[perm.Name] = struct{}{}
		}
	}
	return authorities, nil
}
