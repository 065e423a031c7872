package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guardpost/access-api/internal/api/middleware"
	"github.com/guardpost/access-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the route guard. Handlers
// behind an authenticated rule call this before touching anything else; a
// missing principal means the guard did not run, which is a wiring bug
// reported as 401 rather than a panic.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	principal, ok := c.Get(middleware.PrincipalKey).(*domain.Principal)
	if !ok || principal == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated principal")
	}
	return principal, nil
}
