package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guardpost/access-api/internal/api/metrics"
	"github.com/guardpost/access-api/internal/core/authz"
	"github.com/guardpost/access-api/internal/core/domain"
	"github.com/guardpost/access-api/internal/core/ports"
)

// PrincipalKey is the echo context key the guard stores the authenticated
// principal under.
const PrincipalKey = "principal"

// Guard enforces the route-level policy table. It authenticates HTTP Basic
// credentials when they are presented, then evaluates the expression
// registered for the matched route (method + registered path pattern)
// against the caller's authorities. Routes with no registered expression
// deny — the table is fail-closed.
//
// Status mapping: bad credentials → 401; anonymous caller denied → 401 with
// a Basic challenge; authenticated caller denied → 403.
func Guard(registry *authz.Registry, auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var granted domain.Authorities

			username, secret, hasCreds := c.Request().BasicAuth()
			if hasCreds {
				principal, err := auth.Authenticate(c.Request().Context(), username, secret)
				if err != nil {
					return err
				}
				c.Set(PrincipalKey, principal)
				granted = principal.Authorities
			}

			decision := registry.DecideRoute(c.Request().Method, c.Path(), granted)
			metrics.AuthzDecisionsTotal.WithLabelValues("route", decisionLabel(decision)).Inc()
			if !decision.Allowed {
				if !hasCreds {
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="access-api"`)
					return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
				}
				return echo.NewHTTPError(http.StatusForbidden, "forbidden: "+decision.Reason)
			}

			return next(c)
		}
	}
}

// RequireOperation evaluates the operation-level rule immediately before an
// operation body runs. It narrows the route-level decision: an operation
// deny wins even though the route guard already allowed the request.
func RequireOperation(c echo.Context, registry *authz.Registry, operation string) error {
	var granted domain.Authorities
	if principal, ok := c.Get(PrincipalKey).(*domain.Principal); ok {
		granted = principal.Authorities
	}

	decision := registry.DecideOperation(operation, granted)
	metrics.AuthzDecisionsTotal.WithLabelValues("operation", decisionLabel(decision)).Inc()
	if !decision.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden: "+decision.Reason)
	}
	return nil
}

func decisionLabel(d authz.Decision) string {
	if d.Allowed {
		return "allow"
	}
	return "deny"
}
