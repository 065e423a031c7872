package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guardpost/access-api/internal/api/middleware"
	"github.com/guardpost/access-api/internal/core/authz"
)

// Operation names consulted in the policy registry. The route-level rule for
// these endpoints only requires an authenticated principal; the operation
// rule evaluated inside the handler narrows it to the specific permission.
const (
	OpProjectRead     = "project.read"
	OpProjectRefactor = "project.refactor"
)

// ProjectHandler demonstrates operation-level guards layered on top of the
// route guard.
type ProjectHandler struct {
	registry *authz.Registry
}

func NewProjectHandler(registry *authz.Registry) *ProjectHandler {
	return &ProjectHandler{registry: registry}
}

// List requires the project.read operation (READ authority).
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	if err := middleware.RequireOperation(c, h.registry, OpProjectRead); err != nil {
		return err
	}
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"projects": []string{"access-api"},
		"viewer":   principal.Username,
	})
}

// Refactor requires the project.refactor operation (REFACTOR authority),
// which only the DEVELOPER role's permission set grants.
//
// @Summary      Refactor a project
// @Tags         projects
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /projects/refactor [post]
func (h *ProjectHandler) Refactor(c echo.Context) error {
	if err := middleware.RequireOperation(c, h.registry, OpProjectRefactor); err != nil {
		return err
	}
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":       "refactor scheduled",
		"requested_by": principal.Username,
	})
}
