package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guardpost/access-api/internal/core/domain"
	"github.com/guardpost/access-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type principalResponse struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

// Login authenticates a username/password pair and returns the principal
// snapshot with its resolved authorities.
//
// @Summary      Authenticate
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  principalResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	principal, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPrincipalResponse(principal))
}

// Me returns the authenticated caller's principal snapshot.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Success      200  {object}  principalResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrincipalResponse(principal))
}

func toPrincipalResponse(p *domain.Principal) principalResponse {
	return principalResponse{
		Username:    p.Username,
		Authorities: p.Authorities.Values(),
	}
}
