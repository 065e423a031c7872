package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GreetingHandler serves the demo endpoints that exercise the route-level
// guard: one public route and two guarded by individual permissions.
type GreetingHandler struct{}

func NewGreetingHandler() *GreetingHandler {
	return &GreetingHandler{}
}

// Hello is public: its route is registered with an always-allow rule, so
// anonymous callers pass.
//
// @Summary      Public greeting
// @Tags         greeting
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/hello [get]
func (h *GreetingHandler) Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Hello World"})
}

// HelloSecured requires the READ authority at route level.
//
// @Summary      Greeting for READ holders
// @Tags         greeting
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/hello-secured [get]
func (h *GreetingHandler) HelloSecured(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":  "Hello World Secured",
		"username": principal.Username,
	})
}

// HelloSecured2 requires the CREATE authority at route level.
//
// @Summary      Greeting for CREATE holders
// @Tags         greeting
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/hello-secured2 [get]
func (h *GreetingHandler) HelloSecured2(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":  "Hello World Secured 2",
		"username": principal.Username,
	})
}
