package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Maiar0/inventory-web-backend/internal/application/usecase"
)

// NavHandler menú según el rol guardado del usuario.
type NavHandler struct {
	uc *usecase.NavUseCase
}

func NewNavHandler(uc *usecase.NavUseCase) *NavHandler {
	return &NavHandler{uc: uc}
}

// Get godoc
// @Summary      Navegación del usuario autenticado
// @Tags         nav
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NavResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/nav [get]
func (h *NavHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.ForUser(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
