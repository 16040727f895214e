package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Maiar0/inventory-web-backend/internal/application/catalog"
	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
)

// CatalogHandler catálogo con existencias derivadas del ledger.
type CatalogHandler struct {
	uc *catalog.CatalogUseCase
}

func NewCatalogHandler(uc *catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// GetPage godoc
// @Summary      Página del catálogo ordenada por nombre
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Página (1-indexada)"  default(1)
// @Param        per_page  query  int  false  "Tamaño de página"     default(100)
// @Success      200  {object}  dto.CatalogPageResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) GetPage(c *fiber.Ctx) error {
	out, err := h.uc.GetPage(c.UserContext(), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetOne godoc
// @Summary      Fila del catálogo de un producto
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.CatalogRow
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/{id} [get]
func (h *CatalogHandler) GetOne(c *fiber.Ctx) error {
	out, err := h.uc.GetOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// pageFrom lee page y per_page; valores ausentes o no numéricos quedan en 0 y los normaliza el caso de uso.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Page: c.QueryInt("page", 0), PerPage: c.QueryInt("per_page", 0)}
}
