package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/application/usecase"
)

// AssetFormField campo multipart con la imagen.
const AssetFormField = "asset"

// AssetHandler subida y listado de imágenes de producto.
type AssetHandler struct {
	uc *usecase.AssetUseCase
}

func NewAssetHandler(uc *usecase.AssetUseCase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir imagen (JPEG, PNG o GIF)
// @Tags         assets
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        asset  formData  file  true  "Imagen"
// @Success      201  {object}  dto.AssetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/assets/upload [post]
func (h *AssetHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile(AssetFormField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo '" + AssetFormField + "' requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Upload(c.UserContext(), fh.Filename, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar imágenes subidas
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AssetResponse
// @Router       /api/assets [get]
func (h *AssetHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
