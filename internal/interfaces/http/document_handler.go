package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Maiar0/inventory-web-backend/internal/application/documents"
	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
)

// Cabeceras del protocolo de creación idempotente.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

// DocumentHandler rutas comunes de facturas, pedidos y devoluciones; una instancia por tipo.
type DocumentHandler struct {
	kind     entity.DocumentKind
	composer *documents.Composer
	reader   *documents.Reader
	pdf      *documents.PDFUseCase
}

// NewDocumentHandler construye el handler para un tipo de documento.
func NewDocumentHandler(kind entity.DocumentKind, composer *documents.Composer, reader *documents.Reader, pdf *documents.PDFUseCase) *DocumentHandler {
	return &DocumentHandler{kind: kind, composer: composer, reader: reader, pdf: pdf}
}

// Create godoc
// @Summary      Crear documento (cabecera + líneas + movimientos en una transacción)
// @Description  Reenviar el mismo Idempotency-Key devuelve el documento ya creado con 200 e Idempotent-Replayed: true.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind             path    string                     true   "invoices | orders | returns"
// @Param        Idempotency-Key  header  string                     false  "Token de la petición"
// @Param        body             body    dto.CreateDocumentRequest  true   "Documento"
// @Success      201  {object}  dto.DocumentResponse
// @Success      200  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{kind} [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.composer.Compose(c.UserContext(), documents.ComposeInput{
		Kind:           h.kind,
		UserID:         GetUserID(c),
		IdempotencyKey: c.Get(HeaderIdempotencyKey),
		Request:        in,
	})
	if err != nil {
		return respondError(c, err)
	}
	if res.Replayed {
		c.Set(HeaderReplayed, "true")
		return c.JSON(documents.ToDocumentResponse(res.Document))
	}
	return c.Status(fiber.StatusCreated).JSON(documents.ToDocumentResponse(res.Document))
}

// List godoc
// @Summary      Listar documentos del tipo
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        kind              path   string  true   "invoices | orders | returns"
// @Param        status            query  string  false  "Estado"
// @Param        counterparty_ref  query  string  false  "Proveedor, cliente o pedido"
// @Param        from              query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to                query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        page              query  int     false  "Página"
// @Param        per_page          query  int     false  "Tamaño"
// @Success      200  {object}  dto.DocumentListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{kind} [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	q := dto.DocumentListQuery{
		PageRequest:     pageFrom(c),
		Status:          c.Query("status"),
		CounterpartyRef: c.Query("counterparty_ref"),
	}
	var err error
	if q.From, err = dateQuery(c, "from"); err != nil {
		return respondError(c, err)
	}
	if q.To, err = dateQuery(c, "to"); err != nil {
		return respondError(c, err)
	}
	out, err := h.reader.List(c.UserContext(), h.kind, q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener documento con sus líneas
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "invoices | orders | returns"
// @Param        id    path  int     true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.reader.Get(c.UserContext(), h.kind, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(documents.ToDocumentResponse(doc))
}

// Items godoc
// @Summary      Líneas del documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "invoices | orders | returns"
// @Param        id    path  int     true  "ID del documento"
// @Success      200  {array}   dto.DocumentItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id}/items [get]
func (h *DocumentHandler) Items(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.reader.Items(c.UserContext(), h.kind, id)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.DocumentItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, documents.ToItemResponse(it))
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del documento
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string                   true  "invoices | orders | returns"
// @Param        id    path  int                      true  "ID del documento"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id}/status [patch]
func (h *DocumentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.reader.UpdateStatus(c.UserContext(), h.kind, id, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(documents.ToDocumentResponse(doc))
}

// Delete godoc
// @Summary      Eliminar documento (los movimientos generados se conservan)
// @Tags         documents
// @Security     Bearer
// @Param        kind  path  string  true  "invoices | orders | returns"
// @Param        id    path  int     true  "ID del documento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.reader.Delete(c.UserContext(), h.kind, id, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF godoc
// @Summary      Representación PDF del documento
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        kind  path  string  true  "invoices | orders | returns"
// @Param        id    path  int     true  "ID del documento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	data, filename, err := h.pdf.Download(c.UserContext(), h.kind, id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func int64Param(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "debe ser un entero positivo")
	}
	return id, nil
}

func dateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "formato esperado YYYY-MM-DD")
	}
	return &t, nil
}
