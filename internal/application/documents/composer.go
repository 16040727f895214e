// Package documents crea y consulta facturas, pedidos y devoluciones (cabecera + líneas).
package documents

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/application/ports"
	"github.com/Maiar0/inventory-web-backend/internal/application/validation"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

// ComposeInput petición de creación ya autenticada.
type ComposeInput struct {
	Kind           entity.DocumentKind
	UserID         string
	IdempotencyKey string // opcional
	Request        dto.CreateDocumentRequest
}

// ComposeResult documento creado (o reproducido) con sus líneas y movimientos.
type ComposeResult struct {
	Document  *entity.Document
	Movements []*entity.StockMovement
	Replayed  bool
}

// ComposerOptions reglas de negocio configurables.
type ComposerOptions struct {
	AllowNegativeStock bool
}

// Composer escribe cabecera, líneas y movimientos de un documento en una sola transacción.
type Composer struct {
	tx      repository.TxRunner
	audit   ports.AuditSink
	metrics ports.ComposeMetrics
	opts    ComposerOptions
	now     func() time.Time
}

// NewComposer construye el caso de uso. audit y metrics pueden ser nil.
func NewComposer(tx repository.TxRunner, audit ports.AuditSink, metrics ports.ComposeMetrics, opts ComposerOptions) *Composer {
	if audit == nil {
		audit = ports.NopAudit{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Composer{tx: tx, audit: audit, metrics: metrics, opts: opts, now: time.Now}
}

// Compose valida la entrada y crea el documento. Si algo falla dentro de la transacción
// no queda ni cabecera, ni líneas, ni movimientos.
func (c *Composer) Compose(ctx context.Context, in ComposeInput) (*ComposeResult, error) {
	start := c.now()
	res, err := c.compose(ctx, in)
	elapsed := c.now().Sub(start)

	outcome := outcomeOf(res, err)
	c.metrics.ObserveCompose(string(in.Kind), outcome, len(in.Request.Items), elapsed)

	if err != nil {
		c.audit.Record("document.compose_failed", map[string]any{
			"kind":    in.Kind,
			"user_id": in.UserID,
			"lines":   len(in.Request.Items),
			"error":   err.Error(),
		})
		return nil, err
	}
	event := "document.created"
	if res.Replayed {
		event = "document.replayed"
	}
	c.audit.Record(event, map[string]any{
		"kind":       in.Kind,
		"doc_id":     res.Document.ID,
		"user_id":    in.UserID,
		"lines":      len(res.Document.Items),
		"total":      res.Document.Total.String(),
		"idem_key":   in.IdempotencyKey,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return res, nil
}

func (c *Composer) compose(ctx context.Context, in ComposeInput) (*ComposeResult, error) {
	if !in.Kind.Valid() {
		return nil, domain.NewValidationError("kind", fmt.Sprintf("tipo de documento desconocido: %q", in.Kind))
	}
	if err := validation.Struct(in.Request); err != nil {
		return nil, err
	}

	now := c.now().UTC()
	doc, err := buildDocument(in, now)
	if err != nil {
		return nil, err
	}

	var result *ComposeResult
	err = c.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if in.IdempotencyKey != "" {
			replay, err := findReplay(ctx, repos, in)
			if err != nil {
				return err
			}
			if replay != nil {
				result = replay
				return nil
			}
		}

		if err := c.checkReferences(ctx, repos, doc); err != nil {
			return err
		}

		docID, err := repos.Documents.CreateHeader(ctx, doc)
		if err != nil {
			return err
		}
		doc.ID = docID

		if in.IdempotencyKey != "" {
			if err := repos.Idempotency.Save(ctx, &entity.IdempotencyKey{
				Key: in.IdempotencyKey, Kind: doc.Kind, DocID: docID, CreatedAt: now,
			}); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					return errKeyTaken
				}
				return err
			}
		}

		for _, it := range doc.Items {
			it.DocID = docID
			id, err := repos.Documents.AddItem(ctx, it)
			if err != nil {
				return err
			}
			it.ID = id
		}

		movements := make([]*entity.StockMovement, 0, len(doc.Items))
		sign := doc.Kind.StockSign()
		for _, it := range doc.Items {
			m := &entity.StockMovement{
				ProductID:    it.ProductID,
				ChangeQty:    sign * it.Quantity,
				UnitPrice:    decimal.NewNullDecimal(it.UnitPrice),
				MovementDate: doc.Date,
				SourceRef:    doc.SourceRef(),
				CreatedBy:    in.UserID,
				CreatedAt:    now,
			}
			id, err := repos.Movements.Append(ctx, m)
			if err != nil {
				return err
			}
			m.ID = id
			movements = append(movements, m)
		}

		result = &ComposeResult{Document: doc, Movements: movements}
		return nil
	})
	if errors.Is(err, errKeyTaken) {
		return c.replayTaken(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// errKeyTaken: otra petición con el mismo token confirmó primero.
var errKeyTaken = errors.New("token de idempotencia registrado por otra petición")

// replayTaken relee, en una transacción nueva, el documento de la petición que ganó la carrera.
func (c *Composer) replayTaken(ctx context.Context, in ComposeInput) (*ComposeResult, error) {
	var result *ComposeResult
	err := c.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		replay, err := findReplay(ctx, repos, in)
		if err != nil {
			return err
		}
		if replay == nil {
			return fmt.Errorf("%w: token de idempotencia %q en uso", domain.ErrConflict, in.IdempotencyKey)
		}
		result = replay
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// buildDocument calcula line_total, subtotal y totales según el tipo.
func buildDocument(in ComposeInput, now time.Time) (*entity.Document, error) {
	req := in.Request
	verr := &domain.ValidationError{}
	items := make([]*entity.DocumentItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for i, r := range req.Items {
		validation.MaxDecimals(verr, fmt.Sprintf("items[%d].unit_price", i), r.UnitPrice, entity.PriceScale)
		it := &entity.DocumentItem{ProductID: r.ProductID, Quantity: r.Quantity, UnitPrice: r.UnitPrice}
		it.LineTotal = it.ExpectedLineTotal()
		if r.LineTotal.Valid && !r.LineTotal.Decimal.Equal(it.LineTotal) {
			verr.Add(fmt.Sprintf("items[%d].line_total", i),
				fmt.Sprintf("debe ser quantity*unit_price (%s)", it.LineTotal.String()))
		}
		subtotal = subtotal.Add(it.LineTotal)
		items = append(items, it)
	}
	if in.Kind == entity.KindInvoice {
		validation.MaxDecimals(verr, "shipping_cost", req.ShippingCost, entity.MoneyScale)
		validation.MaxDecimals(verr, "tax_rate", req.TaxRate, 6)
		if req.TaxAmount.Valid {
			validation.MaxDecimals(verr, "tax_amount", req.TaxAmount.Decimal, entity.MoneyScale)
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	doc := &entity.Document{
		Kind:            in.Kind,
		CounterpartyRef: req.CounterpartyRef,
		ExternalRef:     req.ExternalRef,
		Date:            req.Date.UTC(),
		Status:          in.Kind.InitialStatus(),
		Comments:        req.Comments,
		CreatedBy:       in.UserID,
		Subtotal:        subtotal,
		Total:           subtotal,
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           items,
	}
	if in.Kind == entity.KindInvoice {
		doc.ShippingMethod = req.ShippingMethod
		doc.ShippingCost = req.ShippingCost
		doc.TaxRate = req.TaxRate
		doc.TaxAmount = subtotal.Mul(req.TaxRate).Round(2)
		if req.TaxAmount.Valid {
			doc.TaxAmount = req.TaxAmount.Decimal
		}
		doc.Total = subtotal.Add(doc.TaxAmount).Add(doc.ShippingCost)
	}
	return doc, nil
}

// findReplay devuelve el documento ya creado con el mismo token, o nil si el token es nuevo.
func findReplay(ctx context.Context, repos repository.TxRepos, in ComposeInput) (*ComposeResult, error) {
	key, err := repos.Idempotency.Find(ctx, in.IdempotencyKey)
	if err != nil || key == nil {
		return nil, err
	}
	if key.Kind != in.Kind {
		return nil, fmt.Errorf("%w: el token de idempotencia ya se usó para un documento %s", domain.ErrConflict, key.Kind)
	}
	doc, err := repos.Documents.GetByID(ctx, key.Kind, key.DocID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.Consistency("token %q apunta a %s/%d inexistente", key.Key, key.Kind, key.DocID)
	}
	if doc.Items, err = repos.Documents.ListItems(ctx, doc.ID); err != nil {
		return nil, err
	}
	return &ComposeResult{Document: doc, Replayed: true}, nil
}

// checkReferences valida dentro de la transacción las referencias a otras filas.
func (c *Composer) checkReferences(ctx context.Context, repos repository.TxRepos, doc *entity.Document) error {
	if doc.Kind == entity.KindReturn {
		orderID, err := strconv.ParseInt(doc.CounterpartyRef, 10, 64)
		if err != nil {
			return domain.NewValidationError("counterparty_ref", "debe ser el id del pedido devuelto")
		}
		order, err := repos.Documents.GetByID(ctx, entity.KindOrder, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NewValidationError("counterparty_ref", fmt.Sprintf("pedido %d no existe", orderID))
		}
	}

	verr := &domain.ValidationError{}
	demand := make(map[string]int64)
	var order []string
	for i, it := range doc.Items {
		p, err := repos.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			verr.Add(fmt.Sprintf("items[%d].product_id", i), fmt.Sprintf("producto %q no existe", it.ProductID))
			continue
		}
		if _, seen := demand[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		demand[it.ProductID] += it.Quantity
	}
	if len(verr.Fields) > 0 {
		return verr
	}

	if c.opts.AllowNegativeStock || doc.Kind.StockSign() > 0 {
		return nil
	}
	for _, productID := range order {
		onHand, err := repos.Movements.SumQuantity(ctx, productID)
		if err != nil {
			return err
		}
		if onHand < 0 {
			return domain.Consistency("producto %s con existencias negativas (%d)", productID, onHand)
		}
		if onHand < demand[productID] {
			return fmt.Errorf("%w: producto %s, disponible %d, solicitado %d",
				domain.ErrInsufficientStock, productID, onHand, demand[productID])
		}
	}
	return nil
}

func outcomeOf(res *ComposeResult, err error) string {
	switch {
	case err == nil && res.Replayed:
		return "replayed"
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrConsistency):
		return "conflict"
	default:
		return "error"
	}
}
