package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/application/ports"
	"github.com/Maiar0/inventory-web-backend/internal/application/validation"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

// AdjustmentUseCase registra ajustes manuales de existencias. Cada ajuste y su
// movimiento se escriben en la misma transacción.
type AdjustmentUseCase struct {
	txRunner           repository.TxRunner
	adjustments        repository.StockAdjustmentRepository
	audit              ports.AuditSink
	allowNegativeStock bool
	maxPerPage         int
	now                func() time.Time
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	txRunner repository.TxRunner,
	adjustments repository.StockAdjustmentRepository,
	audit ports.AuditSink,
	allowNegativeStock bool,
	maxPerPage int,
) *AdjustmentUseCase {
	if audit == nil {
		audit = ports.NopAudit{}
	}
	return &AdjustmentUseCase{
		txRunner:           txRunner,
		adjustments:        adjustments,
		audit:              audit,
		allowNegativeStock: allowNegativeStock,
		maxPerPage:         maxPerPage,
		now:                time.Now,
	}
}

// Register valida el ajuste y lo aplica. unit_price es obligatorio en entradas.
func (uc *AdjustmentUseCase) Register(ctx context.Context, userID string, in dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.ChangeQty > 0 && !in.UnitPrice.Valid {
		return nil, domain.NewValidationError("unit_price", "es requerido en entradas de stock")
	}
	if in.UnitPrice.Valid {
		verr := &domain.ValidationError{}
		validation.MaxDecimals(verr, "unit_price", in.UnitPrice.Decimal, entity.PriceScale)
		if len(verr.Fields) > 0 {
			return nil, verr
		}
	}

	now := uc.now().UTC()
	adj := &entity.StockAdjustment{
		ProductID:      in.ProductID,
		ChangeQty:      in.ChangeQty,
		UnitPrice:      in.UnitPrice,
		Reason:         in.Reason,
		Comments:       in.Comments,
		AdjustmentDate: now,
		CreatedBy:      userID,
		CreatedAt:      now,
	}
	if in.AdjustmentDate != nil {
		adj.AdjustmentDate = in.AdjustmentDate.UTC()
	}

	var movementID int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewValidationError("product_id", fmt.Sprintf("producto %q no existe", in.ProductID))
		}

		if in.ChangeQty < 0 && !uc.allowNegativeStock {
			onHand, err := repos.Movements.SumQuantity(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if onHand+in.ChangeQty < 0 {
				return fmt.Errorf("%w: producto %s, disponible %d, ajuste %d",
					domain.ErrInsufficientStock, in.ProductID, onHand, in.ChangeQty)
			}
		}

		id, err := repos.Adjustments.Create(ctx, adj)
		if err != nil {
			return err
		}
		adj.ID = id

		movementID, err = repos.Movements.Append(ctx, &entity.StockMovement{
			ProductID:    adj.ProductID,
			ChangeQty:    adj.ChangeQty,
			UnitPrice:    adj.UnitPrice,
			MovementDate: adj.AdjustmentDate,
			SourceRef:    adj.SourceRef(),
			CreatedBy:    userID,
			CreatedAt:    now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record("stock.adjusted", map[string]any{
		"adjustment_id": adj.ID,
		"movement_id":   movementID,
		"product_id":    adj.ProductID,
		"change_qty":    adj.ChangeQty,
		"reason":        adj.Reason,
		"user_id":       userID,
	})
	out := toAdjustmentResponse(adj)
	out.MovementID = movementID
	return &out, nil
}

// Get devuelve un ajuste. domain.ErrNotFound si no existe.
func (uc *AdjustmentUseCase) Get(ctx context.Context, id int64) (*dto.AdjustmentResponse, error) {
	adj, err := uc.adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.ErrNotFound
	}
	out := toAdjustmentResponse(adj)
	return &out, nil
}

// List devuelve ajustes, más recientes primero.
func (uc *AdjustmentUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.AdjustmentListResponse, error) {
	page.Normalize(uc.maxPerPage)
	list, err := uc.adjustments.List(ctx, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := uc.adjustments.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.AdjustmentListResponse{
		Items: make([]dto.AdjustmentResponse, 0, len(list)),
		Page:  dto.PageResponse{Page: page.Page, PerPage: page.PerPage, Total: total},
	}
	for _, a := range list {
		out.Items = append(out.Items, toAdjustmentResponse(a))
	}
	return out, nil
}

func toAdjustmentResponse(a *entity.StockAdjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:             a.ID,
		ProductID:      a.ProductID,
		ChangeQty:      a.ChangeQty,
		UnitPrice:      nullablePrice(a.UnitPrice),
		Reason:         a.Reason,
		Comments:       a.Comments,
		AdjustmentDate: a.AdjustmentDate,
		CreatedBy:      a.CreatedBy,
	}
}

func nullablePrice(p decimal.NullDecimal) *decimal.Decimal {
	if !p.Valid {
		return nil
	}
	d := p.Decimal
	return &d
}
