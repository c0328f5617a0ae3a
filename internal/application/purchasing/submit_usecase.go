package purchasing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-compras/internal/application/dto"
	"github.com/jhoicas/Inventario-compras/internal/domain"
	"github.com/jhoicas/Inventario-compras/internal/domain/entity"
	"github.com/jhoicas/Inventario-compras/internal/domain/receiving"
	"github.com/jhoicas/Inventario-compras/internal/domain/repository"
)

// Config parámetros del flujo de recepción.
type Config struct {
	MaxParallel    int              // ajustes de stock concurrentes por orden (<= 0 usa 4)
	AllowReopen    bool             // permite sacar una orden de Received (sin revertir stock)
	VerifyProducts bool             // consulta cada producto antes de guardar una recepción
	Now            func() time.Time // reloj; nil usa time.Now
	Observer       Observer         // nil descarta los eventos
}

// SubmitUseCase orquesta el guardado de una orden de compra y la conciliación de stock:
//
//	validar → leer estado anterior → Reconcile → guardar orden (A) → ajustar stock (B)
//
// A y B no comparten transacción; si B falla parcialmente se devuelve PartialMutationError.
// No escribe logs: los errores se entregan al caller.
type SubmitUseCase struct {
	orders   repository.PurchaseOrderRepository
	products repository.ProductRepository
	cfg      Config
}

// NewSubmitUseCase construye el caso de uso.
func NewSubmitUseCase(
	orders repository.PurchaseOrderRepository,
	products repository.ProductRepository,
	cfg Config,
) *SubmitUseCase {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 4
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return &SubmitUseCase{orders: orders, products: products, cfg: cfg}
}

// Submit crea (id == "") o reemplaza (id != "") una orden de compra.
// Al entrar a Received aplica exactamente un lote de ajustes de stock (+cantidad por línea).
//
// Errores:
//   - *domain.ValidationError  entrada inválida o transición no permitida; sin efectos.
//   - *FetchError              no se pudo leer la orden anterior (o no existe); sin efectos.
//   - *PersistError            no se pudo guardar la orden; sin efectos en stock.
//   - *PartialMutationError    orden guardada, stock aplicado solo en parte.
func (uc *SubmitUseCase) Submit(ctx context.Context, id string, in dto.PurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	out, received, err := uc.submit(ctx, id, in)
	uc.cfg.Observer.Submitted(Outcome(err, received))
	return out, err
}

func (uc *SubmitUseCase) submit(ctx context.Context, id string, in dto.PurchaseOrderRequest) (*dto.PurchaseOrderResponse, bool, error) {
	order, err := orderFromRequest(in)
	if err != nil {
		return nil, false, err
	}

	var existing *entity.PurchaseOrder
	var previous *entity.POStatus
	if id != "" {
		existing, err = uc.orders.GetByID(ctx, id)
		if err != nil {
			return nil, false, &FetchError{OrderID: id, Err: err}
		}
		if existing == nil {
			return nil, false, &FetchError{OrderID: id, Err: domain.ErrNotFound}
		}
		previous = &existing.Status
	}
	if err := uc.checkTransition(previous, order.Status); err != nil {
		return nil, false, err
	}
	if err := checkReceivedEdit(existing, order); err != nil {
		return nil, false, err
	}

	now := uc.cfg.Now()
	if existing != nil {
		order.ID = existing.ID
		order.CreatedAt = existing.CreatedAt
		if order.BatchNumber == "" {
			order.BatchNumber = existing.BatchNumber
		}
	} else {
		order.ID = uuid.New().String()
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	plan, err := receiving.Reconcile(previous, order)
	if err != nil {
		return nil, false, err
	}
	if plan.Triggered() {
		if order.BatchNumber == "" {
			order.BatchNumber = fmt.Sprintf("B-%d", now.UnixMilli())
		}
		if uc.cfg.VerifyProducts {
			if err := uc.verifyProducts(ctx, order.ID, plan.Mutations); err != nil {
				return nil, false, err
			}
		}
	}

	// Paso A: persistir la orden. Al editar, solo si el estado leído sigue vigente:
	// de dos guardados concurrentes que pasan a Received, uno solo aplica stock.
	if existing != nil {
		err = uc.orders.Replace(ctx, order, existing.Status)
	} else {
		err = uc.orders.Create(ctx, order)
	}
	if existing != nil && errors.Is(err, domain.ErrConflict) {
		return nil, false, fmt.Errorf("%w: la orden %s cambió de estado mientras se guardaba", domain.ErrConflict, order.ID)
	}
	if err != nil {
		return nil, false, &PersistError{OrderID: order.ID, Err: err}
	}

	// Paso B: ajustes de stock. Desde aquí no se abandona el lote aunque el caller cancele.
	if plan.Triggered() {
		applied, failed := applyMutations(context.WithoutCancel(ctx), uc.products, plan.Mutations, uc.cfg.MaxParallel)
		uc.cfg.Observer.StockAdjusted(len(applied), len(failed))
		if len(failed) > 0 {
			return nil, true, newPartialMutationError(order, applied, failed)
		}
	}
	return dto.FromPurchaseOrder(order), plan.Triggered(), nil
}

// RetryStock vuelve a aplicar los ajustes de las líneas indicadas de una orden ya Received.
// Es una acción explícita del operador tras un PartialMutationError; aplicar una línea que
// ya había sido aplicada la suma de nuevo, por eso se piden índices de línea y no productos.
func (uc *SubmitUseCase) RetryStock(ctx context.Context, id string, lines []int) (*dto.StockRetryResponse, error) {
	if len(lines) == 0 {
		return nil, domain.NewValidationError("lines", "indique al menos una línea")
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, &FetchError{OrderID: id, Err: err}
	}
	if order == nil {
		return nil, &FetchError{OrderID: id, Err: domain.ErrNotFound}
	}
	if order.Status != entity.POStatusReceived {
		return nil, fmt.Errorf("%w: la orden %s está en estado %s", domain.ErrConflict, id, order.Status)
	}
	// Plan completo como si entrara a Received; luego se filtran las líneas pedidas.
	plan, err := receiving.Reconcile(nil, order)
	if err != nil {
		return nil, err
	}
	selected := make([]entity.StockMutation, 0, len(lines))
	seen := make(map[int]bool, len(lines))
	for _, idx := range lines {
		if idx < 0 || idx >= len(plan.Mutations) {
			return nil, domain.NewValidationError("lines", fmt.Sprintf("la línea %d no existe en la orden", idx))
		}
		if seen[idx] {
			return nil, domain.NewValidationError("lines", fmt.Sprintf("línea %d repetida", idx))
		}
		seen[idx] = true
		selected = append(selected, plan.Mutations[idx])
	}

	applied, failed := applyMutations(context.WithoutCancel(ctx), uc.products, selected, uc.cfg.MaxParallel)
	uc.cfg.Observer.StockAdjusted(len(applied), len(failed))
	if len(failed) > 0 {
		return nil, newPartialMutationError(order, applied, failed)
	}
	return &dto.StockRetryResponse{OrderID: order.ID, Applied: OutcomesToResponse(applied)}, nil
}

// Get obtiene una orden por ID; domain.ErrNotFound si no existe.
func (uc *SubmitUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return dto.FromPurchaseOrder(order), nil
}

// List lista órdenes, las más recientes primero.
func (uc *SubmitUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	list, err := uc.orders.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *dto.FromPurchaseOrder(po))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// checkTransition política del orquestador: una orden Received no vuelve atrás
// salvo AllowReopen. Aun permitida, la salida de Received no revierte stock.
func (uc *SubmitUseCase) checkTransition(previous *entity.POStatus, next entity.POStatus) error {
	if previous == nil || *previous != entity.POStatusReceived || next == entity.POStatusReceived {
		return nil
	}
	if uc.cfg.AllowReopen {
		return nil
	}
	return &domain.ValidationError{
		Field:  "status",
		Reason: fmt.Sprintf("una orden Received no puede pasar a %s", next),
		Err:    domain.ErrInvalidTransition,
	}
}

// checkReceivedEdit una orden que sigue en Received solo admite cambios de lote y
// vencimientos: proveedor, productos y cantidades quedan fijos porque RetryStock
// reconstruye los ajustes desde las líneas guardadas.
func checkReceivedEdit(existing, order *entity.PurchaseOrder) error {
	if existing == nil || existing.Status != entity.POStatusReceived || order.Status != entity.POStatusReceived {
		return nil
	}
	frozen := func(field, reason string) error {
		return &domain.ValidationError{Field: field, Reason: reason, Err: domain.ErrInvalidTransition}
	}
	if order.SupplierID != existing.SupplierID {
		return frozen("supplierId", "no se puede cambiar el proveedor de una orden recibida")
	}
	if len(order.LineItems) != len(existing.LineItems) {
		return frozen("lineItems", "no se pueden agregar ni quitar líneas de una orden recibida")
	}
	for i, li := range order.LineItems {
		prev := existing.LineItems[i]
		prevQty, _ := prev.Quantity.Int64()
		qty, _ := li.Quantity.Int64()
		if li.ProductID != prev.ProductID || qty != prevQty {
			return frozen(fmt.Sprintf("lineItems[%d]", i), "no se puede cambiar producto ni cantidad de una orden recibida")
		}
	}
	return nil
}

// verifyProducts confirma que cada producto del plan existe antes de guardar la orden.
func (uc *SubmitUseCase) verifyProducts(ctx context.Context, orderID string, mutations []entity.StockMutation) error {
	checked := make(map[string]bool, len(mutations))
	for _, m := range mutations {
		if checked[m.ProductID] {
			continue
		}
		checked[m.ProductID] = true
		p, err := uc.products.GetByID(ctx, m.ProductID)
		if err != nil {
			return &FetchError{OrderID: orderID, ProductID: m.ProductID, Err: err}
		}
		if p == nil {
			return domain.NewValidationError(
				fmt.Sprintf("lineItems[%d].productId", m.LineIndex),
				fmt.Sprintf("el producto %s no existe", m.ProductID),
			)
		}
	}
	return nil
}

// orderFromRequest valida el formulario completo antes de cualquier llamada remota.
func orderFromRequest(in dto.PurchaseOrderRequest) (*entity.PurchaseOrder, error) {
	if strings.TrimSpace(in.SupplierID) == "" {
		return nil, domain.NewValidationError("supplierId", "proveedor requerido")
	}
	if in.Status == "" {
		in.Status = entity.POStatusPending
	}
	if !in.Status.IsValid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("estado desconocido %q", in.Status))
	}
	if len(in.LineItems) == 0 {
		return nil, domain.NewValidationError("lineItems", "la orden debe tener al menos una línea")
	}
	lines := make([]entity.LineItem, 0, len(in.LineItems))
	for i, li := range in.LineItems {
		productID := strings.TrimSpace(li.ProductID)
		if productID == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("lineItems[%d].productId", i), "producto requerido")
		}
		qty, err := receiving.ParseQuantity(li.Quantity)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("lineItems[%d].quantity", i), err.Error())
		}
		lines = append(lines, entity.LineItem{
			ProductID:  productID,
			Quantity:   entity.QuantityOf(qty),
			ExpiryDate: li.ExpiryDate,
		})
	}
	return &entity.PurchaseOrder{
		SupplierID:  strings.TrimSpace(in.SupplierID),
		LineItems:   lines,
		Status:      in.Status,
		BatchNumber: strings.TrimSpace(in.BatchNumber),
	}, nil
}

// OutcomesToResponse mapea resultados de ajustes a su salida JSON.
func OutcomesToResponse(outcomes []MutationOutcome) []dto.StockMutationResponse {
	out := make([]dto.StockMutationResponse, 0, len(outcomes))
	for _, o := range outcomes {
		r := dto.StockMutationResponse{
			LineIndex:     o.Mutation.LineIndex,
			ProductID:     o.Mutation.ProductID,
			QuantityDelta: o.Mutation.QuantityDelta,
		}
		if o.Err != nil {
			r.Error = o.Err.Error()
		} else {
			newStock := o.NewStock
			r.NewStock = &newStock
		}
		out = append(out, r)
	}
	return out
}
