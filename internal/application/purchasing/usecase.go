package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/jhoicas/almacen-api/pkg/textutil"
)

// Reintentos máximos ante colisión de purchase_number (índice único 23505).
const maxNumberRetries = 5

// UseCase gestiona órdenes de compra: creación con numeración secuencial del
// día, recepción de stock con bloqueo de fila, efectos colaterales de precio y
// acumulación del costo en el dashboard mensual. Todo dentro de una transacción.
type UseCase struct {
	txRunner TxRunner
	orders   repository.PurchaseOrderRepository
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. orders va atado al pool (lecturas fuera de tx).
func NewUseCase(txRunner TxRunner, orders repository.PurchaseOrderRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, orders: orders, log: log}
}

// Create crea una orden de compra y recibe su stock de forma atómica:
// numera la orden (PO + yyyymmdd + secuencia), snapshotea nombre y descripción
// de cada producto, suma las cantidades al stock bajo lock de fila, propaga
// cambios de precio al producto y suma el total al subtotal del mes.
// Ante colisión de número (creación concurrente) reintenta la transacción completa.
func (uc *UseCase) Create(ctx context.Context, in dto.CreatePurchaseOrderRequest, createdBy string) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierName == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PaidAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.PurchaseStatusConfirmed
	}
	switch status {
	case entity.PurchaseStatusDraft, entity.PurchaseStatusConfirmed, entity.PurchaseStatusCompleted:
	default:
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 || it.PurchasePrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	var resp *dto.PurchaseOrderResponse
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		resp = nil
		err := uc.txRunner.Run(ctx, func(
			products repository.ProductRepository,
			orders repository.PurchaseOrderRepository,
			dashboard repository.DashboardRepository,
		) error {
			now := time.Now()
			prefix := purchaseNumberPrefix(now)
			last, err := orders.LastPurchaseNumber(ctx, prefix)
			if err != nil {
				return err
			}

			number, err := nextPurchaseNumber(prefix, last)
			if err != nil {
				return err
			}

			purchaseDate := in.PurchaseDate
			if purchaseDate.IsZero() {
				purchaseDate = now
			}
			order := &entity.PurchaseOrder{
				ID:              uuid.NewString(),
				PurchaseNumber:  number,
				SupplierName:    in.SupplierName,
				SupplierPhone:   in.SupplierPhone,
				SupplierAddress: in.SupplierAddress,
				PurchaseDate:    purchaseDate,
				DueDate:         in.DueDate,
				Status:          status,
				PaidAmount:      in.PaidAmount,
				Notes:           in.Notes,
				CreatedBy:       createdBy,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			order.RecalcPayment()
			if err := orders.Create(ctx, order); err != nil {
				return err
			}

			items := make([]*entity.PurchaseOrderItem, 0, len(in.Items))
			for _, it := range in.Items {
				product, err := products.GetForUpdate(ctx, it.ProductID)
				if err != nil {
					return err
				}
				if product == nil {
					return fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
				}

				item := &entity.PurchaseOrderItem{
					ID:                 uuid.NewString(),
					PurchaseOrderID:    order.ID,
					ProductID:          product.ID,
					ProductName:        product.Name,
					ProductDescription: product.Description,
					PurchasePrice:      it.PurchasePrice,
					SellingPrice:       it.SellingPrice,
					Quantity:           it.Quantity,
					Unit:               it.Unit,
					Notes:              it.Notes,
				}
				item.RecalcTotal()
				if err := orders.CreateItem(ctx, item); err != nil {
					return err
				}
				items = append(items, item)

				// Recepción: sumar cantidad bajo el lock de fila.
				if err := products.UpdateQuantity(ctx, product.ID, product.Quantity+it.Quantity); err != nil {
					return err
				}

				// Efecto colateral: si la compra trae precios distintos, el
				// producto adopta los nuevos.
				newPay := product.PayPrice
				if !it.SellingPrice.IsZero() {
					newPay = it.SellingPrice
				}
				if !it.PurchasePrice.Equal(product.Price) || !newPay.Equal(product.PayPrice) {
					if err := products.UpdatePrices(ctx, product.ID, it.PurchasePrice, newPay); err != nil {
						return err
					}
				}
			}

			order.RecalcTotals(items)
			order.UpdatedAt = now
			if err := orders.Update(ctx, order); err != nil {
				return err
			}

			// Costo del mes de la fecha de compra (el borrado resta sobre el mismo mes).
			if err := dashboard.ApplyDelta(ctx, purchaseDate.Year(), int(purchaseDate.Month()), order.TotalAmount, decimal.Zero); err != nil {
				return err
			}

			resp = toResponse(order, items)
			return nil
		})
		if errors.Is(err, domain.ErrDuplicate) {
			uc.log.Warn().Int("attempt", attempt+1).Msg("colisión de purchase_number, reintentando")
			continue
		}
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
	return nil, fmt.Errorf("%w: no se pudo asignar purchase_number tras %d intentos", domain.ErrConflict, maxNumberRetries)
}

// ReceiveImplicitInTx sintetiza una orden de compra interna al recibir stock
// desde el catálogo (creación o ajuste de producto), usando los repositorios
// de la transacción del caller. Solo deja el rastro contable de la orden: el
// caller es dueño de la mutación de stock y del delta de dashboard.
// Una colisión de número sale como domain.ErrDuplicate y el caller reintenta
// su transacción completa.
func (uc *UseCase) ReceiveImplicitInTx(
	ctx context.Context,
	orders repository.PurchaseOrderRepository,
	product *entity.Product,
	quantity int64,
	now time.Time,
	createdBy string,
) (*entity.PurchaseOrder, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	prefix := purchaseNumberPrefix(now)
	last, err := orders.LastPurchaseNumber(ctx, prefix)
	if err != nil {
		return nil, err
	}

	number, err := nextPurchaseNumber(prefix, last)
	if err != nil {
		return nil, err
	}

	order := &entity.PurchaseOrder{
		ID:             uuid.NewString(),
		PurchaseNumber: number,
		SupplierName:   entity.InternalSupplier,
		PurchaseDate:   now,
		Status:         entity.PurchaseStatusConfirmed,
		Notes:          "Ingreso de stock desde gestión de productos",
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	item := &entity.PurchaseOrderItem{
		ID:                 uuid.NewString(),
		PurchaseOrderID:    order.ID,
		ProductID:          product.ID,
		ProductName:        product.Name,
		ProductDescription: product.Description,
		PurchasePrice:      product.Price,
		SellingPrice:       product.PayPrice,
		Quantity:           quantity,
	}
	item.RecalcTotal()
	order.RecalcTotals([]*entity.PurchaseOrderItem{item})

	if err := orders.Create(ctx, order); err != nil {
		return nil, err
	}
	if err := orders.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return order, nil
}

// Get devuelve una orden con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orders.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(order, items), nil
}

// List lista órdenes con filtros de keyword (insensible a acentos), estado y
// estado de pago.
func (uc *UseCase) List(ctx context.Context, in dto.PurchaseOrderListRequest) (*dto.PurchaseOrderListResponse, error) {
	page := dto.PageRequest{Keyword: in.Keyword, Limit: in.Limit, Offset: in.Offset}
	page.DefaultPage()

	filter := repository.PurchaseOrderFilter{
		Keyword:       textutil.Fold(page.Keyword),
		Status:        in.Status,
		PaymentStatus: in.PaymentStatus,
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	list, total, err := uc.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toResponse(o, nil))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update actualiza la cabecera de una orden: proveedor, notas, pago y estado.
// Las órdenes completadas son inmutables; el grafo de estados valida la
// transición. El total no se toca por esta vía (solo vía ítems).
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.CanModify() {
		return nil, domain.ErrConflict
	}
	if in.Status != nil && !order.CanTransition(*in.Status) {
		return nil, domain.ErrConflict
	}
	if in.PaidAmount != nil && in.PaidAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	if in.SupplierName != nil {
		if *in.SupplierName == "" {
			return nil, domain.ErrInvalidInput
		}
		order.SupplierName = *in.SupplierName
	}
	if in.SupplierPhone != nil {
		order.SupplierPhone = *in.SupplierPhone
	}
	if in.SupplierAddress != nil {
		order.SupplierAddress = *in.SupplierAddress
	}
	if in.DueDate != nil {
		order.DueDate = in.DueDate
	}
	if in.Status != nil {
		order.Status = *in.Status
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	if in.PaidAmount != nil {
		order.PaidAmount = *in.PaidAmount
	}
	order.RecalcPayment()
	order.UpdatedAt = time.Now()

	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	items, err := uc.orders.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(order, items), nil
}

// Delete elimina una orden revirtiendo su recepción: resta las cantidades de
// cada línea bajo lock de fila y descuenta el total del subtotal del mes de la
// fecha de compra. Si revertir dejaría algún stock negativo, la operación
// completa falla con el detalle del faltante.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		orders repository.PurchaseOrderRepository,
		dashboard repository.DashboardRepository,
	) error {
		order, err := orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanModify() {
			return domain.ErrConflict
		}

		items, err := orders.GetItems(ctx, id)
		if err != nil {
			return err
		}
		for _, it := range items {
			product, err := products.GetForUpdate(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				// Producto ya borrado: no queda stock que revertir.
				continue
			}
			if product.Quantity < it.Quantity {
				return &domain.StockShortageError{
					ProductName: product.Name,
					Available:   product.Quantity,
					Requested:   it.Quantity,
				}
			}
			if err := products.UpdateQuantity(ctx, product.ID, product.Quantity-it.Quantity); err != nil {
				return err
			}
		}

		if err := orders.Delete(ctx, id); err != nil {
			return err
		}
		return dashboard.ApplyDelta(ctx,
			order.PurchaseDate.Year(), int(order.PurchaseDate.Month()),
			order.TotalAmount.Neg(), decimal.Zero)
	})
}

func toResponse(o *entity.PurchaseOrder, items []*entity.PurchaseOrderItem) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:              o.ID,
		PurchaseNumber:  o.PurchaseNumber,
		SupplierName:    o.SupplierName,
		SupplierPhone:   o.SupplierPhone,
		SupplierAddress: o.SupplierAddress,
		PurchaseDate:    o.PurchaseDate,
		DueDate:         o.DueDate,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		TotalAmount:     o.TotalAmount,
		PaidAmount:      o.PaidAmount,
		RemainingAmount: o.RemainingAmount,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.PurchaseOrderItemResponse{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			ProductName:        it.ProductName,
			ProductDescription: it.ProductDescription,
			PurchasePrice:      it.PurchasePrice,
			SellingPrice:       it.SellingPrice,
			Quantity:           it.Quantity,
			Unit:               it.Unit,
			TotalAmount:        it.TotalAmount,
			Notes:              it.Notes,
		})
	}
	return resp
}
