package sales

import (
	"context"
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

// UseCase registra ventas con checkout atómico: cada línea bloquea la fila del
// producto, verifica stock, fija el precio unitario vigente y descuenta; el
// total va al ingreso del dashboard del mes. Cualquier faltante aborta la
// venta completa con el detalle del producto.
type UseCase struct {
	txRunner SalesTxRunner
	orders   repository.SalesOrderRepository
	products repository.ProductRepository
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. orders y products van atados al pool.
func NewUseCase(txRunner SalesTxRunner, orders repository.SalesOrderRepository, products repository.ProductRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, orders: orders, products: products, log: log}
}

// Create registra una venta. El precio unitario de cada línea es el del
// producto al momento de la venta (payprice, o price si no hay precio de
// venta) y queda como snapshot en la línea.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	var resp *dto.OrderResponse
	err := uc.txRunner.RunSales(ctx, func(
		products repository.ProductRepository,
		orders repository.SalesOrderRepository,
		dashboard repository.DashboardRepository,
	) error {
		now := time.Now()
		order := &entity.SalesOrder{
			ID:            uuid.NewString(),
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			TotalAmount:   decimal.Zero,
			CreatedAt:     now,
		}
		if err := orders.Create(ctx, order); err != nil {
			return err
		}

		total := decimal.Zero
		itemsResp := make([]dto.OrderItemResponse, 0, len(in.Items))
		for _, line := range in.Items {
			product, err := products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if !product.Active {
				return domain.ErrConflict
			}
			if product.Quantity < line.Quantity {
				return &domain.StockShortageError{
					ProductName: product.Name,
					Available:   product.Quantity,
					Requested:   line.Quantity,
				}
			}

			unitPrice := product.UnitSalePrice()
			item := &entity.OrderItem{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
			}
			if err := orders.CreateItem(ctx, item); err != nil {
				return err
			}
			if err := products.UpdateQuantity(ctx, product.ID, product.Quantity-line.Quantity); err != nil {
				return err
			}

			lineTotal := unitPrice.Mul(decimal.NewFromInt(line.Quantity))
			total = total.Add(lineTotal)
			itemsResp = append(itemsResp, dto.OrderItemResponse{
				ID:          item.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   unitPrice,
				LineTotal:   lineTotal,
			})
		}

		if err := orders.UpdateTotal(ctx, order.ID, total); err != nil {
			return err
		}
		order.TotalAmount = total

		// Ingreso del mes de la venta.
		if err := dashboard.ApplyDelta(ctx, now.Year(), int(now.Month()), decimal.Zero, total); err != nil {
			return err
		}

		resp = &dto.OrderResponse{
			ID:            order.ID,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			TotalAmount:   total,
			Items:         itemsResp,
			CreatedAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get devuelve una venta con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
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

	resp := &dto.OrderResponse{
		ID:            order.ID,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
	}
	for _, it := range items {
		line := dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)),
		}
		// El nombre es informativo: un producto ya borrado deja la línea sin nombre.
		if p, err := uc.products.GetByID(ctx, it.ProductID); err == nil && p != nil {
			line.ProductName = p.Name
		}
		resp.Items = append(resp.Items, line)
	}
	return resp, nil
}

// List lista ventas con paginación y búsqueda por cliente insensible a acentos.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.orders.List(ctx, textutil.Fold(page.Keyword), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.OrderResponse{
			ID:            o.ID,
			CustomerName:  o.CustomerName,
			CustomerPhone: o.CustomerPhone,
			TotalAmount:   o.TotalAmount,
			CreatedAt:     o.CreatedAt,
		})
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete anula una venta revirtiéndola por completo: repone el stock de cada
// línea bajo lock de fila y descuenta el total del ingreso del mes original.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.RunSales(ctx, func(
		products repository.ProductRepository,
		orders repository.SalesOrderRepository,
		dashboard repository.DashboardRepository,
	) error {
		order, err := orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
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
				// Producto borrado después de la venta: no hay stock que reponer.
				continue
			}
			if err := products.UpdateQuantity(ctx, product.ID, product.Quantity+it.Quantity); err != nil {
				return err
			}
		}

		if err := orders.Delete(ctx, id); err != nil {
			return err
		}
		return dashboard.ApplyDelta(ctx,
			order.CreatedAt.Year(), int(order.CreatedAt.Month()),
			decimal.Zero, order.TotalAmount.Neg())
	})
}
