package catalog

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

// Reintentos ante colisión de número de la orden implícita (índice único 23505).
const maxReceiptRetries = 5

// UseCase gestiona el catálogo de productos. Toda recepción de stock por esta
// vía (crear con cantidad inicial, subir la cantidad, ajuste positivo) deja una
// orden de compra interna y su delta en el dashboard mensual, en la misma
// transacción que el producto.
type UseCase struct {
	txRunner   TxRunner
	products   repository.ProductRepository
	categories repository.CategoryRepository
	receiver   ImplicitReceiver
	media      MediaStore
	log        *logger.Logger
}

// NewUseCase construye el caso de uso. products y categories van atados al
// pool (lecturas fuera de tx).
func NewUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	receiver ImplicitReceiver,
	media MediaStore,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		products:   products,
		categories: categories,
		receiver:   receiver,
		media:      media,
		log:        log,
	}
}

// Create crea un producto. Si trae cantidad inicial, la recepción se registra
// como orden de compra interna y el monto va al dashboard según el modo. La
// imagen se sube antes de abrir la transacción; si el media store falla, el
// producto se crea sin imagen (la disponibilidad manda).
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProductRequest, createdBy string, mode domain.AccountingMode) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Quantity < 0 ||
		in.Price.LessThan(decimal.Zero) || in.PayPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != "" {
		cat, err := uc.categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
		}
	}

	imageURL := uc.uploadImage(ctx, in.Image)

	now := time.Now()
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	product := &entity.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		PayPrice:    in.PayPrice,
		Quantity:    in.Quantity,
		CategoryID:  in.CategoryID,
		Active:      active,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := uc.runWithReceiptRetry(ctx, func(
		products repository.ProductRepository,
		orders repository.PurchaseOrderRepository,
		dashboard repository.DashboardRepository,
	) error {
		if err := products.Create(ctx, product); err != nil {
			return err
		}
		if product.Quantity > 0 {
			if _, err := uc.receiver.ReceiveImplicitInTx(ctx, orders, product, product.Quantity, now, createdBy); err != nil {
				return err
			}
			return applyReceiptDelta(ctx, dashboard, mode, product, product.Quantity, now)
		}
		return nil
	})
	if err != nil {
		uc.discardImage(imageURL)
		return nil, err
	}
	return uc.toResponse(ctx, product), nil
}

// Update actualiza un producto. Subir la cantidad es una recepción (orden de
// compra interna). El dashboard recibe el delta completo de valoración
// (nuevo − viejo) según el modo: cambios de precio y bajas de cantidad
// incluidos, para que el acumulado del mes no derive del histórico real. Si
// llega imagen nueva, la anterior se borra tras confirmar la transacción.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest, updatedBy string, mode domain.AccountingMode) (*dto.ProductResponse, error) {
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Price != nil && in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.PayPrice != nil && in.PayPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		cat, err := uc.categories.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, *in.CategoryID)
		}
	}

	newImageURL := uc.uploadImage(ctx, in.Image)

	var updated *entity.Product
	var oldImageURL string
	err := uc.runWithReceiptRetry(ctx, func(
		products repository.ProductRepository,
		orders repository.PurchaseOrderRepository,
		dashboard repository.DashboardRepository,
	) error {
		product, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		oldImageURL = product.ImageURL
		oldValuation := productValuation(product, mode)

		now := time.Now()
		if in.Name != nil {
			if *in.Name == "" {
				return domain.ErrInvalidInput
			}
			product.Name = *in.Name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.PayPrice != nil {
			product.PayPrice = *in.PayPrice
		}
		if in.CategoryID != nil {
			product.CategoryID = *in.CategoryID
		}
		if in.Active != nil {
			product.Active = *in.Active
		}
		if newImageURL != "" {
			product.ImageURL = newImageURL
		}

		var received int64
		if in.Quantity != nil {
			received = *in.Quantity - product.Quantity
			product.Quantity = *in.Quantity
		}
		product.UpdatedAt = now
		if err := products.Update(ctx, product); err != nil {
			return err
		}

		if received > 0 {
			if _, err := uc.receiver.ReceiveImplicitInTx(ctx, orders, product, received, now, updatedBy); err != nil {
				return err
			}
		}
		delta := productValuation(product, mode).Sub(oldValuation)
		if err := applyValuationDelta(ctx, dashboard, mode, delta, now); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		uc.discardImage(newImageURL)
		return nil, err
	}
	if newImageURL != "" && oldImageURL != "" && oldImageURL != newImageURL {
		uc.discardImage(oldImageURL)
	}
	return uc.toResponse(ctx, updated), nil
}

// AdjustQuantity aplica un delta manual de stock bajo lock de fila, sin
// generar orden de compra (a diferencia de create/update).
//
// Efecto contable según el modo:
//   - sales: cada unidad movida cuenta como ingreso; el total del mes suma
//     precio de venta × |delta| tanto al subir como al bajar (bajar = venta
//     fuera del flujo de órdenes).
//   - admin_management: subir suma costo × delta al subtotal; bajar es una
//     corrección de inventario sin asiento (el costo ya quedó registrado
//     cuando el stock entró).
func (uc *UseCase) AdjustQuantity(ctx context.Context, id string, in dto.AdjustQuantityRequest, adjustedBy string) (*dto.ProductResponse, error) {
	if in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	mode, err := domain.ParseAccountingMode(in.Mode)
	if err != nil {
		return nil, err
	}

	var adjusted *entity.Product
	err = uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		_ repository.PurchaseOrderRepository,
		dashboard repository.DashboardRepository,
	) error {
		product, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		newQty := product.Quantity + in.Delta
		if newQty < 0 {
			return &domain.StockShortageError{
				ProductName: product.Name,
				Available:   product.Quantity,
				Requested:   -in.Delta,
			}
		}
		if err := products.UpdateQuantity(ctx, product.ID, newQty); err != nil {
			return err
		}
		product.Quantity = newQty

		units := decimal.NewFromInt(in.Delta)
		switch {
		case mode == domain.ModeSales:
			revenue := product.UnitSalePrice().Mul(units.Abs())
			if err := dashboard.ApplyDelta(ctx, now.Year(), int(now.Month()), decimal.Zero, revenue); err != nil {
				return err
			}
		case in.Delta > 0:
			cost := product.Price.Mul(units)
			if err := dashboard.ApplyDelta(ctx, now.Year(), int(now.Month()), cost, decimal.Zero); err != nil {
				return err
			}
		}
		adjusted = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, adjusted), nil
}

// Get devuelve un producto por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, product), nil
}

// List lista productos con paginación y búsqueda por palabra clave insensible
// a mayúsculas y acentos.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.products.List(ctx, textutil.Fold(page.Keyword), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	categoryNames, err := uc.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		resp := mapProduct(p)
		resp.CategoryName = categoryNames[p.CategoryID]
		items = append(items, resp)
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina un producto. Solo con stock en cero: un producto con unidades
// falla con ErrConflict. No toca el dashboard (histórico intacto); la imagen se
// borra tras confirmar.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.Quantity != 0 {
		return fmt.Errorf("el producto aún tiene %d unidades en stock: %w", product.Quantity, domain.ErrConflict)
	}
	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}
	uc.discardImage(product.ImageURL)
	return nil
}

// BulkImport crea productos en lote, cada fila en su propia transacción: las
// filas inválidas se reportan y no frenan al resto. Sin imágenes por esta vía;
// el modo contable es siempre admin_management.
func (uc *UseCase) BulkImport(ctx context.Context, in dto.BulkImportRequest, createdBy string) (*dto.BulkImportResult, error) {
	if len(in.Products) == 0 {
		return nil, domain.ErrInvalidInput
	}
	result := &dto.BulkImportResult{}
	for i, row := range in.Products {
		resp, err := uc.Create(ctx, dto.CreateProductRequest{
			Name:        row.Name,
			Description: row.Description,
			Price:       row.PurchasePrice,
			PayPrice:    row.SellingPrice,
			Quantity:    row.Quantity,
			CategoryID:  row.CategoryID,
			Active:      row.Active,
		}, createdBy, domain.ModeAdminManagement)
		if err != nil {
			result.Errors = append(result.Errors, dto.BulkImportRowError{
				Index: i,
				Name:  row.Name,
				Error: err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, *resp)
	}
	result.TotalCreated = len(result.Created)
	result.TotalErrors = len(result.Errors)
	return result, nil
}

// CreateCategory crea una categoría.
func (uc *UseCase) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	category := &entity.Category{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lista todas las categorías.
func (uc *UseCase) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return uc.categories.List(ctx)
}

// runWithReceiptRetry reintenta la transacción completa ante colisión del
// número de la orden implícita.
func (uc *UseCase) runWithReceiptRetry(ctx context.Context, fn func(
	products repository.ProductRepository,
	orders repository.PurchaseOrderRepository,
	dashboard repository.DashboardRepository,
) error) error {
	var err error
	for attempt := 0; attempt < maxReceiptRetries; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		uc.log.Warn().Int("attempt", attempt+1).Msg("colisión de número de orden implícita, reintentando")
	}
	return err
}

// applyReceiptDelta suma la recepción al dashboard del mes: como costo
// (subtotal) en admin_management, como ingreso (total) en sales.
func applyReceiptDelta(ctx context.Context, dashboard repository.DashboardRepository, mode domain.AccountingMode, product *entity.Product, quantity int64, now time.Time) error {
	qty := decimal.NewFromInt(quantity)
	if mode == domain.ModeSales {
		return dashboard.ApplyDelta(ctx, now.Year(), int(now.Month()), decimal.Zero, product.UnitSalePrice().Mul(qty))
	}
	return dashboard.ApplyDelta(ctx, now.Year(), int(now.Month()), product.Price.Mul(qty), decimal.Zero)
}

// productValuation valora el stock del producto según el modo: costo de compra
// o ingreso potencial a precio de venta. La diferencia nuevo − viejo es el
// delta que Update aplica al dashboard.
func productValuation(p *entity.Product, mode domain.AccountingMode) decimal.Decimal {
	qty := decimal.NewFromInt(p.Quantity)
	if mode == domain.ModeSales {
		return p.UnitSalePrice().Mul(qty)
	}
	return p.Price.Mul(qty)
}

// applyValuationDelta escribe un delta firmado en el lado del dashboard que
// corresponde al modo. Con delta cero no escribe nada.
func applyValuationDelta(ctx context.Context, dashboard repository.DashboardRepository, mode domain.AccountingMode, delta decimal.Decimal, now time.Time) error {
	if delta.IsZero() {
		return nil
	}
	if mode == domain.ModeSales {
		return dashboard.ApplyDelta(ctx, now.Year(), int(now.Month()), decimal.Zero, delta)
	}
	return dashboard.ApplyDelta(ctx, now.Year(), int(now.Month()), delta, decimal.Zero)
}

// uploadImage sube la imagen si viene en el request. Un fallo del media store
// degrada a producto sin imagen, nunca tumba la operación.
func (uc *UseCase) uploadImage(ctx context.Context, image *dto.MediaPayload) string {
	if image == nil || uc.media == nil {
		return ""
	}
	url, err := uc.media.Upload(ctx, image.Data, image.Filename)
	if err != nil {
		uc.log.Warn().Err(err).Str("filename", image.Filename).Msg("no se pudo subir la imagen, el producto queda sin imagen")
		return ""
	}
	return url
}

// discardImage borra una imagen en segundo plano; el resultado no afecta al caller.
func (uc *UseCase) discardImage(url string) {
	if url == "" || uc.media == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := uc.media.Delete(ctx, url); err != nil {
			uc.log.Warn().Err(err).Str("url", url).Msg("no se pudo borrar la imagen")
		}
	}()
}

func (uc *UseCase) toResponse(ctx context.Context, p *entity.Product) *dto.ProductResponse {
	resp := mapProduct(p)
	if p.CategoryID != "" {
		if cat, err := uc.categories.GetByID(ctx, p.CategoryID); err == nil && cat != nil {
			resp.CategoryName = cat.Name
		}
	}
	return &resp
}

func (uc *UseCase) categoryNames(ctx context.Context) (map[string]string, error) {
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func mapProduct(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		PayPrice:    p.PayPrice,
		Quantity:    p.Quantity,
		CategoryID:  p.CategoryID,
		Active:      p.Active,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
