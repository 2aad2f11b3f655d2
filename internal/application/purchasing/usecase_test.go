package purchasing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/purchasing"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

func testProduct() *entity.Product {
	return &entity.Product{
		ID:       "prod-1",
		Name:     "Café molido",
		Price:    decimal.NewFromInt(20),
		PayPrice: decimal.NewFromInt(35),
		Quantity: 10,
		Active:   true,
	}
}

func newUseCase(runner *apptest.FakeTxRunner) *purchasing.UseCase {
	return purchasing.NewUseCase(runner, runner.PurchaseOrders, testLogger())
}

func TestCreate_RecibeStockYAcumulaSubtotal(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "Distribuidora Andina",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(20), Quantity: 5},
		},
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, decimal.NewFromInt(100).String(), resp.TotalAmount.String(),
		"total = purchase_price × quantity")
	assert.Equal(t, entity.PaymentStatusPending, resp.PaymentStatus)
	assert.Regexp(t, `^PO\d{8}0001$`, resp.PurchaseNumber)

	p, _ := runner.Products.GetByID(context.Background(), "prod-1")
	assert.Equal(t, int64(15), p.Quantity, "la recepción suma el stock")

	now := time.Now()
	d, _ := runner.Dashboard.Get(context.Background(), now.Year(), int(now.Month()))
	require.NotNil(t, d)
	assert.Equal(t, "100", d.Subtotal.String(), "el costo de la compra va al subtotal del mes")
	assert.Equal(t, "-100", d.Profit.String())
}

func TestCreate_SnapshoteaProductoYPropagaPrecios(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "Distribuidora Andina",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(25), SellingPrice: decimal.NewFromInt(40), Quantity: 3},
		},
	}, "user-1")
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Café molido", resp.Items[0].ProductName,
		"la línea conserva el snapshot del nombre al momento de la compra")

	p, _ := runner.Products.GetByID(context.Background(), "prod-1")
	assert.Equal(t, "25", p.Price.String(), "el costo del producto adopta el de la compra")
	assert.Equal(t, "40", p.PayPrice.String(), "el precio de venta adopta el de la compra")
}

func TestCreate_PagoParcialYPagado(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "Proveedor",
		PaidAmount:   decimal.NewFromInt(40),
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(20), Quantity: 5},
		},
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, resp.PaymentStatus)
	assert.Equal(t, "60", resp.RemainingAmount.String())

	resp2, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "Proveedor",
		PaidAmount:   decimal.NewFromInt(100),
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(20), Quantity: 5},
		},
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, resp2.PaymentStatus)
}

func TestCreate_NumeracionSecuencialDelDia(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)

	item := []dto.PurchaseOrderItemRequest{
		{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(10), Quantity: 1},
	}
	r1, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{SupplierName: "A", Items: item}, "u")
	require.NoError(t, err)
	r2, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{SupplierName: "B", Items: item}, "u")
	require.NoError(t, err)

	assert.Regexp(t, `0001$`, r1.PurchaseNumber)
	assert.Regexp(t, `0002$`, r2.PurchaseNumber)
}

func TestCreate_ReintentaAnteColisionDeNumero(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	runner.PurchaseOrders.FailCreates = 2 // dos colisiones simuladas
	uc := newUseCase(runner)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "Proveedor",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(10), Quantity: 1},
		},
	}, "u")
	require.NoError(t, err, "la colisión de número debe reintentarse, no propagarse")
	assert.NotEmpty(t, resp.PurchaseNumber)
}

func TestCreate_ValidaEntrada(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)
	item := []dto.PurchaseOrderItemRequest{
		{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(10), Quantity: 1},
	}

	_, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{Items: item}, "u")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin proveedor")

	_, err = uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{SupplierName: "P"}, "u")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin ítems")

	_, err = uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "P",
		Items:        []dto.PurchaseOrderItemRequest{{ProductID: "prod-1", Quantity: 0}},
	}, "u")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "P",
		Status:       "cancelled",
		Items:        item,
	}, "u")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se crea directamente cancelada")
}

func TestCreate_ProductoInexistente(t *testing.T) {
	runner := apptest.NewFakeTxRunner()
	uc := newUseCase(runner)

	_, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "P",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "no-existe", PurchasePrice: decimal.NewFromInt(10), Quantity: 1},
		},
	}, "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_OrdenCompletadaEsInmutable(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "P",
		Status:       entity.PurchaseStatusCompleted,
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(10), Quantity: 1},
		},
	}, "u")
	require.NoError(t, err)

	notas := "cambio"
	_, err = uc.Update(context.Background(), resp.ID, dto.UpdatePurchaseOrderRequest{Notes: &notas})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = uc.Delete(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "completada tampoco se borra")
}

func TestUpdate_TransicionDeEstadoInvalida(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "P",
		Status:       entity.PurchaseStatusDraft,
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(10), Quantity: 1},
		},
	}, "u")
	require.NoError(t, err)

	completed := entity.PurchaseStatusCompleted
	_, err = uc.Update(context.Background(), resp.ID, dto.UpdatePurchaseOrderRequest{Status: &completed})
	assert.ErrorIs(t, err, domain.ErrConflict, "draft no salta directo a completed")

	confirmed := entity.PurchaseStatusConfirmed
	updated, err := uc.Update(context.Background(), resp.ID, dto.UpdatePurchaseOrderRequest{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusConfirmed, updated.Status)
}

func TestUpdate_RecalculaEstadoDePago(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "P",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(20), Quantity: 5},
		},
	}, "u")
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusPending, resp.PaymentStatus)

	paid := decimal.NewFromInt(100)
	updated, err := uc.Update(context.Background(), resp.ID, dto.UpdatePurchaseOrderRequest{PaidAmount: &paid})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, updated.PaymentStatus)
	assert.True(t, updated.RemainingAmount.IsZero())
}

func TestDelete_RevierteStockYSubtotal(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "P",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(20), Quantity: 5},
		},
	}, "u")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), resp.ID))

	p, _ := runner.Products.GetByID(context.Background(), "prod-1")
	assert.Equal(t, int64(10), p.Quantity, "el borrado revierte la recepción")

	now := time.Now()
	d, _ := runner.Dashboard.Get(context.Background(), now.Year(), int(now.Month()))
	require.NotNil(t, d)
	assert.True(t, d.Subtotal.IsZero(), "crear y borrar dejan el subtotal del mes en cero")

	_, err = uc.Get(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_FallaConDetalleSiStockInsuficiente(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "P",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(20), Quantity: 5},
		},
	}, "u")
	require.NoError(t, err)

	// Entre la compra y el borrado se vendió stock: quedan menos unidades
	// que las que la reversa necesita restar.
	require.NoError(t, runner.Products.UpdateQuantity(context.Background(), "prod-1", 3))

	err = uc.Delete(context.Background(), resp.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, "Café molido", shortage.ProductName)
	assert.Equal(t, int64(3), shortage.Available)
	assert.Equal(t, int64(5), shortage.Requested)
}

func TestReceiveImplicitInTx_OrdenInternaSinEfectosLaterales(t *testing.T) {
	runner := apptest.NewFakeTxRunner()
	uc := newUseCase(runner)
	product := testProduct()

	now := time.Now()
	order, err := uc.ReceiveImplicitInTx(context.Background(), runner.PurchaseOrders, product, 4, now, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.InternalSupplier, order.SupplierName)
	assert.Equal(t, entity.PurchaseStatusConfirmed, order.Status)
	assert.Equal(t, "80", order.TotalAmount.String(), "total = costo × cantidad recibida")
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)

	items, _ := runner.PurchaseOrders.GetItems(context.Background(), order.ID)
	require.Len(t, items, 1)
	assert.Equal(t, product.Name, items[0].ProductName)

	// El caller es dueño del stock y del dashboard: aquí no se tocan.
	d, _ := runner.Dashboard.Get(context.Background(), now.Year(), int(now.Month()))
	assert.Nil(t, d)
}

func TestList_FiltraPorEstado(t *testing.T) {
	runner := apptest.NewFakeTxRunner(testProduct())
	uc := newUseCase(runner)
	item := []dto.PurchaseOrderItemRequest{
		{ProductID: "prod-1", PurchasePrice: decimal.NewFromInt(10), Quantity: 1},
	}

	_, err := uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "A", Status: entity.PurchaseStatusDraft, Items: item}, "u")
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierName: "B", Items: item}, "u")
	require.NoError(t, err)

	list, err := uc.List(context.Background(), dto.PurchaseOrderListRequest{Status: entity.PurchaseStatusDraft})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "A", list.Items[0].SupplierName)
	assert.Equal(t, 1, list.Page.Total)
}

func TestErroresSinEnvolver(t *testing.T) {
	runner := apptest.NewFakeTxRunner()
	uc := newUseCase(runner)

	_, err := uc.Get(context.Background(), "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = uc.Delete(context.Background(), "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
