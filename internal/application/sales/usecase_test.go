package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/sales"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func newUseCase(products ...*entity.Product) (*sales.UseCase, *apptest.FakeTxRunner) {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	runner := apptest.NewFakeTxRunner(products...)
	return sales.NewUseCase(runner, runner.SalesOrders, runner.Products, log), runner
}

func cafe() *entity.Product {
	return &entity.Product{
		ID: "prod-1", Name: "Café molido",
		Price: decimal.NewFromInt(20), PayPrice: decimal.NewFromInt(35),
		Quantity: 10, Active: true,
	}
}

func filtros() *entity.Product {
	// Sin precio de venta: la venta usa el costo como fallback.
	return &entity.Product{
		ID: "prod-2", Name: "Filtros",
		Price: decimal.NewFromInt(5), PayPrice: decimal.Zero,
		Quantity: 30, Active: true,
	}
}

func TestCreateOrder_DescuentaStockYAcumulaIngreso(t *testing.T) {
	uc, runner := newUseCase(cafe(), filtros())

	resp, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerName: "Ana",
		Items: []dto.OrderItemRequest{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 4},
		},
	})
	require.NoError(t, err)

	// 2×35 + 4×5 (fallback al costo cuando no hay precio de venta)
	assert.Equal(t, "90", resp.TotalAmount.String())
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "35", resp.Items[0].UnitPrice.String(), "snapshot del precio de venta")
	assert.Equal(t, "5", resp.Items[1].UnitPrice.String(), "sin payprice se vende al costo")

	p1, _ := runner.Products.GetByID(context.Background(), "prod-1")
	p2, _ := runner.Products.GetByID(context.Background(), "prod-2")
	assert.Equal(t, int64(8), p1.Quantity)
	assert.Equal(t, int64(26), p2.Quantity)

	now := time.Now()
	d, _ := runner.Dashboard.Get(context.Background(), now.Year(), int(now.Month()))
	require.NotNil(t, d)
	assert.Equal(t, "90", d.Total.String(), "el ingreso de la venta va al total del mes")
	assert.Equal(t, "90", d.Profit.String())
}

func TestCreateOrder_FaltanteAbortaConDetalle(t *testing.T) {
	uc, _ := newUseCase(cafe())

	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 99}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, "Café molido", shortage.ProductName)
	assert.Equal(t, int64(10), shortage.Available)
	assert.Equal(t, int64(99), shortage.Requested)
}

func TestCreateOrder_ProductoInactivoRechazado(t *testing.T) {
	inactivo := cafe()
	inactivo.Active = false
	uc, _ := newUseCase(inactivo)

	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateOrder_ValidaEntrada(t *testing.T) {
	uc, _ := newUseCase(cafe())

	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.Create(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")
}

func TestCreateOrder_MismoProductoEnDosLineas(t *testing.T) {
	uc, runner := newUseCase(cafe())

	resp, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: "prod-1", Quantity: 6},
			{ProductID: "prod-1", Quantity: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "350", resp.TotalAmount.String())

	p, _ := runner.Products.GetByID(context.Background(), "prod-1")
	assert.Equal(t, int64(0), p.Quantity, "las dos líneas descuentan acumulativamente")

	_, err = uc.Create(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "agotado tras la primera venta")
}

func TestDeleteOrder_RevierteStockEIngreso(t *testing.T) {
	uc, runner := newUseCase(cafe())

	resp, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerName: "Ana",
		Items:        []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), resp.ID))

	p, _ := runner.Products.GetByID(context.Background(), "prod-1")
	assert.Equal(t, int64(10), p.Quantity, "anular repone el stock vendido")

	now := time.Now()
	d, _ := runner.Dashboard.Get(context.Background(), now.Year(), int(now.Month()))
	require.NotNil(t, d)
	assert.True(t, d.Total.IsZero(), "vender y anular dejan el ingreso del mes en cero")

	_, err = uc.Get(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrder_ConLineasYNombres(t *testing.T) {
	uc, _ := newUseCase(cafe())

	created, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerName: "Ana",
		Items:        []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 2}},
	})
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.CustomerName)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Café molido", got.Items[0].ProductName)
	assert.Equal(t, "70", got.Items[0].LineTotal.String())
}

func TestListOrders_Paginado(t *testing.T) {
	uc, _ := newUseCase(cafe())

	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), dto.CreateOrderRequest{
			CustomerName: "Cliente",
			Items:        []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
		})
		require.NoError(t, err)
	}

	list, err := uc.List(context.Background(), dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 3, list.Page.Total)
}
