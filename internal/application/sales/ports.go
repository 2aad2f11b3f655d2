package sales

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del checkout: productos (lock de fila), ventas y dashboard.
// O se descuentan todas las líneas y se acumula el ingreso, o nada.
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(
		products repository.ProductRepository,
		orders repository.SalesOrderRepository,
		dashboard repository.DashboardRepository,
	) error) error
}
