package purchasing

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre orden, stock y
// dashboard mensual.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		orders repository.PurchaseOrderRepository,
		dashboard repository.DashboardRepository,
	) error) error
}
