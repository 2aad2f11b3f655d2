package catalog

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Mismo contrato que el runner de compras: las
// recepciones implícitas del catálogo viven en la misma transacción que el
// producto y el dashboard.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		orders repository.PurchaseOrderRepository,
		dashboard repository.DashboardRepository,
	) error) error
}

// ImplicitReceiver sintetiza la orden de compra interna de una recepción de
// stock vía catálogo, dentro de la transacción del caller.
type ImplicitReceiver interface {
	ReceiveImplicitInTx(
		ctx context.Context,
		orders repository.PurchaseOrderRepository,
		product *entity.Product,
		quantity int64,
		now time.Time,
		createdBy string,
	) (*entity.PurchaseOrder, error)
}

// MediaStore sube y borra imágenes de producto. La subida ocurre antes de
// abrir la transacción; los borrados huérfanos no bloquean la operación.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	Delete(ctx context.Context, url string) error
}
