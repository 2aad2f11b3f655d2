package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = `id, purchase_number, supplier_name, supplier_phone, supplier_address,
	purchase_date, due_date, status, payment_status, total_amount, paid_amount, remaining_amount,
	notes, created_by, created_at, updated_at`

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la cabecera de una orden de compra. purchase_number tiene
// índice único: la colisión sale como domain.ErrDuplicate y el caller reintenta
// con el siguiente número.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, purchase_number, supplier_name, supplier_phone, supplier_address,
			purchase_date, due_date, status, payment_status, total_amount, paid_amount, remaining_amount,
			notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.PurchaseNumber, o.SupplierName, o.SupplierPhone, o.SupplierAddress,
		o.PurchaseDate, o.DueDate, o.Status, o.PaymentStatus, o.TotalAmount, o.PaidAmount, o.RemainingAmount,
		o.Notes, nullIfEmpty(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la orden.
func (r *PurchaseOrderRepo) CreateItem(ctx context.Context, it *entity.PurchaseOrderItem) error {
	query := `
		INSERT INTO purchase_order_items (id, purchase_order_id, product_id, product_name, product_description,
			purchase_price, selling_price, quantity, unit, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.PurchaseOrderID, it.ProductID, it.ProductName, it.ProductDescription,
		it.PurchasePrice, it.SellingPrice, it.Quantity, it.Unit, it.TotalAmount, it.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order item: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID. Devuelve (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var createdBy *string
	err := r.q.QueryRow(ctx,
		`SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id,
	).Scan(
		&o.ID, &o.PurchaseNumber, &o.SupplierName, &o.SupplierPhone, &o.SupplierAddress,
		&o.PurchaseDate, &o.DueDate, &o.Status, &o.PaymentStatus, &o.TotalAmount, &o.PaidAmount, &o.RemainingAmount,
		&o.Notes, &createdBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	return &o, nil
}

// GetItems lista las líneas de una orden.
func (r *PurchaseOrderRepo) GetItems(ctx context.Context, orderID string) ([]*entity.PurchaseOrderItem, error) {
	query := `
		SELECT id, purchase_order_id, product_id, product_name, product_description,
			purchase_price, selling_price, quantity, unit, total_amount, notes
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY product_name`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()

	var items []*entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.ProductName, &it.ProductDescription,
			&it.PurchasePrice, &it.SellingPrice, &it.Quantity, &it.Unit, &it.TotalAmount, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// Update actualiza la cabecera de una orden.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET supplier_name = $2, supplier_phone = $3, supplier_address = $4, due_date = $5,
		    status = $6, payment_status = $7, total_amount = $8, paid_amount = $9,
		    remaining_amount = $10, notes = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.SupplierName, o.SupplierPhone, o.SupplierAddress, o.DueDate,
		o.Status, o.PaymentStatus, o.TotalAmount, o.PaidAmount,
		o.RemainingAmount, o.Notes, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la orden; los ítems caen en cascada por FK.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastPurchaseNumber devuelve el purchase_number más alto con el prefijo dado,
// o "" si no hay ninguno. La secuencia es de ancho fijo, así que el orden
// lexicográfico coincide con el numérico.
func (r *PurchaseOrderRepo) LastPurchaseNumber(ctx context.Context, prefix string) (string, error) {
	var number string
	err := r.q.QueryRow(ctx,
		`SELECT purchase_number FROM purchase_orders WHERE purchase_number LIKE $1 || '%'
		 ORDER BY purchase_number DESC LIMIT 1`, prefix,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last purchase number: %w", err)
	}
	return number, nil
}

// List lista órdenes con filtros opcionales y paginación.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if f.Keyword != "" {
		args = append(args, f.Keyword)
		where += fmt.Sprintf(` AND (lower(unaccent(purchase_number)) LIKE '%%' || $%d || '%%' OR lower(unaccent(supplier_name)) LIKE '%%' || $%d || '%%')`, len(args), len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.PaymentStatus != "" {
		args = append(args, f.PaymentStatus)
		where += fmt.Sprintf(` AND payment_status = $%d`, len(args))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchase_orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+purchaseOrderColumns+` FROM purchase_orders %s ORDER BY purchase_date DESC, purchase_number DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		var createdBy *string
		if err := rows.Scan(
			&o.ID, &o.PurchaseNumber, &o.SupplierName, &o.SupplierPhone, &o.SupplierAddress,
			&o.PurchaseDate, &o.DueDate, &o.Status, &o.PaymentStatus, &o.TotalAmount, &o.PaidAmount, &o.RemainingAmount,
			&o.Notes, &createdBy, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan purchase order: %w", err)
		}
		if createdBy != nil {
			o.CreatedBy = *createdBy
		}
		list = append(list, &o)
	}
	return list, total, rows.Err()
}
