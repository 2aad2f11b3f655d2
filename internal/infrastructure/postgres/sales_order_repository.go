package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación del puerto SalesOrderRepository sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create persiste la cabecera de una venta.
func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO orders (id, customer_name, customer_phone, total_amount, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.CustomerName, o.CustomerPhone, o.TotalAmount, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SalesOrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
		 VALUES ($1, $2, $3, $4, $5)`,
		it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID. Devuelve (nil, nil) si no existe.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	err := r.q.QueryRow(ctx,
		`SELECT id, customer_name, customer_phone, total_amount, created_at FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.TotalAmount, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// GetItems lista las líneas de una venta.
func (r *SalesOrderRepo) GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateTotal fija el total de la venta tras acumular sus líneas.
func (r *SalesOrderRepo) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE orders SET total_amount = $2 WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("update order total: %w", err)
	}
	return nil
}

// Delete elimina la venta; las líneas caen en cascada por FK.
func (r *SalesOrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ventas con paginación y búsqueda opcional por cliente.
func (r *SalesOrderRepo) List(ctx context.Context, keyword string, limit, offset int) ([]*entity.SalesOrder, int, error) {
	where := ``
	args := []any{}
	if keyword != "" {
		where = `WHERE lower(unaccent(customer_name)) LIKE '%' || $1 || '%'`
		args = append(args, keyword)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, customer_name, customer_phone, total_amount, created_at
		FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.SalesOrder
	for rows.Next() {
		var o entity.SalesOrder
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, total, rows.Err()
}
