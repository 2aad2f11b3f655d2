// Package apptest provee implementaciones en memoria de los puertos de
// persistencia para los tests de casos de uso. No simulan rollback: los tests
// verifican la lógica de negocio y la propagación de errores, no la BD.
package apptest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// FakeProducts implementa repository.ProductRepository sobre un map.
type FakeProducts struct {
	Items map[string]*entity.Product
}

func NewFakeProducts(products ...*entity.Product) *FakeProducts {
	f := &FakeProducts{Items: make(map[string]*entity.Product)}
	for _, p := range products {
		f.Items[p.ID] = p
	}
	return f
}

func (f *FakeProducts) Create(_ context.Context, p *entity.Product) error {
	if _, ok := f.Items[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	f.Items[p.ID] = &cp
	return nil
}

func (f *FakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := f.Items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *FakeProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return f.GetByID(ctx, id)
}

func (f *FakeProducts) Update(_ context.Context, p *entity.Product) error {
	if _, ok := f.Items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	f.Items[p.ID] = &cp
	return nil
}

func (f *FakeProducts) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	p, ok := f.Items[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

func (f *FakeProducts) UpdatePrices(_ context.Context, id string, price, payPrice decimal.Decimal) error {
	p, ok := f.Items[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Price = price
	p.PayPrice = payPrice
	return nil
}

func (f *FakeProducts) List(_ context.Context, keyword string, limit, offset int) ([]*entity.Product, int, error) {
	var all []*entity.Product
	for _, p := range f.Items {
		if keyword == "" || strings.Contains(strings.ToLower(p.Name), keyword) {
			cp := *p
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *FakeProducts) Delete(_ context.Context, id string) error {
	if _, ok := f.Items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.Items, id)
	return nil
}

// FakeCategories implementa repository.CategoryRepository sobre un map.
type FakeCategories struct {
	Items map[string]*entity.Category
}

func NewFakeCategories(categories ...*entity.Category) *FakeCategories {
	f := &FakeCategories{Items: make(map[string]*entity.Category)}
	for _, c := range categories {
		f.Items[c.ID] = c
	}
	return f
}

func (f *FakeCategories) Create(_ context.Context, c *entity.Category) error {
	for _, existing := range f.Items {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	f.Items[c.ID] = &cp
	return nil
}

func (f *FakeCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	c, ok := f.Items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *FakeCategories) List(_ context.Context) ([]*entity.Category, error) {
	var all []*entity.Category
	for _, c := range f.Items {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// FakePurchaseOrders implementa repository.PurchaseOrderRepository.
// FailCreates > 0 hace fallar las próximas N llamadas a Create con
// domain.ErrDuplicate, simulando colisiones de purchase_number.
type FakePurchaseOrders struct {
	Orders      map[string]*entity.PurchaseOrder
	OrderItems  map[string][]*entity.PurchaseOrderItem
	FailCreates int
}

func NewFakePurchaseOrders() *FakePurchaseOrders {
	return &FakePurchaseOrders{
		Orders:     make(map[string]*entity.PurchaseOrder),
		OrderItems: make(map[string][]*entity.PurchaseOrderItem),
	}
}

func (f *FakePurchaseOrders) Create(_ context.Context, o *entity.PurchaseOrder) error {
	if f.FailCreates > 0 {
		f.FailCreates--
		return domain.ErrDuplicate
	}
	for _, existing := range f.Orders {
		if existing.PurchaseNumber == o.PurchaseNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *o
	f.Orders[o.ID] = &cp
	return nil
}

func (f *FakePurchaseOrders) CreateItem(_ context.Context, it *entity.PurchaseOrderItem) error {
	cp := *it
	f.OrderItems[it.PurchaseOrderID] = append(f.OrderItems[it.PurchaseOrderID], &cp)
	return nil
}

func (f *FakePurchaseOrders) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	o, ok := f.Orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *FakePurchaseOrders) GetItems(_ context.Context, orderID string) ([]*entity.PurchaseOrderItem, error) {
	var items []*entity.PurchaseOrderItem
	for _, it := range f.OrderItems[orderID] {
		cp := *it
		items = append(items, &cp)
	}
	return items, nil
}

func (f *FakePurchaseOrders) Update(_ context.Context, o *entity.PurchaseOrder) error {
	if _, ok := f.Orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *o
	f.Orders[o.ID] = &cp
	return nil
}

func (f *FakePurchaseOrders) Delete(_ context.Context, id string) error {
	if _, ok := f.Orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.Orders, id)
	delete(f.OrderItems, id)
	return nil
}

func (f *FakePurchaseOrders) LastPurchaseNumber(_ context.Context, prefix string) (string, error) {
	last := ""
	for _, o := range f.Orders {
		if strings.HasPrefix(o.PurchaseNumber, prefix) && o.PurchaseNumber > last {
			last = o.PurchaseNumber
		}
	}
	return last, nil
}

func (f *FakePurchaseOrders) List(_ context.Context, filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	var all []*entity.PurchaseOrder
	for _, o := range f.Orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.Keyword != "" &&
			!strings.Contains(strings.ToLower(o.PurchaseNumber), filter.Keyword) &&
			!strings.Contains(strings.ToLower(o.SupplierName), filter.Keyword) {
			continue
		}
		cp := *o
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PurchaseNumber > all[j].PurchaseNumber })
	total := len(all)
	if filter.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

// FakeSalesOrders implementa repository.SalesOrderRepository.
type FakeSalesOrders struct {
	Orders     map[string]*entity.SalesOrder
	OrderItems map[string][]*entity.OrderItem
}

func NewFakeSalesOrders() *FakeSalesOrders {
	return &FakeSalesOrders{
		Orders:     make(map[string]*entity.SalesOrder),
		OrderItems: make(map[string][]*entity.OrderItem),
	}
}

func (f *FakeSalesOrders) Create(_ context.Context, o *entity.SalesOrder) error {
	cp := *o
	f.Orders[o.ID] = &cp
	return nil
}

func (f *FakeSalesOrders) CreateItem(_ context.Context, it *entity.OrderItem) error {
	cp := *it
	f.OrderItems[it.OrderID] = append(f.OrderItems[it.OrderID], &cp)
	return nil
}

func (f *FakeSalesOrders) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	o, ok := f.Orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *FakeSalesOrders) GetItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var items []*entity.OrderItem
	for _, it := range f.OrderItems[orderID] {
		cp := *it
		items = append(items, &cp)
	}
	return items, nil
}

func (f *FakeSalesOrders) UpdateTotal(_ context.Context, id string, total decimal.Decimal) error {
	o, ok := f.Orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.TotalAmount = total
	return nil
}

func (f *FakeSalesOrders) Delete(_ context.Context, id string) error {
	if _, ok := f.Orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.Orders, id)
	delete(f.OrderItems, id)
	return nil
}

func (f *FakeSalesOrders) List(_ context.Context, keyword string, limit, offset int) ([]*entity.SalesOrder, int, error) {
	var all []*entity.SalesOrder
	for _, o := range f.Orders {
		if keyword == "" || strings.Contains(strings.ToLower(o.CustomerName), keyword) {
			cp := *o
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

// FakeDashboard implementa repository.DashboardRepository acumulando deltas en
// memoria. Las estadísticas devuelven ceros.
type FakeDashboard struct {
	Rows map[[2]int]*entity.Dashboard
}

func NewFakeDashboard() *FakeDashboard {
	return &FakeDashboard{Rows: make(map[[2]int]*entity.Dashboard)}
}

func (f *FakeDashboard) row(year, month int) *entity.Dashboard {
	key := [2]int{year, month}
	d, ok := f.Rows[key]
	if !ok {
		d = &entity.Dashboard{
			Year: year, Month: month,
			Subtotal: decimal.Zero, Total: decimal.Zero, Profit: decimal.Zero,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		f.Rows[key] = d
	}
	return d
}

func (f *FakeDashboard) GetOrCreate(_ context.Context, year, month int) (*entity.Dashboard, error) {
	cp := *f.row(year, month)
	return &cp, nil
}

func (f *FakeDashboard) ApplyDelta(_ context.Context, year, month int, subtotalDelta, totalDelta decimal.Decimal) error {
	d := f.row(year, month)
	d.Subtotal = d.Subtotal.Add(subtotalDelta)
	d.Total = d.Total.Add(totalDelta)
	d.Profit = d.Total.Sub(d.Subtotal)
	return nil
}

func (f *FakeDashboard) Get(_ context.Context, year, month int) (*entity.Dashboard, error) {
	d, ok := f.Rows[[2]int{year, month}]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *FakeDashboard) MonthlyReport(_ context.Context) ([]repository.ReportRow, error) {
	var rows []repository.ReportRow
	for _, d := range f.Rows {
		rows = append(rows, repository.ReportRow{
			Year: d.Year, Month: d.Month,
			Subtotal: d.Subtotal, Total: d.Total, Profit: d.Profit,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year > rows[j].Year
		}
		return rows[i].Month > rows[j].Month
	})
	return rows, nil
}

func (f *FakeDashboard) YearlyReport(_ context.Context) ([]repository.ReportRow, error) {
	byYear := make(map[int]*repository.ReportRow)
	for _, d := range f.Rows {
		row, ok := byYear[d.Year]
		if !ok {
			row = &repository.ReportRow{Year: d.Year, Subtotal: decimal.Zero, Total: decimal.Zero, Profit: decimal.Zero}
			byYear[d.Year] = row
		}
		row.Subtotal = row.Subtotal.Add(d.Subtotal)
		row.Total = row.Total.Add(d.Total)
		row.Profit = row.Profit.Add(d.Profit)
	}
	var rows []repository.ReportRow
	for _, row := range byYear {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year > rows[j].Year })
	return rows, nil
}

func (f *FakeDashboard) PurchaseStats(_ context.Context, _, _ int) (*repository.PurchaseStats, error) {
	return &repository.PurchaseStats{
		TotalAmount: decimal.Zero, PaidAmount: decimal.Zero, RemainingAmount: decimal.Zero,
	}, nil
}

func (f *FakeDashboard) SalesStats(_ context.Context, _, _ int) (*repository.SalesStats, error) {
	return &repository.SalesStats{TotalAmount: decimal.Zero}, nil
}

// FakeTxRunner pasa los fakes al callback sin transacción real.
type FakeTxRunner struct {
	Products       *FakeProducts
	PurchaseOrders *FakePurchaseOrders
	SalesOrders    *FakeSalesOrders
	Dashboard      *FakeDashboard
}

func NewFakeTxRunner(products ...*entity.Product) *FakeTxRunner {
	return &FakeTxRunner{
		Products:       NewFakeProducts(products...),
		PurchaseOrders: NewFakePurchaseOrders(),
		SalesOrders:    NewFakeSalesOrders(),
		Dashboard:      NewFakeDashboard(),
	}
}

func (r *FakeTxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	orders repository.PurchaseOrderRepository,
	dashboard repository.DashboardRepository,
) error) error {
	return fn(r.Products, r.PurchaseOrders, r.Dashboard)
}

func (r *FakeTxRunner) RunSales(ctx context.Context, fn func(
	products repository.ProductRepository,
	orders repository.SalesOrderRepository,
	dashboard repository.DashboardRepository,
) error) error {
	return fn(r.Products, r.SalesOrders, r.Dashboard)
}
