package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func item(price float64, qty int64) *entity.PurchaseOrderItem {
	it := &entity.PurchaseOrderItem{
		PurchasePrice: decimal.NewFromFloat(price),
		Quantity:      qty,
	}
	it.RecalcTotal()
	return it
}

func TestRecalcTotals_SumaItems(t *testing.T) {
	o := &entity.PurchaseOrder{}
	// 5×20 + 3×30 = 190
	o.RecalcTotals([]*entity.PurchaseOrderItem{item(20, 5), item(30, 3)})

	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(190)), "total esperado 190, fue %s", o.TotalAmount)
	assert.True(t, o.RemainingAmount.Equal(decimal.NewFromInt(190)))
	assert.Equal(t, entity.PaymentStatusPending, o.PaymentStatus)
}

func TestRecalcPayment_DerivaEstado(t *testing.T) {
	o := &entity.PurchaseOrder{TotalAmount: decimal.NewFromInt(100)}

	o.PaidAmount = decimal.Zero
	o.RecalcPayment()
	assert.Equal(t, entity.PaymentStatusPending, o.PaymentStatus)

	o.PaidAmount = decimal.NewFromInt(40)
	o.RecalcPayment()
	assert.Equal(t, entity.PaymentStatusPartial, o.PaymentStatus)
	assert.True(t, o.RemainingAmount.Equal(decimal.NewFromInt(60)))

	o.PaidAmount = decimal.NewFromInt(100)
	o.RecalcPayment()
	assert.Equal(t, entity.PaymentStatusPaid, o.PaymentStatus)

	// Sobrepago también cuenta como pagado
	o.PaidAmount = decimal.NewFromInt(120)
	o.RecalcPayment()
	assert.Equal(t, entity.PaymentStatusPaid, o.PaymentStatus)
}

func TestRecalcTotal_Item(t *testing.T) {
	it := item(12.5, 4)
	assert.True(t, it.TotalAmount.Equal(decimal.NewFromInt(50)))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.PurchaseStatusDraft, entity.PurchaseStatusConfirmed, true},
		{entity.PurchaseStatusDraft, entity.PurchaseStatusCancelled, true},
		{entity.PurchaseStatusDraft, entity.PurchaseStatusCompleted, false},
		{entity.PurchaseStatusConfirmed, entity.PurchaseStatusCompleted, true},
		{entity.PurchaseStatusConfirmed, entity.PurchaseStatusCancelled, true},
		{entity.PurchaseStatusConfirmed, entity.PurchaseStatusDraft, false},
		{entity.PurchaseStatusCompleted, entity.PurchaseStatusCancelled, false},
		{entity.PurchaseStatusCancelled, entity.PurchaseStatusConfirmed, false},
		{entity.PurchaseStatusConfirmed, entity.PurchaseStatusConfirmed, true},
	}
	for _, c := range cases {
		o := &entity.PurchaseOrder{Status: c.from}
		assert.Equal(t, c.ok, o.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestCanModify(t *testing.T) {
	assert.True(t, (&entity.PurchaseOrder{Status: entity.PurchaseStatusConfirmed}).CanModify())
	assert.False(t, (&entity.PurchaseOrder{Status: entity.PurchaseStatusCompleted}).CanModify())
}

func TestUnitSalePrice_Fallback(t *testing.T) {
	p := &entity.Product{Price: decimal.NewFromInt(100), PayPrice: decimal.NewFromInt(150)}
	assert.True(t, p.UnitSalePrice().Equal(decimal.NewFromInt(150)))

	sinVenta := &entity.Product{Price: decimal.NewFromInt(100)}
	assert.True(t, sinVenta.UnitSalePrice().Equal(decimal.NewFromInt(100)))
}
