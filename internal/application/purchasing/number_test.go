package purchasing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseNumberPrefix(t *testing.T) {
	day := time.Date(2026, time.August, 29, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "PO20260829", purchaseNumberPrefix(day))
}

func TestNextPurchaseNumber(t *testing.T) {
	prefix := "PO20260829"

	n, err := nextPurchaseNumber(prefix, "")
	require.NoError(t, err)
	assert.Equal(t, "PO202608290001", n, "primer número del día arranca en 0001")

	n, err = nextPurchaseNumber(prefix, "PO202608290001")
	require.NoError(t, err)
	assert.Equal(t, "PO202608290002", n)

	n, err = nextPurchaseNumber(prefix, "PO202608290099")
	require.NoError(t, err)
	assert.Equal(t, "PO202608290100", n, "la secuencia se zero-pad a 4 dígitos")

	n, err = nextPurchaseNumber(prefix, "PO202608299998")
	require.NoError(t, err)
	assert.Equal(t, "PO202608299999", n, "9999 es el último del día")
}

func TestNextPurchaseNumber_SecuenciaAgotada(t *testing.T) {
	prefix := "PO20260829"

	_, err := nextPurchaseNumber(prefix, "PO202608299999")
	require.Error(t, err, "el formato reserva 4 dígitos: 9999 no tiene siguiente")
	assert.Contains(t, err.Error(), "agotada")
}
