package purchasing

import (
	"fmt"
	"strconv"
	"time"
)

// purchaseNumberPrefix devuelve el prefijo del día: PO + yyyymmdd.
func purchaseNumberPrefix(now time.Time) string {
	return "PO" + now.Format("20060102")
}

// maxDailySequence es el tope de la secuencia diaria: el formato reserva
// exactamente 4 dígitos tras el prefijo.
const maxDailySequence = 9999

// nextPurchaseNumber calcula el siguiente número a partir del más alto del día
// (last == "" si aún no hay ninguno). La secuencia arranca en 0001 y se
// zero-pad a 4 dígitos; agotado el tope del día devuelve error. La unicidad
// real la garantiza el índice único de purchase_number: ante una colisión
// concurrente el caller reintenta.
func nextPurchaseNumber(prefix, last string) (string, error) {
	seq := 0
	if len(last) > len(prefix) {
		if n, err := strconv.Atoi(last[len(prefix):]); err == nil {
			seq = n
		}
	}
	if seq >= maxDailySequence {
		return "", fmt.Errorf("secuencia diaria de órdenes agotada (%s%04d)", prefix, maxDailySequence)
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}
