package domain

// AccountingMode decide qué lado del dashboard mensual afecta una mutación de
// producto: el costo (subtotal) o el ingreso (total). Es un parámetro explícito
// en cada operación que toca el dashboard; nunca se infiere del request.
type AccountingMode int

const (
	// ModeAdminManagement registra el movimiento como costo de compra (subtotal).
	ModeAdminManagement AccountingMode = iota
	// ModeSales registra el movimiento como ingreso de venta (total).
	ModeSales
)

func (m AccountingMode) String() string {
	if m == ModeSales {
		return "sales"
	}
	return "admin_management"
}

// ParseAccountingMode interpreta el valor del request. Vacío equivale a
// admin_management, el valor por defecto de los controladores de administración.
func ParseAccountingMode(s string) (AccountingMode, error) {
	switch s {
	case "", "admin_management":
		return ModeAdminManagement, nil
	case "sales":
		return ModeSales, nil
	default:
		return ModeAdminManagement, ErrInvalidInput
	}
}
