package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que los repositorios traducen a errores de dominio.
const (
	sqlstateUniqueViolation = "23505"
	sqlstateCheckViolation  = "23514"
)

// sqlstate extrae el código SQLSTATE si err viene del servidor PostgreSQL,
// "" en cualquier otro caso.
func sqlstate(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation detecta violaciones de índice único (purchase_number,
// email, nombre de categoría).
func isUniqueViolation(err error) bool {
	return sqlstate(err) == sqlstateUniqueViolation
}

// isCheckViolation detecta violaciones de CHECK, en particular el
// quantity >= 0 de products.
func isCheckViolation(err error) bool {
	return sqlstate(err) == sqlstateCheckViolation
}
