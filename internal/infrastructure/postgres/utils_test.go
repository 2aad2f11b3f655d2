package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestSqlstate(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "purchase_orders_purchase_number_key"}
	check := &pgconn.PgError{Code: "23514", ConstraintName: "products_quantity_check"}

	assert.Equal(t, "23505", sqlstate(unique))
	assert.Equal(t, "23514", sqlstate(check))
	assert.Equal(t, "23505", sqlstate(fmt.Errorf("insert: %w", unique)),
		"errors.As atraviesa el wrapping")
	assert.Equal(t, "", sqlstate(errors.New("conexión rechazada")))
	assert.Equal(t, "", sqlstate(nil))
}

func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(check))
	assert.True(t, isCheckViolation(check))
	assert.False(t, isCheckViolation(errors.New("23514 en el texto no cuenta")),
		"solo el código estructurado identifica la violación")
}
