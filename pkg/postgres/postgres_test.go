package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, User: "shop", Pass: "p@ss word", DB: "mall"}

	assert.Equal(t, "postgres://shop:p%40ss%20word@db:5433/mall?sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestOpenRejectsEmptyConfig(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "x"`)))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"products", "cart_items", "orders", "order_items", "coupons", "user_coupons"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}
