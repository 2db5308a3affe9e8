package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaSQL_DefineTodasLasTablas(t *testing.T) {
	ddl := SchemaSQL()
	for _, table := range Tables() {
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestSchemaSQL_ColumnasDeRepos(t *testing.T) {
	ddl := SchemaSQL()
	for _, group := range [][]string{productColumns, saleColumns, invoiceColumns, alertColumns, transactionColumns, purchaseOrderColumns, purchaseItemColumns} {
		for _, c := range group {
			assert.True(t, strings.Contains(ddl, "    "+c+" "), "columna %s no está en el DDL", c)
		}
	}
}

func TestSchemaSQL_RestriccionesDeStock(t *testing.T) {
	ddl := SchemaSQL()
	assert.Contains(t, ddl, "CHECK (quantity >= 0)")
	assert.Contains(t, ddl, "CHECK (min_stock_level >= 0)")
	assert.Contains(t, ddl, "sale_id         UUID NOT NULL UNIQUE")
}

func TestSchemaSQL_HistorialNoSeBorraEnCascada(t *testing.T) {
	ddl := SchemaSQL()
	assert.Equal(t, 4, strings.Count(ddl, "REFERENCES products(id) ON DELETE RESTRICT"))
	// la única cascada: las líneas de una orden de compra viven con su cabecera
	assert.Equal(t, 1, strings.Count(ddl, "CASCADE"))
	assert.Contains(t, ddl, "REFERENCES purchase_orders(id) ON DELETE CASCADE")
}
