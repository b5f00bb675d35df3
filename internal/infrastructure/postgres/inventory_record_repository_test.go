package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRow respuesta enlatada para QueryRow.
type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error { return r.scan(dest...) }

// stubQuerier registra el SQL ejecutado y entrega filas en orden.
type stubQuerier struct {
	rows    []stubRow
	selects []string
	execs   []string
}

func (q *stubQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *stubQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("Query no usado en estos tests")
}

func (q *stubQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.selects = append(q.selects, sql)
	row := q.rows[0]
	q.rows = q.rows[1:]
	return row
}

func noRow() stubRow {
	return stubRow{scan: func(...any) error { return pgx.ErrNoRows }}
}

func rowWith(productID, categoryCode string, qty decimal.Decimal) stubRow {
	return stubRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = productID
		*(dest[1].(*string)) = categoryCode
		*(dest[2].(*decimal.Decimal)) = qty
		*(dest[3].(*time.Time)) = time.Now()
		return nil
	}}
}

// La fila inexistente se materializa en cero (INSERT ... ON CONFLICT DO
// NOTHING) y se vuelve a leer bajo FOR UPDATE, de modo que dos escritores
// concurrentes sobre una (producto, categoría) nueva se serializan en el lock
// de fila en vez de leer 0 ambos y pisarse el delta.
func TestGetForUpdate_FilaNuevaSeMaterializaYBloquea(t *testing.T) {
	q := &stubQuerier{rows: []stubRow{
		noRow(),
		rowWith("prod-1", "ready_for_sale", decimal.Zero),
	}}
	repo := NewInventoryRecordRepository(q)

	rec, err := repo.GetForUpdate(context.Background(), "prod-1", "ready_for_sale")
	require.NoError(t, err)

	require.Len(t, q.execs, 1, "debe insertarse la fila en cero antes de bloquear")
	assert.Contains(t, q.execs[0], "ON CONFLICT")
	assert.Contains(t, q.execs[0], "DO NOTHING",
		"el insert no debe pisar una fila que otro escritor haya confirmado")

	require.Len(t, q.selects, 2, "debe releerse la fila después de materializarla")
	for _, sql := range q.selects {
		assert.Contains(t, sql, "FOR UPDATE")
	}

	assert.Equal(t, "prod-1", rec.ProductID)
	assert.Equal(t, "ready_for_sale", rec.CategoryCode)
	assert.True(t, rec.Quantity.IsZero())
}

func TestGetForUpdate_FilaExistenteNoInserta(t *testing.T) {
	q := &stubQuerier{rows: []stubRow{
		rowWith("prod-1", "research", decimal.NewFromInt(12)),
	}}
	repo := NewInventoryRecordRepository(q)

	rec, err := repo.GetForUpdate(context.Background(), "prod-1", "research")
	require.NoError(t, err)

	assert.Empty(t, q.execs, "una fila existente se bloquea sin insertar nada")
	require.Len(t, q.selects, 1)
	assert.True(t, strings.Contains(q.selects[0], "FOR UPDATE"))
	assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(12)))
}

// Get (sin lock) conserva la lectura de fila inexistente como cantidad cero,
// sin efectos de escritura.
func TestGet_FilaInexistenteEsCeroSinEscrituras(t *testing.T) {
	q := &stubQuerier{rows: []stubRow{noRow()}}
	repo := NewInventoryRecordRepository(q)

	rec, err := repo.Get(context.Background(), "prod-1", "returned")
	require.NoError(t, err)

	assert.Empty(t, q.execs)
	assert.True(t, rec.Quantity.IsZero())
}
