package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	ledgerdom "github.com/jhoicas/almacen-ledger/internal/domain/ledger"
)

func buildSet() ledgerdom.CategorySet {
	return ledgerdom.NewCategorySet([]*entity.WarehouseCategory{
		{Code: "ready_for_sale", Name: "Listo para venta"},
		{Code: "research", Name: "Investigación"},
		{Code: "returned", Name: "Devoluciones"},
	})
}

func TestCategorySet_ResuelveCodigoConocido(t *testing.T) {
	set := buildSet()
	code, err := set.Resolve("ready_for_sale")
	require.NoError(t, err)
	assert.Equal(t, "ready_for_sale", code.String())
}

func TestCategorySet_RecortaEspacios(t *testing.T) {
	set := buildSet()
	code, err := set.Resolve("  research ")
	require.NoError(t, err)
	assert.Equal(t, "research", code.String())
}

func TestCategorySet_RechazaCodigoDesconocido(t *testing.T) {
	set := buildSet()
	_, err := set.Resolve("damaged")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategorySet_RechazaVacio(t *testing.T) {
	set := buildSet()
	_, err := set.Resolve("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategorySet_Contains(t *testing.T) {
	set := buildSet()
	assert.True(t, set.Contains("returned"))
	assert.False(t, set.Contains("RETURNED"), "los códigos distinguen mayúsculas")
	assert.Equal(t, 3, set.Len())
}
