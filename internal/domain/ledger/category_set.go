// Package ledger contiene los servicios de dominio puros del núcleo de
// inventario: resolución de categorías contra el conjunto cerrado de la
// empresa y la aritmética de conciliación de compras.
package ledger

import (
	"strings"

	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
)

// CategoryCode código de categoría ya validado contra el conjunto cerrado.
// Los motores trabajan con este tipo; el string crudo solo existe en el borde.
type CategoryCode string

func (c CategoryCode) String() string { return string(c) }

// CategorySet conjunto cerrado de categorías de bodega de una empresa,
// resuelto una sola vez por operación.
type CategorySet struct {
	codes map[string]struct{}
}

// NewCategorySet construye el conjunto desde las categorías de la empresa.
func NewCategorySet(categories []*entity.WarehouseCategory) CategorySet {
	codes := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		codes[c.Code] = struct{}{}
	}
	return CategorySet{codes: codes}
}

// Contains indica si code pertenece al conjunto.
func (s CategorySet) Contains(code string) bool {
	_, ok := s.codes[code]
	return ok
}

// Resolve valida un código crudo contra el conjunto cerrado y lo convierte al
// tipo interno. Códigos desconocidos o vacíos se rechazan con ErrInvalidInput.
func (s CategorySet) Resolve(raw string) (CategoryCode, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", domain.ErrInvalidInput
	}
	if !s.Contains(code) {
		return "", domain.ErrInvalidInput
	}
	return CategoryCode(code), nil
}

// Len cantidad de categorías del conjunto.
func (s CategorySet) Len() int { return len(s.codes) }
