// Package pdf genera el kardex de un producto en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del producto + SKU  │  Fecha de emisión     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Origen | Destino | Cantidad | Motivo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: entradas / salidas / neto del período             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/almacen-ledger/internal/application/ledger"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appledger.KardexGenerator = (*MarotoKardexGenerator)(nil)

// MarotoKardexGenerator implementa ledger.KardexGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

// GenerateKardexPDF genera el PDF y devuelve sus bytes.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	product *entity.Product,
	entries []*entity.LedgerEntry,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de producto", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range entryRows(entries) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(entries))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: producto + SKU (izq) y fecha de emisión (der).
func headerRow(product *entity.Product) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+product.SKU, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("KARDEX DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de asientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Origen", 2, align.Left),
		h("Destino", 2, align.Left),
		h("Cantidad", 1, align.Right),
		h("Motivo", 3, align.Left),
	)
}

// entryRows: una fila por asiento.
func entryRows(entries []*entity.LedgerEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				e.CreatedAt.Format("02/01/2006 15:04"),
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				e.Kind,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				derefOr(e.SourceCategory, "—"),
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				derefOr(e.DestCategory, "—"),
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				e.Quantity.String(),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				e.Reason,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
		))
	}
	return result
}

// summaryRow: totales de entradas, salidas y neto del período.
func summaryRow(entries []*entity.LedgerEntry) core.Row {
	in, out := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.AppliesTo() == nil {
			continue
		}
		if e.Quantity.IsPositive() {
			in = in.Add(e.Quantity)
		} else {
			out = out.Add(e.Quantity.Neg())
		}
	}
	net := in.Sub(out)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Entradas:"),
			label("Salidas:"),
			label("Neto del período:"),
		),
		col.New(3).Add(
			value(in.String()),
			value(out.String()),
			value(net.String()),
		),
	)
}

func derefOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
