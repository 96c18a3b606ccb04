// Package pdf implementa el comprobante imprimible de una operación de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Referencia + Tipo  │  Estado + Fecha               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BODEGAS: origen / destino (o bodega única)                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Variante | SKU | Cant | Costo | Est. │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: unidades / costo total                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ stockops.SlipRenderer = (*MarotoSlipRenderer)(nil)

// MarotoSlipRenderer implementa stockops.SlipRenderer usando Maroto v2.
type MarotoSlipRenderer struct{}

// NewMarotoSlipRenderer construye el renderizador.
func NewMarotoSlipRenderer() *MarotoSlipRenderer { return &MarotoSlipRenderer{} }

// Render genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoSlipRenderer) Render(slip stockops.OperationSlip) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de operación "+slip.Reference, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(warehousesRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(slip.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(slip))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(slip))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: referencia + tipo (izq) y estado + fecha (der).
func headerRow(slip stockops.OperationSlip) core.Row {
	title := kindLabel(slip.Kind, slip.Subtype)
	fecha := slip.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(slip.Reference, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE OPERACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(slip.Status, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// warehousesRow: bodega única o par origen/destino según el tipo.
func warehousesRow(slip stockops.OperationSlip) core.Row {
	var detail string
	if slip.Kind == entity.OperationTransfer {
		detail = fmt.Sprintf("Origen: %s   |   Destino: %s",
			nonEmpty(slip.SourceWarehouse, "—"),
			nonEmpty(slip.TargetWarehouse, "—"))
	} else {
		detail = "Bodega: " + nonEmpty(slip.Warehouse, "—")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("BODEGAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(detail+"   |   Creada por: "+nonEmpty(slip.CreatedBy, "—"),
				props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Producto", 3, align.Left),
		h("Variante", 3, align.Left),
		h("SKU", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Costo", 1, align.Right),
		h("Estado", 1, align.Center),
	)
}

// tableLineRows: una fila por línea del comprobante.
func tableLineRows(lines []stockops.SlipLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Position),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				nonEmpty(l.Product, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				nonEmpty(l.Variant, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(l.SKU, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				"$"+l.UnitCost.StringFixed(0),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.State,
				props.Text{Size: 6.5, Align: align.Center, Top: 1.5},
			)),
		))
	}
	return result
}

// totalsRow: unidades y costo total, alineados a la derecha.
func totalsRow(slip stockops.OperationSlip) core.Row {
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Unidades:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			}),
			text.New("Costo total:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", slip.TotalUnits), props.Text{
				Size: 9, Align: align.Right, Right: 1,
			}),
			text.New("$"+slip.TotalCost.StringFixed(0), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// footerRow: código de barras de la referencia para escaneo en bodega.
func footerRow(slip stockops.OperationSlip) core.Row {
	return row.New(22).Add(
		col.New(4).Add(code.NewBar(slip.Reference, props.Barcode{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Escanee el código para abrir la operación en el sistema.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Documento interno de bodega, no es soporte fiscal.", props.Text{
				Size: 6.5, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func kindLabel(kind, subtype string) string {
	switch kind {
	case entity.OperationReception:
		return "Recepción " + subtype
	case entity.OperationTransfer:
		return "Traslado entre bodegas"
	case entity.OperationPurchase:
		return "Compra a proveedor"
	}
	return kind
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
