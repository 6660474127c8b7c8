// Package pdf implementa los documentos imprimibles de la aplicación con
// Maroto v2: etiquetas de código de barras de producto y la lista de empaque
// (packing list) de una salida.
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

	"github.com/netxel/inventario-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator genera los PDFs de etiquetas y listas de empaque.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateProductLabel genera una etiqueta A6 con el nombre del producto y su
// código de barras Code 128, lista para imprimir y pegar.
func (g *MarotoPDFGenerator) GenerateProductLabel(product *entity.Product) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A6).
		WithLeftMargin(5).WithRightMargin(5).
		WithTopMargin(5).WithBottomMargin(5).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Etiqueta "+product.Barcode, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(10).Add(
		col.New(12).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
		),
	))
	m.AddRows(row.New(22).Add(
		col.New(12).Add(
			code.NewBar(product.Barcode, props.Barcode{
				Percent: 90,
				Center:  true,
			}),
		),
	))
	m.AddRows(row.New(6).Add(
		col.New(12).Add(
			text.New(product.Barcode, props.Text{
				Size: 9, Color: colorGray, Align: align.Center,
			}),
		),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// GeneratePackingList genera la lista de empaque de una salida: datos de la
// tienda, el producto enviado, cantidad y guía/transportadora si aplican.
func (g *MarotoPDFGenerator) GeneratePackingList(
	movement *entity.InventoryMovement,
	product *entity.Product,
	store *entity.Store,
	carrierName string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lista de empaque", true).
		WithAuthor(store.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(store, movement))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(itemRows(movement, product)...)

	if movement.TrackingNumber != nil && *movement.TrackingNumber != "" {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(shippingRow(movement, carrierName))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar lista de empaque: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre de la tienda (izq) y referencia + fecha (der).
func headerRow(store *entity.Store, movement *entity.InventoryMovement) core.Row {
	fecha := movement.CreatedAt.Format("02/01/2006 15:04")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(store.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(store.Address, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("LISTA DE EMPAQUE", props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 1, Align: align.Right,
			}),
			text.New("Ref: "+movement.ReferenceNumber, props.Text{
				Size: 9, Top: 8, Align: align.Right, Color: colorGray,
			}),
			text.New(fecha, props.Text{
				Size: 9, Top: 13, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

// itemRows: encabezado de tabla + fila del producto enviado.
func itemRows(movement *entity.InventoryMovement, product *entity.Product) []core.Row {
	header := row.New(8).Add(
		col.New(2).Add(text.New("Cant.", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2})),
		col.New(6).Add(text.New("Producto", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2})),
		col.New(4).Add(text.New("Código", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2})),
	)
	item := row.New(8).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", movement.Quantity), props.Text{Size: 9, Top: 2})),
		col.New(6).Add(text.New(product.Name, props.Text{Size: 9, Top: 2})),
		col.New(4).Add(text.New(product.Barcode, props.Text{Size: 9, Top: 2, Color: colorGray})),
	)
	rows := []core.Row{header, item}
	if movement.Notes != "" {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(text.New("Notas: "+movement.Notes, props.Text{
				Size: 8, Top: 2, Color: colorGray,
			})),
		))
	}
	return rows
}

// shippingRow: guía y transportadora de la salida.
func shippingRow(movement *entity.InventoryMovement, carrierName string) core.Row {
	guia := *movement.TrackingNumber
	return row.New(12).Add(
		col.New(6).Add(
			text.New("Guía: "+guia, props.Text{Style: fontstyle.Bold, Size: 10, Top: 2}),
		),
		col.New(6).Add(
			text.New("Transportadora: "+carrierName, props.Text{Size: 10, Top: 2, Align: align.Right}),
		),
	)
}
