// Package pdf implementa la representación gráfica de una factura de venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor               │  N° Factura + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Impuesto | Subtotal       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Gravado / Exento / Impuesto / Total     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: código de barras del producto + venta de origen     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/retail-inventory/internal/application/billing"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/pkg/barcode"
)

var _ appbilling.InvoicePDFRenderer = (*MarotoInvoiceRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoInvoiceRenderer implementa billing.InvoicePDFRenderer usando Maroto v2.
// Escribe los archivos en Dir como invoice_<id>.pdf.
type MarotoInvoiceRenderer struct {
	dir     string
	issuer  string
	printer *message.Printer
}

// NewMarotoInvoiceRenderer construye el renderer. issuer es el nombre que encabeza la factura.
func NewMarotoInvoiceRenderer(dir, issuer string) *MarotoInvoiceRenderer {
	return &MarotoInvoiceRenderer{
		dir:     dir,
		issuer:  issuer,
		printer: message.NewPrinter(language.Spanish),
	}
}

// PathFor ruta del PDF de una factura.
func (g *MarotoInvoiceRenderer) PathFor(invoiceID string) string {
	return filepath.Join(g.dir, "invoice_"+invoiceID+".pdf")
}

// Render genera el documento y devuelve sus bytes sin tocar el disco.
func (g *MarotoInvoiceRenderer) Render(inv *entity.Invoice, lines []entity.InvoiceLine) ([]byte, error) {
	doc, err := g.build(inv, lines).Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderInvoice genera el PDF en disco y devuelve su ruta.
func (g *MarotoInvoiceRenderer) RenderInvoice(ctx context.Context, inv *entity.Invoice, lines []entity.InvoiceLine) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := g.Render(inv, lines)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: crear directorio %s: %w", g.dir, err)
	}
	path := g.PathFor(inv.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: escribir %s: %w", path, err)
	}
	return path, nil
}

func (g *MarotoInvoiceRenderer) build(inv *entity.Invoice, lines []entity.InvoiceLine) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.ID, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableDetailRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(inv, lines)...)
	return m
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y número + fecha (der).
func (g *MarotoInvoiceRenderer) headerRow(inv *entity.Invoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.issuer, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Venta: "+inv.SaleID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(inv.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+inv.InvoiceDate.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Imp.%", 1, align.Center),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea de detalle.
func (g *MarotoInvoiceRenderer) tableDetailRows(lines []entity.InvoiceLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, d := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", d.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				d.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				g.money(d.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				d.TaxRate.Mul(decimal.NewFromInt(100)).StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				g.money(d.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoInvoiceRenderer) totalsRow(inv *entity.Invoice) core.Row {
	labels := col.New(3)
	values := col.New(3)
	entries := []struct {
		name  string
		value decimal.Decimal
	}{
		{"Subtotal:", inv.Subtotal},
		{"Gravado:", inv.TaxableAmount},
		{"Exento:", inv.ExemptAmount},
		{"Impuestos:", inv.TaxAmount},
		{"Descuento:", inv.Discount.Neg()},
	}
	for i, e := range entries {
		top := float64(i * 5)
		labels.Add(text.New(e.name, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		values.Add(text.New(g.money(e.value), props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
	}
	top := float64(len(entries) * 5)
	labels.Add(text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: top,
	}))
	values.Add(text.New(g.money(inv.Total), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
	}))

	return row.New(36).Add(
		col.New(6), // espacio izquierdo
		labels,
		values,
	)
}

// footerRows: código de barras del primer producto con código EAN/UPC válido.
func footerRows(inv *entity.Invoice, lines []entity.InvoiceLine) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Documento generado a partir de la venta "+inv.SaleID, props.Text{
				Size: 7, Color: colorGray, Top: 1,
			}),
		)),
	}
	for _, l := range lines {
		if !barcode.Validate(l.Barcode) || len(l.Barcode) < 12 {
			continue
		}
		rows = append(rows, row.New(20).Add(
			col.New(4).Add(code.NewBar(l.Barcode, props.Barcode{Percent: 90, Center: true})),
			col.New(8).Add(text.New(l.Barcode, props.Text{Size: 8, Top: 8, Left: 3, Color: colorGray})),
		))
		break
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separadores de miles del locale, ej: 1234.5 → "$1.234,50".
func (g *MarotoInvoiceRenderer) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
