// Package pdf implementa la representación gráfica del Estado de Cuenta de
// proveedores y clientes.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de cuenta + Nombre  │  Fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PERIODO: Desde / Hasta                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Referencia | Monto | Saldo            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Cargos / Abonos / SALDO ACTUAL                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
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
	"github.com/shopspring/decimal"

	appfinance "github.com/jhoicas/nexus-ledger/internal/application/finance"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/finance"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa finance.StatementRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	money *moneyFormatter
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{money: newMoneyFormatter()}
}

var _ appfinance.StatementRenderer = (*MarotoPDFGenerator)(nil)

// RenderStatement genera el PDF del estado de cuenta y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderStatement(_ context.Context, doc *appfinance.StatementDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de Cuenta", true).
		WithAuthor("Nexus Ledger", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(periodRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(doc.Transactions) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el periodo.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	for _, r := range g.tableDetailRows(doc.Transactions) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: cuenta (izq) y fecha de generación (der).
func (g *MarotoPDFGenerator) headerRow(doc *appfinance.StatementDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.EntityName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(entityLabel(doc.EntityType)+" · "+doc.EntityID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+doc.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// periodRow: rango consultado; sin límites se imprime "inicio" / "hoy".
func periodRow(doc *appfinance.StatementDocument) core.Row {
	from, to := "inicio", "hoy"
	if doc.From != nil {
		from = doc.From.Format("02/01/2006")
	}
	if doc.To != nil {
		to = doc.To.Format("02/01/2006")
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Periodo: %s  a  %s   |   Transacciones: %d", from, to, len(doc.Transactions)),
			props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

// tableHeaderRow: cabecera de la tabla de transacciones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Referencia", 3, align.Left),
		h("Monto", 2, align.Right),
		h("Vence", 1, align.Center),
		h("Saldo", 2, align.Right),
	)
}

// tableDetailRows: una fila por transacción. Los abonos se imprimen con signo negativo.
func (g *MarotoPDFGenerator) tableDetailRows(list []*entity.FinancialTransaction) []core.Row {
	result := make([]core.Row, 0, len(list))
	for _, t := range list {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("02/01")
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(t.TransactionDate.Format("02/01/2006"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(typeLabel(t.Type), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(t.ReferenceDocID, "-"), props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.money.format(finance.SignedDelta(t).Add(t.CashPayment)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(due, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money.format(t.BalanceAfter), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: cargos, abonos y saldo actual alineados a la derecha.
func (g *MarotoPDFGenerator) totalsRow(doc *appfinance.StatementDocument) core.Row {
	charges, credits := statementTotals(doc.Transactions)
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Cargos:", 1),
			label("Abonos:", 6),
			text.New("SALDO ACTUAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12,
			}),
		),
		col.New(3).Add(
			value(g.money.format(charges), 1),
			value(g.money.format(credits), 6),
			text.New(g.money.format(doc.CurrentBalance), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 12,
			}),
		),
	)
}

// footerRow: QR con la huella del documento + leyenda.
func (g *MarotoPDFGenerator) footerRow(doc *appfinance.StatementDocument) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(verificationCode(doc), props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Estado de cuenta generado por Nexus Ledger.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("El saldo incluye todas las transacciones registradas hasta la fecha de generación, "+
				"aunque el periodo consultado sea menor.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// statementTotals suma cargos (facturas y notas débito) y abonos (pagos, devoluciones,
// notas crédito y porciones de contado).
func statementTotals(list []*entity.FinancialTransaction) (charges, credits decimal.Decimal) {
	charges, credits = decimal.Zero, decimal.Zero
	for _, t := range list {
		switch {
		case t.Type == entity.TransactionTypeInvoice || t.Type == entity.TransactionTypeDebitNote:
			charges = charges.Add(t.Amount)
			credits = credits.Add(t.CashPayment)
		default:
			credits = credits.Add(t.Amount)
		}
	}
	return charges, credits
}

func verificationCode(doc *appfinance.StatementDocument) string {
	return fmt.Sprintf("%s|%s|%s|%s", doc.EntityType, doc.EntityID,
		doc.CurrentBalance.StringFixed(2), doc.GeneratedAt.UTC().Format("20060102T150405Z"))
}

func entityLabel(t entity.EntityType) string {
	if t == entity.EntityTypeVendor {
		return "Proveedor"
	}
	return "Cliente"
}

func typeLabel(t entity.TransactionType) string {
	switch t {
	case entity.TransactionTypeInvoice:
		return "Factura"
	case entity.TransactionTypePayment:
		return "Pago"
	case entity.TransactionTypeReturn:
		return "Devolución"
	case entity.TransactionTypeCreditNote:
		return "Nota crédito"
	case entity.TransactionTypeDebitNote:
		return "Nota débito"
	}
	return string(t)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
