// Package pdf genera la hoja de ruta de picking imprimible de una sesión.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Orden + estado  │  Fecha de inicio                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR UBICACIÓN (en orden de ruta):                          │
//	│    BIN  │ SKU │ Producto │ Solicitado │ Escaneado           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INCIDENCIAS ABIERTAS: SKU │ Tipo │ Esperado │ Encontrado   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	apppicking "github.com/jhoicas/fulfillment-api/internal/application/picking"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

var _ apppicking.PickSheetGenerator = (*PickSheetGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 20}
)

// PickSheetGenerator implementa picking.PickSheetGenerator usando Maroto v2.
type PickSheetGenerator struct{}

// NewPickSheetGenerator construye el generador.
func NewPickSheetGenerator() *PickSheetGenerator { return &PickSheetGenerator{} }

// GeneratePickSheet genera el PDF de la hoja de ruta y devuelve sus bytes.
func (g *PickSheetGenerator) GeneratePickSheet(_ context.Context, session *entity.PickingSession) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de ruta de picking", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for i := range session.BinsToProcess {
		bin := &session.BinsToProcess[i]
		m.AddRows(binHeaderRow(i+1, bin))
		m.AddRows(itemsHeaderRow())
		for _, r := range itemRows(bin) {
			m.AddRows(r)
		}
	}

	if open := openIssues(session); len(open) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(issuesHeaderRow())
		for _, r := range issueRows(open) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar hoja de ruta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: orden + estado (izq) y fecha de inicio (der).
func headerRow(session *entity.PickingSession) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Orden "+session.OrderID, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+string(session.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Inicio: "+session.StartedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 1, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

// binHeaderRow: posición en la ruta + código de ubicación + marca de completada.
func binHeaderRow(pos int, bin *entity.BinPickingData) core.Row {
	label := fmt.Sprintf("%d. Ubicación %s", pos, bin.BinCode)
	if bin.IsCompleted {
		label += "  ✓"
	}
	return row.New(8).Add(
		col.New(12).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 10, Top: 2, Color: colorPrimary}),
		),
	)
}

func itemsHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("SKU", 3),
		headerCell("Producto", 5),
		headerCell("Solicitado", 2),
		headerCell("Escaneado", 2),
	)
}

func itemRows(bin *entity.BinPickingData) []core.Row {
	rows := make([]core.Row, 0, len(bin.Items))
	for _, item := range bin.Items {
		name := item.ProductName
		if item.Variant != "" {
			name += " — " + item.Variant
		}
		rows = append(rows, row.New(5).Add(
			bodyCell(item.SKU, 3),
			bodyCell(name, 5),
			bodyCell(fmt.Sprintf("%d", item.RequestedQuantity), 2),
			bodyCell(fmt.Sprintf("%d", item.ScannedQuantity), 2),
		))
	}
	return rows
}

func issuesHeaderRow() core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New("Incidencias abiertas", props.Text{Style: fontstyle.Bold, Size: 10, Top: 2, Color: colorAlert}),
		),
	)
}

func issueRows(issues []*entity.ProductIssue) []core.Row {
	rows := make([]core.Row, 0, len(issues))
	for _, iss := range issues {
		rows = append(rows, row.New(5).Add(
			bodyCell(iss.SKU, 3),
			bodyCell(string(iss.Type), 3),
			bodyCell(iss.BinCode, 2),
			bodyCell(fmt.Sprintf("esp. %d / enc. %d", iss.ExpectedQuantity, iss.FoundQuantity), 4),
		))
	}
	return rows
}

func openIssues(session *entity.PickingSession) []*entity.ProductIssue {
	var open []*entity.ProductIssue
	for i := range session.Issues {
		if !session.Issues[i].Resolved {
			open = append(open, &session.Issues[i])
		}
	}
	return open
}

func headerCell(label string, size int) core.Col {
	return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray}))
}

func bodyCell(value string, size int) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8}))
}
