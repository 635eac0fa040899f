package pdf

import (
	"context"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	accent = &props.Color{Red: 46, Green: 74, Blue: 62}
	muted  = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// MarotoRenderer renders letter-size documents.
type MarotoRenderer struct{}

func NewRenderer() Renderer {
	return &MarotoRenderer{}
}

func newDocument(brand Branding, title string) (core.Maroto, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(12).
		WithRightMargin(12).
		WithTopMargin(12).
		WithTitle(title, true).
		WithAuthor(brand.CompanyName, true).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
		}).
		Build()

	m := maroto.New(cfg)
	if err := m.RegisterHeader(headerRows(brand)...); err != nil {
		return nil, err
	}
	if footer := footerRows(brand); len(footer) > 0 {
		if err := m.RegisterFooter(footer...); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func headerRows(brand Branding) []core.Row {
	contact := joinNonEmpty(" | ", brand.Phone, brand.Email, brand.Website)
	title := []core.Component{
		text.New(brand.CompanyName, props.Text{Size: 16, Style: fontstyle.Bold, Color: accent}),
		text.New(brand.Tagline, props.Text{Top: 8, Size: 9, Color: muted}),
	}
	right := col.New(4).Add(
		text.New(brand.Address, props.Text{Size: 8, Align: align.Right}),
		text.New(contact, props.Text{Top: 5, Size: 8, Align: align.Right}),
	)
	top := row.New(20).Add(col.New(8).Add(title...), right)
	if brand.Logo != nil {
		top = row.New(20).Add(
			image.NewFromBytesCol(2, brand.Logo.Data, brand.Logo.Ext, props.Rect{Percent: 90}),
			col.New(6).Add(title...),
			right,
		)
	}
	return []core.Row{top, line.NewRow(4, props.Line{Color: accent, Thickness: 0.6})}
}

func footerRows(brand Branding) []core.Row {
	if strings.TrimSpace(brand.Disclaimer) == "" {
		return nil
	}
	return []core.Row{
		text.NewRow(10, brand.Disclaimer, props.Text{Size: 6, Color: muted, Align: align.Center}),
	}
}

func (r *MarotoRenderer) Brochure(ctx context.Context, brand Branding, sheet Sheet) ([]byte, error) {
	if strings.TrimSpace(sheet.Title) == "" {
		return nil, ErrNothingToRender
	}
	m, err := newDocument(brand, sheet.Title)
	if err != nil {
		return nil, err
	}

	m.AddRow(12,
		text.NewCol(8, sheet.Title, props.Text{Size: 20, Style: fontstyle.Bold}),
		text.NewCol(4, sheet.Price, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right, Color: accent}),
	)
	if sheet.Subtitle != "" || sheet.Badge != "" {
		m.AddRow(8,
			text.NewCol(8, sheet.Subtitle, props.Text{Size: 10, Color: muted}),
			text.NewCol(4, strings.ToUpper(sheet.Badge), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		)
	}

	images := compact(sheet.Images)
	if len(images) > 0 {
		hero := images[0]
		m.AddRow(90, image.NewFromBytesCol(12, hero.Data, hero.Ext, props.Rect{Center: true, Percent: 100}))
		thumbs := images[1:]
		if len(thumbs) > 4 {
			thumbs = thumbs[:4]
		}
		if len(thumbs) > 0 {
			cols := make([]core.Col, 0, 4)
			for _, img := range thumbs {
				cols = append(cols, image.NewFromBytesCol(3, img.Data, img.Ext, props.Rect{Center: true, Percent: 92}))
			}
			for len(cols) < 4 {
				cols = append(cols, col.New(3))
			}
			m.AddRow(32, cols...)
		}
	}

	if specs := sheet.Specs; len(specs) > 0 {
		if len(specs) > 6 {
			specs = specs[:6]
		}
		m.AddRow(6)
		cols := make([]core.Col, 0, len(specs))
		size := specColumnSize(len(specs))
		for _, spec := range specs {
			cols = append(cols, col.New(size).Add(
				text.New(spec.Value, props.Text{Size: 13, Style: fontstyle.Bold, Align: align.Center}),
				text.New(spec.Label, props.Text{Top: 7, Size: 8, Color: muted, Align: align.Center}),
			))
		}
		m.AddRow(16, cols...)
	}

	if desc := strings.TrimSpace(sheet.Description); desc != "" {
		m.AddRow(4)
		m.AddAutoRow(text.NewCol(12, desc, props.Text{Size: 10, Top: 2}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

// Flyer lays cards out two per row.
func (r *MarotoRenderer) Flyer(ctx context.Context, brand Branding, flyer Flyer) ([]byte, error) {
	if len(flyer.Cards) == 0 {
		return nil, ErrNothingToRender
	}
	m, err := newDocument(brand, flyer.Title)
	if err != nil {
		return nil, err
	}
	m.AddRow(12, text.NewCol(12, flyer.Title, props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Center}))

	for i := 0; i < len(flyer.Cards); i += 2 {
		pair := flyer.Cards[i:min(i+2, len(flyer.Cards))]
		imageCols := make([]core.Col, 0, 2)
		infoCols := make([]core.Col, 0, 2)
		for _, card := range pair {
			if card.Image != nil {
				imageCols = append(imageCols, image.NewFromBytesCol(6, card.Image.Data, card.Image.Ext, props.Rect{Center: true, Percent: 94}))
			} else {
				imageCols = append(imageCols, text.NewCol(6, "Photo coming soon", props.Text{Top: 22, Align: align.Center, Color: muted}))
			}
			infoCols = append(infoCols, col.New(6).Add(
				text.New(card.Title, props.Text{Size: 11, Style: fontstyle.Bold, Left: 2}),
				text.New(card.Address, props.Text{Top: 5, Size: 8, Color: muted, Left: 2}),
				text.New(card.Price, props.Text{Top: 10, Size: 11, Style: fontstyle.Bold, Color: accent, Left: 2}),
				text.New(card.Specs, props.Text{Top: 16, Size: 8, Left: 2}),
				text.New(strings.ToUpper(card.Status), props.Text{Top: 16, Size: 8, Style: fontstyle.Bold, Align: align.Right, Right: 2}),
			))
		}
		if len(pair) == 1 {
			imageCols = append(imageCols, col.New(6))
			infoCols = append(infoCols, col.New(6))
		}
		m.AddRow(52, imageCols...)
		m.AddRow(24, infoCols...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func (r *MarotoRenderer) SelectionBook(ctx context.Context, brand Branding, summary SelectionSummary) ([]byte, error) {
	m, err := newDocument(brand, "Selection Book")
	if err != nil {
		return nil, err
	}

	m.AddRow(12,
		text.NewCol(8, "Selection Book", props.Text{Size: 18, Style: fontstyle.Bold}),
		text.NewCol(4, strings.ToUpper(summary.Status), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
	)
	m.AddRow(22,
		col.New(6).Add(
			text.New(summary.CustomerName, props.Text{Size: 11, Style: fontstyle.Bold}),
			text.New(summary.CustomerEmail, props.Text{Top: 6, Size: 9}),
			text.New(summary.CustomerPhone, props.Text{Top: 11, Size: 9}),
		),
		col.New(6).Add(
			text.New("Plan: "+orDash(summary.PlanName), props.Text{Size: 9, Align: align.Right}),
			text.New("Lot: "+orDash(summary.LotLabel), props.Text{Top: 5, Size: 9, Align: align.Right}),
			text.New("Prepared by "+orDash(summary.PreparedBy), props.Text{Top: 10, Size: 8, Color: muted, Align: align.Right}),
			text.New(summary.Date, props.Text{Top: 15, Size: 8, Color: muted, Align: align.Right}),
		),
	)

	m.AddRow(8,
		text.NewCol(5, "Category", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
		text.NewCol(7, "Selection", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
	)
	m.AddRows(line.NewRow(2, props.Line{Color: muted, Thickness: 0.3}))
	if len(summary.Lines) == 0 {
		m.AddRow(8, text.NewCol(12, "No selections recorded yet.", props.Text{Size: 9, Color: muted}))
	}
	for _, l := range summary.Lines {
		m.AddAutoRow(
			text.NewCol(5, l.Category, props.Text{Size: 9, Top: 1, Bottom: 1}),
			text.NewCol(7, l.Choice, props.Text{Size: 9, Top: 1, Bottom: 1}),
		)
	}
	m.AddRows(line.NewRow(4, props.Line{Color: muted, Thickness: 0.3}))
	m.AddRow(10,
		col.New(7),
		text.NewCol(2, "Total upgrades", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, summary.TotalUpgrades, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Color: accent}),
	)

	if notes := strings.TrimSpace(summary.Notes); notes != "" {
		m.AddRow(8, text.NewCol(12, "Notes", props.Text{Size: 10, Style: fontstyle.Bold, Top: 3}))
		m.AddAutoRow(text.NewCol(12, notes, props.Text{Size: 9}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func specColumnSize(n int) int {
	switch {
	case n <= 2:
		return 6
	case n == 3:
		return 4
	case n == 4:
		return 3
	default:
		return 2
	}
}

func compact(images []*Image) []*Image {
	out := make([]*Image, 0, len(images))
	for _, img := range images {
		if img != nil {
			out = append(out, img)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
