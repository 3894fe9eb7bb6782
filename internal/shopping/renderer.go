package shopping

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	nameWidth   = 100.0
	unitWidth   = 30.0
	amountWidth = 30.0
	rowHeight   = 10.0

	footerOffset = -15.0
	bottomMargin = 20.0

	unicodeFamily = "body"
	coreFamily    = "Helvetica"
)

// Labels are the fixed strings printed on every page.
type Labels struct {
	Title  string
	Name   string
	Unit   string
	Amount string
	Page   string
}

func DefaultLabels() Labels {
	return Labels{
		Title:  "Список покупок",
		Name:   "Ингредиент",
		Unit:   "Е. И.",
		Amount: "Количество",
		Page:   "Страница",
	}
}

type RendererOptions struct {
	// FontPath is a TrueType font with the glyphs of every ingredient name.
	// Required unless Transliterate is set.
	FontPath      string
	Transliterate bool
	Labels        Labels
}

// Renderer lays out a List as a paginated A4 table.
type Renderer struct {
	font          []byte
	transliterate bool
	labels        Labels
}

// NewRenderer loads the font once and checks that fpdf can use it. A
// missing, empty or unparsable font is a configuration error.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	labels := opts.Labels
	if labels == (Labels{}) {
		labels = DefaultLabels()
	}

	r := &Renderer{transliterate: opts.Transliterate, labels: labels}
	if opts.Transliterate {
		return r, nil
	}

	if opts.FontPath == "" {
		return nil, errors.New("shopping list font path not set")
	}
	font, err := os.ReadFile(opts.FontPath)
	if err != nil {
		return nil, fmt.Errorf("load shopping list font: %w", err)
	}
	if len(font) == 0 {
		return nil, fmt.Errorf("load shopping list font: %s is empty", opts.FontPath)
	}
	r.font = font

	if err := r.checkFont(); err != nil {
		return nil, fmt.Errorf("load shopping list font %s: %w", opts.FontPath, err)
	}
	return r, nil
}

// checkFont registers the font on a scratch document and selects it,
// which is where fpdf reports a file it could not parse.
func (r *Renderer) checkFont() error {
	pdf, family := r.newDocument()
	if err := pdf.Error(); err != nil {
		return err
	}
	pdf.AddPage()
	pdf.SetFont(family, "", 12)
	return pdf.Error()
}

func (r *Renderer) text(s string) string {
	if r.transliterate {
		return Transliterate(s)
	}
	return s
}

func (r *Renderer) newDocument() (*fpdf.Fpdf, string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	if r.transliterate {
		return pdf, coreFamily
	}
	pdf.AddUTF8FontFromBytes(unicodeFamily, "", r.font)
	return pdf, unicodeFamily
}

// Render writes the PDF for list to w. Rows keep list order; amounts are
// printed as base-10 integers.
func (r *Renderer) Render(w io.Writer, list *List) error {
	pdf := r.layout(list)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render shopping list: %w", err)
	}
	return pdf.Output(w)
}

func (r *Renderer) layout(list *List) *fpdf.Fpdf {
	pdf, family := r.newDocument()
	pdf.SetAutoPageBreak(true, bottomMargin)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(family, "", 12)
		pdf.CellFormat(0, rowHeight, r.text(r.labels.Title), "", 1, "C", false, 0, "")
		pdf.CellFormat(nameWidth, rowHeight, r.text(r.labels.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(unitWidth, rowHeight, r.text(r.labels.Unit), "1", 0, "L", false, 0, "")
		pdf.CellFormat(amountWidth, rowHeight, r.text(r.labels.Amount), "1", 1, "L", false, 0, "")
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(footerOffset)
		pdf.SetFont(family, "", 8)
		label := r.text(r.labels.Page) + " " + strconv.Itoa(pdf.PageNo())
		pdf.CellFormat(0, rowHeight, label, "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(family, "", 12)

	if list != nil {
		for _, row := range list.Rows() {
			pdf.CellFormat(nameWidth, rowHeight, r.text(row.Name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(unitWidth, rowHeight, r.text(row.Unit), "1", 0, "L", false, 0, "")
			pdf.CellFormat(amountWidth, rowHeight, strconv.Itoa(row.Total), "1", 1, "L", false, 0, "")
		}
	}
	return pdf
}
