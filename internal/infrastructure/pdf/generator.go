// Package pdf renders the canonical invoice as a paginated A4 document:
// title and header fields, sender/receiver blocks, the line table with
// word-wrapped descriptions and alternating row shading, right-aligned
// totals, bank details and notes. Labels come from per-language packs.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
)

// Geometry of the page, in mm. The content area spans x 20..190; the vertical
// cursor starts at the top margin on every page.
const (
	pageLeft     = 20.0
	pageRight    = 190.0
	pageCenter   = 105.0
	contentWidth = pageRight - pageLeft
	topMargin    = 20.0

	// pageBreakY is checked after a row is drawn: a row may slightly exceed
	// it on the page it started on, the next row lands on a fresh page.
	pageBreakY = 270.0

	descColX       = 22.0
	descColWidth   = 85.0
	colQuantityX   = 110.0
	colUnitPriceX  = 135.0
	colVatRateX    = 160.0
	colAmountX     = 188.0
	headerRowH     = 8.0
	minRowHeight   = 7.0
	wrapLineHeight = 5.0

	totalsLabelX = 145.0

	dateLayout = "02.01.2006" // Norwegian convention, used for both label packs
)

// rowHeight returns the height of a table row holding the given number of
// wrapped description lines: never below the fixed minimum, otherwise sized
// to the wrapped text. Long descriptions grow the row, they are never
// truncated.
func rowHeight(wrappedLines int) float64 {
	h := float64(wrappedLines) * wrapLineHeight
	if h < minRowHeight {
		return minRowHeight
	}
	return h
}

// needsPageBreak reports whether the cursor has passed the near-bottom
// threshold after a row was drawn.
func needsPageBreak(y float64) bool {
	return y > pageBreakY
}

// Generator renders invoices with the label packs it was configured with.
type Generator struct {
	labels map[entity.Language]Labels
}

// NewGenerator builds the renderer. The label map is loaded once and treated
// as immutable configuration.
func NewGenerator(labels map[entity.Language]Labels) *Generator {
	return &Generator{labels: labels}
}

// Filename returns the download name for the document.
func (g *Generator) Filename(inv *entity.Invoice) string {
	return "Faktura-" + inv.InvoiceNumber + ".pdf"
}

// Generate renders the invoice and returns the PDF bytes. A library-level
// failure is surfaced as an error and produces no output bytes. Identical
// input produces byte-identical output: the document's creation date is
// pinned to the invoice issue date rather than wall-clock time.
func (g *Generator) Generate(inv *entity.Invoice) ([]byte, error) {
	if inv == nil || inv.Sender == nil || inv.Receiver == nil {
		return nil, fmt.Errorf("pdf: invoice, sender and receiver are required")
	}
	doc, err := g.render(inv)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return buf.Bytes(), nil
}

// layout is the explicit rendering context threaded through every step: the
// active document, the vertical cursor and the unicode-to-codepage
// translator for the core fonts (æ, ø, å).
type layout struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (l *layout) text(x float64, s string) {
	l.pdf.Text(x, l.y, l.tr(s))
}

func (l *layout) textRight(x float64, s string) {
	t := l.tr(s)
	l.pdf.Text(x-l.pdf.GetStringWidth(t), l.y, t)
}

func (l *layout) textCenter(x float64, s string) {
	t := l.tr(s)
	l.pdf.Text(x-l.pdf.GetStringWidth(t)/2, l.y, t)
}

func (l *layout) font(style string, size float64) {
	l.pdf.SetFont("Helvetica", style, size)
}

// newPage starts a fresh page and resets the cursor to the top margin.
func (l *layout) newPage() {
	l.pdf.AddPage()
	l.y = topMargin
}

func (g *Generator) render(inv *entity.Invoice) (*gofpdf.Fpdf, error) {
	t, ok := g.labels[inv.Language]
	if !ok {
		t = g.labels[entity.LanguageNorwegian]
	}
	currency := inv.Currency
	if currency == "" {
		currency = "NOK"
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(inv.IssueDate)
	l := &layout{pdf: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	l.newPage()

	// Title and header fields
	l.font("B", 24)
	l.textCenter(pageCenter, t.Invoice)
	l.y += 15

	l.font("", 10)
	l.text(pageLeft, t.InvoiceNumber+": "+inv.InvoiceNumber)
	l.y += 6
	l.text(pageLeft, t.InvoiceDate+": "+inv.IssueDate.Format(dateLayout))
	l.y += 6
	l.text(pageLeft, t.DueDate+": "+inv.DueDate.Format(dateLayout))
	l.y += 10

	// From/To blocks, left and right, starting at the same height.
	// The cursor then advances to the lower of the two finishing positions so
	// the next section can never overlap either column.
	startY := l.y
	fromEnd := g.partyBlock(l, pageLeft, startY, t.From, inv.Sender, t)
	toEnd := g.partyBlock(l, 110, startY, t.To, inv.Receiver, t)
	l.y = fromEnd
	if toEnd > l.y {
		l.y = toEnd
	}
	l.y += 5

	// Optional payment terms and reference
	l.font("", 10)
	if inv.PaymentTerms != "" {
		l.text(pageLeft, t.PaymentTerms+": "+inv.PaymentTerms)
		l.y += 6
	}
	if inv.Reference != "" {
		l.text(pageLeft, t.Reference+": "+inv.Reference)
		l.y += 6
	}
	l.y += 5

	// Line table
	g.tableHeader(l, t)
	for i := range inv.Lines {
		g.tableRow(l, i, &inv.Lines[i])
		// Break check runs after the row is drawn: the row that crossed the
		// threshold stays whole on this page, the next row starts a new one.
		if needsPageBreak(l.y) {
			l.newPage()
		}
	}
	l.y += 5

	// Totals, right aligned
	doc.SetFillColor(255, 255, 255)
	doc.Rect(120, l.y-4, 70, 28, "F") // clear any row shading behind the block

	l.font("B", 10)
	l.textRight(totalsLabelX, t.Subtotal)
	l.font("", 10)
	l.textRight(colAmountX, amount(inv.Subtotal, currency))
	l.y += 6

	l.font("B", 10)
	l.textRight(totalsLabelX, t.Vat)
	l.font("", 10)
	l.textRight(colAmountX, amount(inv.TotalVat, currency))
	l.y += 8

	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(0.8)
	doc.Line(120, l.y+2, pageRight, l.y+2)
	l.y += 8

	l.font("B", 12)
	l.textRight(totalsLabelX, t.Total)
	l.textRight(colAmountX, amount(inv.Total, currency))
	l.y += 10

	// Bank details, organization senders only
	if inv.Sender.HasBankDetails() {
		l.y += 5
		g.bankDetail(l, t.BankAccount, inv.Sender.BankAccount)
		g.bankDetail(l, t.IBAN, inv.Sender.IBAN)
		g.bankDetail(l, t.SWIFT, inv.Sender.SWIFT)
	}

	// Notes, wrapped to the content width
	if inv.Notes != "" {
		l.y += 5
		l.font("B", 10)
		l.text(pageLeft, t.Notes)
		l.y += 5
		l.font("", 10)
		for _, line := range doc.SplitText(l.tr(inv.Notes), contentWidth) {
			doc.Text(pageLeft, l.y, line)
			l.y += wrapLineHeight
		}
	}

	if doc.Err() {
		return nil, fmt.Errorf("pdf: render: %w", doc.Error())
	}
	return doc, nil
}

// partyBlock renders one address column at x starting at startY and returns
// the finishing cursor position. Block height varies with the optional lines
// present (registration number, email, phone).
func (g *Generator) partyBlock(l *layout, x, startY float64, title string, p *entity.Party, t Labels) float64 {
	y := startY
	write := func(s string) {
		l.pdf.Text(x, y, l.tr(s))
	}

	l.font("B", 10)
	write(title)
	y += 6
	l.font("", 10)
	write(p.Name)
	y += 5
	if p.IsOrganization() {
		write(t.OrgNr + ": " + p.OrgNumber)
		y += 5
	}
	write(p.Address.Street)
	y += 5
	write(p.Address.PostalCode + " " + p.Address.City)
	y += 5
	write(p.Address.Country)
	y += 5
	if p.Email != "" {
		write(p.Email)
		y += 5
	}
	if p.Phone != "" {
		write(p.Phone)
		y += 5
	}
	return y
}

// tableHeader draws the shaded five-column header row.
func (g *Generator) tableHeader(l *layout, t Labels) {
	l.pdf.SetFillColor(64, 64, 64)
	l.pdf.Rect(pageLeft, l.y, contentWidth, headerRowH, "F")
	l.pdf.SetTextColor(255, 255, 255)
	l.font("B", 10)

	base := l.y
	l.y = base + 5
	l.text(descColX, t.Description)
	l.textRight(colQuantityX, t.Quantity)
	l.textRight(colUnitPriceX, t.UnitPrice)
	l.textRight(colVatRateX, t.VatRate)
	l.textRight(colAmountX, t.Amount)
	l.y = base + headerRowH

	l.pdf.SetTextColor(0, 0, 0)
	l.font("", 10)
}

// tableRow draws one line with alternating background shading. The row
// height is the greater of the fixed minimum and the height of the wrapped
// description, so nothing is ever cut off.
func (g *Generator) tableRow(l *layout, index int, line *entity.InvoiceLine) {
	bg := 255
	if index%2 == 0 {
		bg = 249
	}
	l.pdf.SetFillColor(bg, bg, bg)

	wrapped := l.pdf.SplitText(l.tr(line.Description), descColWidth)
	h := rowHeight(len(wrapped))
	l.pdf.Rect(pageLeft, l.y, contentWidth, h, "F")

	textY := l.y + 5
	for _, part := range wrapped {
		l.pdf.Text(descColX, textY, part)
		textY += wrapLineHeight
	}

	base := l.y
	l.y = base + 5
	l.textRight(colQuantityX, line.Quantity.String())
	l.textRight(colUnitPriceX, line.UnitPrice.StringFixed(2))
	l.textRight(colVatRateX, line.VatRate.String()+"%")
	l.textRight(colAmountX, line.Amount.StringFixed(2))
	l.y = base + h
}

// bankDetail writes one "label: value" pair, skipping empty values.
func (g *Generator) bankDetail(l *layout, label, value string) {
	if value == "" {
		return
	}
	l.font("B", 10)
	l.text(pageLeft, label+": ")
	l.font("", 10)
	l.text(60, value)
	l.y += 5
}

func amount(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}
