package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer lays out a Document on paginated PDF pages.
type PDFRenderer struct {
	styles Styles
}

// NewPDFRenderer returns a renderer that draws with styles.
func NewPDFRenderer(styles Styles) *PDFRenderer {
	return &PDFRenderer{styles: styles}
}

// Render writes doc to w as a complete PDF file. Nothing is written when
// layout fails.
func (r *PDFRenderer) Render(w io.Writer, doc Document) error {
	data, err := r.RenderBytes(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// RenderBytes returns doc as an in-memory PDF file.
func (r *PDFRenderer) RenderBytes(doc Document) ([]byte, error) {
	p := r.newPage(doc.Title)
	p.pdf.AddPage()

	for _, e := range doc.Elements {
		p.draw(e)
		if err := p.pdf.Error(); err != nil {
			return nil, fmt.Errorf("laying out %T: %w", e, err)
		}
	}

	var buf bytes.Buffer
	if err := p.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// page is the state of one render call.
type page struct {
	pdf *fpdf.Fpdf
	st  Styles
	// tr converts UTF-8 to the code page of the core fonts.
	tr func(string) string
}

func (r *PDFRenderer) newPage(title string) *page {
	st := r.styles
	pdf := fpdf.New("P", "pt", st.PageSize, "")
	pdf.SetMargins(st.MarginLeft, st.MarginTop, st.MarginRight)
	pdf.SetAutoPageBreak(true, st.MarginBottom)
	pdf.SetTitle(title, true)
	pdf.SetCreator("riskmirror", true)

	p := &page{pdf: pdf, st: st, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetHeaderFunc(p.header)
	pdf.SetFooterFunc(p.footer)
	return p
}

// header draws the banner rule and the fixed title on every page.
func (p *page) header() {
	st := p.st
	pageW, _ := p.pdf.GetPageSize()
	ruleBottom := st.bannerRuleBottom()

	setFill(p.pdf, st.BannerColor)
	p.pdf.Rect(st.MarginLeft, ruleBottom-bannerRuleHeight, pageW-st.MarginLeft-st.MarginRight, bannerRuleHeight, "F")

	p.setFont(st.Header, false, false)
	p.pdf.Text(st.MarginLeft, ruleBottom-bannerTextRaise, p.tr(st.HeaderText))
}

const (
	bannerRuleHeight = 2
	bannerTextRaise  = 3
)

// bannerRuleBottom is the distance from the top of the page to the lower edge
// of the banner rule. Measured from the page bottom the edge is at frame
// height + MarginTop - BannerOffset, which is MarginBottom+BannerOffset from
// the top.
func (s Styles) bannerRuleBottom() float64 {
	return s.MarginBottom + s.BannerOffset
}

// footer draws the right-aligned page number.
func (p *page) footer() {
	st := p.st
	pageW, pageH := p.pdf.GetPageSize()
	label := "Page " + strconv.Itoa(p.pdf.PageNo())

	p.setFont(st.Footer, false, false)
	x := pageW - st.MarginRight - p.pdf.GetStringWidth(label)
	p.pdf.Text(x, pageH-st.FooterBaseline, label)
}

func (p *page) draw(e Element) {
	switch e := e.(type) {
	case Title:
		p.title(e)
	case Spacer:
		p.pdf.Ln(e.Height)
	case SummaryTable:
		p.summaryTable(e)
	case Heading:
		p.heading(e)
	case Paragraph:
		p.paragraph(e.Text)
	case BulletList:
		p.bulletList(e)
	}
}

func (p *page) title(t Title) {
	s := p.st.Title
	p.setFont(s, false, false)
	p.pdf.MultiCell(0, s.Leading, p.tr(t.Text), "", "C", false)
	p.pdf.Ln(s.SpaceAfter)
}

func (p *page) heading(h Heading) {
	s := p.st.Heading
	p.pdf.Ln(s.SpaceBefore)
	// Keep the heading on the same page as at least two body lines.
	p.ensureSpace(s.Leading + 2*p.st.Body.Leading)
	p.setFont(s, false, false)
	p.pdf.MultiCell(0, s.Leading, p.tr(h.Text), "", "L", false)
	p.pdf.Ln(s.SpaceAfter)
}

func (p *page) paragraph(markup string) {
	s := p.st.Body
	p.writeSpans(markup)
	p.pdf.Ln(s.Leading)
	p.pdf.Ln(s.SpaceAfter)
}

func (p *page) bulletList(l BulletList) {
	st := p.st
	left := st.MarginLeft
	p.pdf.SetLeftMargin(left + st.BulletIndent)
	defer func() {
		p.pdf.SetLeftMargin(left)
		p.pdf.SetX(left)
	}()

	for _, item := range l.Items {
		p.ensureSpace(st.Body.Leading)
		p.setFont(st.Body, false, false)
		p.pdf.SetX(left)
		p.pdf.CellFormat(st.BulletIndent, st.Body.Leading, p.tr(st.BulletGlyph), "", 0, "C", false, 0, "")
		p.writeSpans(item)
		p.pdf.Ln(st.Body.Leading)
		p.pdf.Ln(st.Body.SpaceAfter)
	}
}

func (p *page) summaryTable(t SummaryTable) {
	st := p.st
	pdf := p.pdf
	pageW, _ := pdf.GetPageSize()

	colW := st.TableColumnWidth
	tableW := 2 * colW
	x := st.MarginLeft + (pageW-st.MarginLeft-st.MarginRight-tableW)/2
	pad := st.TablePadding
	lineH := st.Body.Leading

	p.setFont(st.Body, false, false)
	scoreLines := pdf.SplitLines([]byte(p.tr(t.Score)), colW-2*pad)
	categoryLines := pdf.SplitLines([]byte(p.tr(t.Category)), colW-2*pad)
	rows := max(len(scoreLines), len(categoryLines), 1)

	headerH := lineH + 2*pad
	bodyH := float64(rows)*lineH + 2*pad
	p.ensureSpace(headerH + bodyH)
	y := pdf.GetY()

	setFill(pdf, st.TableHeaderFill)
	pdf.Rect(x, y, tableW, headerH, "F")
	setFill(pdf, st.TableBodyFill)
	pdf.Rect(x, y+headerH, tableW, bodyH, "F")

	p.setFont(st.Body, true, false)
	setText(pdf, st.TableHeaderText)
	pdf.SetXY(x, y+pad)
	pdf.CellFormat(colW, lineH, "Risk Score", "", 0, "C", false, 0, "")
	pdf.CellFormat(colW, lineH, "Risk Category", "", 0, "C", false, 0, "")

	p.setFont(st.Body, false, false)
	for i, cell := range [][][]byte{scoreLines, categoryLines} {
		for j, line := range cell {
			pdf.SetXY(x+float64(i)*colW, y+headerH+pad+float64(j)*lineH)
			pdf.CellFormat(colW, lineH, string(line), "", 0, "C", false, 0, "")
		}
	}

	setDraw(pdf, st.TableGridColor)
	pdf.SetLineWidth(st.TableGridWidth)
	pdf.Line(x+colW, y, x+colW, y+headerH+bodyH)
	pdf.Line(x, y+headerH, x+tableW, y+headerH)

	setDraw(pdf, st.TableBoxColor)
	pdf.SetLineWidth(st.TableBoxWidth)
	pdf.Rect(x, y, tableW, headerH+bodyH, "D")

	pdf.SetXY(st.MarginLeft, y+headerH+bodyH)
}

// writeSpans flows inline markup at the cursor, switching font style per span
// and wrapping at the current left margin.
func (p *page) writeSpans(markup string) {
	s := p.st.Body
	for _, span := range ParseSpans(markup) {
		p.setFont(s, span.Bold, span.Italic)
		p.pdf.Write(s.Leading, p.tr(span.Text))
	}
}

// ensureSpace starts a new page when fewer than h points remain above the
// bottom margin.
func (p *page) ensureSpace(h float64) {
	_, pageH := p.pdf.GetPageSize()
	if p.pdf.GetY()+h > pageH-p.st.MarginBottom {
		p.pdf.AddPage()
	}
}

func (p *page) setFont(s TextStyle, bold, italic bool) {
	p.pdf.SetFont(s.Font, fontStyle(s.Bold || bold, italic), s.Size)
	setText(p.pdf, s.Color)
}

func fontStyle(bold, italic bool) string {
	switch {
	case bold && italic:
		return "BI"
	case bold:
		return "B"
	case italic:
		return "I"
	}
	return ""
}

func setText(pdf *fpdf.Fpdf, c Color) { pdf.SetTextColor(c.R, c.G, c.B) }
func setFill(pdf *fpdf.Fpdf, c Color) { pdf.SetFillColor(c.R, c.G, c.B) }
func setDraw(pdf *fpdf.Fpdf, c Color) { pdf.SetDrawColor(c.R, c.G, c.B) }
