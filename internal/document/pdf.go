// Package document renders pedigree trees into printable files.
package document

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/lineage"
)

// Letterhead is the breeder data printed at the top of the card.
type Letterhead struct {
	Name           string
	RegistryNumber string
	City           string
}

// LetterheadFrom copies the printable fields of a profile.
func LetterheadFrom(b models.Breeder) Letterhead {
	return Letterhead{Name: b.Name, RegistryNumber: b.RegistryNumber, City: b.City}
}

// PDFOptions tunes the rendered card.
type PDFOptions struct {
	// Background is a #RRGGBB colour; empty means white.
	Background string
	// Brand is printed in the badge of the letterhead.
	Brand string
	// GeneratedAt is stamped as the document creation date.
	GeneratedAt time.Time
}

// A4 portrait geometry, in millimetres.
const (
	pageW     = 210.0
	margin    = 10.0
	cardW     = pageW - 2*margin
	cardH     = 100.0
	cardY     = 10.0
	colGap    = 4.0
	headerH   = 22.0
	subjectH  = 35.0
	parentH   = 12.0
	treeBoxH  = 9.0
	treeGap   = 2.0
	gen2W     = 38.0
	gen3W     = 42.0
	nameLimit = 18
)

var (
	leftW  = cardW*0.45 - colGap/2
	rightW = cardW*0.55 - colGap/2
	rightX = margin + leftW + colGap
)

// RenderPedigreePDF writes the one-page pedigree card of tree to w.
func RenderPedigreePDF(w io.Writer, tree lineage.Tree, head Letterhead, opts PDFOptions) error {
	bg := rgb{255, 255, 255}
	if opts.Background != "" {
		var err error
		if bg, err = parseHexColor(opts.Background); err != nil {
			return err
		}
	}
	if opts.Brand == "" {
		opts.Brand = "BIRDO"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("Pedigree %s", tree.Subject.Name), true)
	pdf.SetCreator(opts.Brand, true)
	if !opts.GeneratedAt.IsZero() {
		pdf.SetCreationDate(opts.GeneratedAt)
	}
	pdf.AddPage()

	c := &card{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), tree: tree}
	c.background(bg)
	c.letterhead(head, opts.Brand)
	c.subject()
	c.parents()
	c.ancestry()

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("layout pedigree: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pedigree pdf: %w", err)
	}
	return nil
}

type card struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	tree lineage.Tree
}

func (c *card) background(bg rgb) {
	c.pdf.SetFillColor(bg.r, bg.g, bg.b)
	c.pdf.Rect(margin, cardY, cardW, cardH, "F")
	c.pdf.SetDrawColor(0, 0, 0)
	c.pdf.SetLineWidth(0.8)
	c.pdf.Rect(margin, cardY, cardW, cardH, "D")

	// watermark disc behind the tree
	c.pdf.SetAlpha(0.15, "Normal")
	c.pdf.SetFillColor(0, 0, 0)
	c.pdf.Circle(rightX+rightW/2, cardY+cardH/2, 30, "F")
	c.pdf.SetAlpha(1, "Normal")
}

func (c *card) box(x, y, w, h, radius float64) {
	c.pdf.SetFillColor(255, 255, 255)
	c.pdf.SetDrawColor(60, 60, 60)
	c.pdf.SetLineWidth(0.2)
	c.pdf.RoundedRect(x, y, w, h, radius, "1234", "FD")
}

func (c *card) text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

func (c *card) textCentered(cx, y float64, s string) {
	s = c.tr(s)
	c.pdf.Text(cx-c.pdf.GetStringWidth(s)/2, y, s)
}

func (c *card) textRight(rx, y float64, s string) {
	s = c.tr(s)
	c.pdf.Text(rx-c.pdf.GetStringWidth(s), y, s)
}

func (c *card) letterhead(head Letterhead, brand string) {
	x, y := margin+2, cardY+2
	c.box(x, y, leftW, headerH, 2)

	c.pdf.SetFillColor(30, 30, 30)
	c.pdf.Circle(x+11, y+11, 8, "F")
	c.pdf.SetTextColor(255, 255, 255)
	c.pdf.SetFont("Helvetica", "B", 5)
	c.textCentered(x+11, y+12, strings.ToUpper(brand))

	name := strings.ToUpper(strings.TrimSpace(head.Name))
	if name == "" {
		name = "BREEDER"
	}
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.SetFont("Helvetica", "B", 7)
	c.text(x+24, y+6, "BREEDER")
	c.pdf.SetFontSize(10)
	c.text(x+24, y+11, truncate(name, 30))
	c.pdf.SetFont("Helvetica", "", 6)
	c.text(x+24, y+16, fmt.Sprintf("Registry: %s | %s", orDash(head.RegistryNumber), orDash(head.City)))
}

func (c *card) subject() {
	x, y := margin+2, cardY+2+headerH+2
	b := c.tree.Subject
	c.box(x, y, leftW, subjectH, 2)

	c.pdf.SetFont("Helvetica", "B", 12)
	c.pdf.SetTextColor(0, 120, 60)
	c.textCentered(x+leftW/2, y+7, truncate(strings.ToUpper(b.Name), 28))

	c.pdf.SetDrawColor(200, 200, 200)
	c.pdf.SetLineWidth(0.1)
	c.pdf.Line(x+5, y+9, x+leftW-5, y+9)

	rows := []struct{ label, value string }{
		{"RING", orDash(b.RingNumber)},
		{"HATCHED", formatBirthDate(b.BirthDate)},
		{"SEX", orDash(string(b.Gender))},
		{"SPECIES", orDash(truncate(b.Species, 20))},
	}
	rowY := y + 15
	for _, r := range rows {
		c.pdf.SetFont("Helvetica", "B", 6)
		c.pdf.SetTextColor(100, 100, 100)
		c.text(x+5, rowY, r.label)
		c.pdf.SetFontSize(8)
		c.pdf.SetTextColor(0, 0, 0)
		c.textRight(x+leftW-5, rowY, r.value)
		rowY += 5
	}
}

func (c *card) parents() {
	x := margin + 2
	y := cardY + 2 + headerH + 2 + subjectH + 3
	for i, slot := range []lineage.Slot{c.tree.Father(), c.tree.Mother()} {
		top := y + float64(i)*(parentH+2)
		c.box(x, top, leftW, parentH, 1)

		c.pdf.SetFillColor(240, 240, 240)
		c.pdf.Rect(x+0.2, top+0.2, 14, parentH-0.4, "F")
		c.pdf.SetFont("Helvetica", "B", 6)
		c.pdf.SetTextColor(80, 80, 80)
		c.textCentered(x+7, top+7, string(slot.Role))

		c.pdf.SetFontSize(9)
		c.pdf.SetTextColor(0, 0, 0)
		c.text(x+18, top+5, truncate(slot.DisplayName(), 28))
		c.pdf.SetFont("Helvetica", "", 6)
		c.pdf.SetTextColor(100, 100, 100)
		c.text(x+18, top+9, "Ring: "+slot.DisplayRing())
	}

	c.pdf.SetFontSize(6)
	c.pdf.SetTextColor(80, 80, 80)
	c.textCentered(x+leftW/2, y+2*parentH+8, "Document generated digitally by Birdo.")
}

func (c *card) ancestry() {
	top := cardY + 2
	c.pdf.SetFont("Helvetica", "B", 8)
	c.pdf.SetTextColor(0, 0, 0)
	c.textCentered(rightX+rightW/2, top+3, "PEDIGREE")

	gen2X := rightX + 2
	gen3X := rightX + gen2W + 8
	y := top + 8

	c.sectionLabel(gen2X, y-1.5, "PATERNAL")
	c.sectionLabel(gen3X, y-1.5, "GREAT-GRANDPARENTS")
	y = c.family(4, gen2X, gen3X, y)
	y = c.family(5, gen2X, gen3X, y)

	y += 2
	c.sectionLabel(gen2X, y-1.5, "MATERNAL")
	y = c.family(6, gen2X, gen3X, y)
	c.family(7, gen2X, gen3X, y)
}

func (c *card) sectionLabel(x, y float64, s string) {
	c.pdf.SetFont("Helvetica", "B", 6)
	c.pdf.SetTextColor(80, 80, 80)
	c.text(x, y, s)
}

// family draws grandparent pos next to its two parents and returns the next free y.
func (c *card) family(pos int, gen2X, gen3X, y float64) float64 {
	gpY := y + treeBoxH/2 + treeGap/2
	for _, parent := range []int{2 * pos, 2*pos + 1} {
		c.ancestorBox(c.tree.Slot(parent), gen3X, y, gen3W)
		c.connector(gen2X+gen2W, gpY+treeBoxH/2, gen3X, y+treeBoxH/2)
		y += treeBoxH + treeGap
	}
	c.ancestorBox(c.tree.Slot(pos), gen2X, gpY, gen2W)
	return y
}

func (c *card) ancestorBox(slot lineage.Slot, x, y, w float64) {
	c.box(x, y, w, treeBoxH, 0.5)
	c.pdf.SetFont("Helvetica", "B", 6.5)
	c.pdf.SetTextColor(0, 0, 0)
	c.text(x+2, y+3.5, truncate(slot.DisplayName(), nameLimit))
	c.pdf.SetFont("Helvetica", "", 5)
	c.pdf.SetTextColor(80, 80, 80)
	c.text(x+2, y+7, slot.DisplayRing())
}

func (c *card) connector(x1, y1, x2, y2 float64) {
	c.pdf.SetDrawColor(100, 100, 100)
	c.pdf.SetLineWidth(0.3)
	c.pdf.Line(x1, y1, x1+4, y1)
	c.pdf.Line(x1+4, y1, x1+4, y2)
	c.pdf.Line(x1+4, y2, x2, y2)
}

// Filename is the download name of the pedigree of b, e.g. Pedigree_Zeus_BR-2023-001.pdf.
func Filename(b models.Bird) string {
	parts := []string{"Pedigree"}
	for _, p := range []string{b.Name, b.RingNumber} {
		if s := sanitize(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "_") + ".pdf"
}

func sanitize(s string) string {
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'):
			sb.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore && sb.Len() > 0:
			sb.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatBirthDate(value string) string {
	t, err := models.ParseDate(value)
	if err != nil {
		return orDash(value)
	}
	return t.Format("02/01/2006")
}
