package document

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/metrics"
)

const ContentTypePDF = "application/pdf"

const (
	KindContract    = "contract"
	KindCard        = "card"
	KindRegulations = "regulations"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 20.0
	contentWidth = 170.0
	lineHeight   = 5.0
	bodyTop      = 30.0
)

const fontFamily = "Roboto"

type Document struct {
	Filename    string
	ContentType string
	Pages       int
	Content     []byte
}

// Generator renders the clinic's printable documents.
type Generator interface {
	Contract(ctx context.Context, p *model.Patient) (*Document, error)
	Card(ctx context.Context, p *model.Patient) (*Document, error)
	Regulations(ctx context.Context) (*Document, error)
}

type FontSource interface {
	Load(ctx context.Context) (*Fonts, error)
	// Invalidate is called when loaded fonts could not be registered.
	Invalidate()
}

type Service struct {
	fonts   FontSource
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(fonts FontSource, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		fonts:   fonts,
		logger:  log.With("documents"),
		metrics: m,
	}
}

func (s *Service) Contract(ctx context.Context, p *model.Patient) (*Document, error) {
	w := s.newWriter(ctx)
	renderContract(w, p)
	return s.finish(w, KindContract, fileName("Umowa", p))
}

func (s *Service) Card(ctx context.Context, p *model.Patient) (*Document, error) {
	w := s.newWriter(ctx)
	renderCard(w, p)
	return s.finish(w, KindCard, fileName("Karta_Pacjenta", p))
}

func (s *Service) Regulations(ctx context.Context) (*Document, error) {
	w := s.newWriter(ctx)
	renderRegulations(w)
	return s.finish(w, KindRegulations, "Regulamin_MyWay.pdf")
}

func fileName(prefix string, p *model.Patient) string {
	return fmt.Sprintf("%s_%s_%s.pdf", prefix, p.LastName, p.FirstName)
}

func (s *Service) finish(w *writer, kind, filename string) (*Document, error) {
	pages := w.pdf.PageCount()

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", kind, err)
	}
	s.metrics.DocumentsRendered.WithLabelValues(kind).Inc()

	return &Document{
		Filename:    filename,
		ContentType: ContentTypePDF,
		Pages:       pages,
		Content:     buf.Bytes(),
	}, nil
}

// newWriter prepares an empty document with the Roboto faces registered. Any
// problem with the fonts downgrades to the core Helvetica font.
func (s *Service) newWriter(ctx context.Context) *writer {
	fonts, err := s.fonts.Load(ctx)
	if err == nil {
		pdf := newPDF()
		if err = registerFonts(pdf, fonts); err == nil {
			return newWriter(pdf, fontFamily, nil)
		}
		s.fonts.Invalidate()
	}

	s.logger.Warn("falling back to core font", "error", err.Error())
	s.metrics.FontFallbacks.Inc()

	pdf := newPDF()
	return newWriter(pdf, "Helvetica", cp1252(pdf))
}

func newPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, bodyTop, pageWidth-marginLeft-contentWidth)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("MyWay panel", true)
	return pdf
}

func registerFonts(pdf *fpdf.Fpdf, fonts *Fonts) (err error) {
	// the TTF parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid font data: %v", r)
		}
	}()

	pdf.AddUTF8FontFromBytes(fontFamily, "", fonts.Regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fonts.Bold)
	if err := pdf.Error(); err != nil {
		return err
	}

	// a face fpdf could not parse is silently left undefined
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFont(fontFamily, "", 10)
	return pdf.Error()
}

var polishFold = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N", "Ś", "S", "Ź", "Z", "Ż", "Z",
)

// cp1252 folds the Polish letters missing from Windows-1252 and encodes the
// rest for the core fonts.
func cp1252(pdf *fpdf.Fpdf) func(string) string {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		return tr(polishFold.Replace(s))
	}
}

// writer keeps a text cursor over an fpdf document.
type writer struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
	y      float64
}

func newWriter(pdf *fpdf.Fpdf, family string, tr func(string) string) *writer {
	if tr == nil {
		tr = func(s string) string { return s }
	}
	w := &writer{pdf: pdf, family: family, tr: tr}
	pdf.SetHeaderFunc(w.header)
	pdf.SetFooterFunc(w.footer)
	return w
}

func (w *writer) header() {
	w.font(true, 18)
	w.pdf.SetTextColor(13, 148, 136)
	w.right(170, 15, "MyWay")
	w.font(true, 8)
	w.pdf.SetTextColor(100, 100, 100)
	w.right(170, 20, "OŚRODEK LECZENIA UZALEŻNIEŃ")
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *writer) footer() {
	w.font(false, 10)
	w.center(pageHeight-10, strconv.Itoa(w.pdf.PageNo()))
}

func (w *writer) newPage() {
	w.pdf.AddPage()
	w.y = bodyTop
}

func (w *writer) font(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	w.pdf.SetFont(w.family, style, size)
}

// line writes wrapped text at the cursor and advances it.
func (w *writer) line(text string, bold bool, align string, size float64) {
	w.font(bold, size)
	w.pdf.SetXY(marginLeft, w.y)
	w.pdf.MultiCell(contentWidth, lineHeight, w.tr(text), "", align, false)
	w.y = w.pdf.GetY()
}

func (w *writer) para(text string) { w.line(text, false, "L", 10) }

func (w *writer) bold(text string) { w.line(text, true, "L", 10) }

func (w *writer) title(text string) { w.line(text, true, "C", 14) }

func (w *writer) heading(text string) { w.line(text, true, "C", 10) }

func (w *writer) space(lines float64) { w.y += lines * lineHeight }

func (w *writer) text(x, y float64, s string) { w.pdf.Text(x, y, w.tr(s)) }

func (w *writer) right(x, y float64, s string) {
	s = w.tr(s)
	w.pdf.Text(x-w.pdf.GetStringWidth(s), y, s)
}

func (w *writer) center(y float64, s string) {
	s = w.tr(s)
	w.pdf.Text((pageWidth-w.pdf.GetStringWidth(s))/2, y, s)
}

// row draws one bordered two-column table row of the given height.
func (w *writer) row(label, value string, labelWidth, height float64) {
	x := marginLeft
	valueWidth := contentWidth - labelWidth
	w.pdf.SetLineWidth(0.1)
	w.pdf.Rect(x, w.y, labelWidth, height, "D")
	w.pdf.Rect(x+labelWidth, w.y, valueWidth, height, "D")

	w.font(true, 10)
	w.pdf.SetXY(x+1, w.y+1)
	w.pdf.MultiCell(labelWidth-2, lineHeight, w.tr(label), "", "L", false)

	w.font(false, 10)
	w.pdf.SetXY(x+labelWidth+1, w.y+1)
	w.pdf.MultiCell(valueWidth-2, lineHeight, w.tr(value), "", "L", false)

	w.y += height
}

func (w *writer) checkbox(x, y float64, lines ...string) {
	w.pdf.Rect(x, y-3, 3, 3, "D")
	for i, l := range lines {
		w.text(x+6, y+float64(i)*5, l)
	}
}
