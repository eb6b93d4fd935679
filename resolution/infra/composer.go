package infra

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"resodo-gateway/resolution/application"
	"resodo-gateway/resolution/domain"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"
)

const (
	letterTitle      = "FORMAL DEMAND FOR RESOLUTION"
	signatureHeading = "ACKNOWLEDGEMENT AND SIGNATURE"
	declaration      = "I, the filer, hereby declare under penalty of perjury that the foregoing is true and correct to the best of my knowledge, information, and belief."
	signatureLine    = "Signature:__________________________________________________Date:____________"
	letterFooter     = "Confidential Legal Document - Do not distribute without authorization"
	letterDateLayout = "January 02, 2006"
)

type metaLine struct {
	Label string
	Value string
}

// letter é o conteúdo já sanitizado e na ordem de impressão.
type letter struct {
	Title      string
	Meta       []metaLine
	Paragraphs []string
}

func buildLetter(in domain.DocumentInput, s *Sanitizer) letter {
	l := letter{
		Title: letterTitle,
		Meta: []metaLine{
			{"Date", in.Date.Format(letterDateLayout)},
			{"Parties Involved", s.Clean(in.FilerName) + " (Filer) vs. " + s.Clean(in.RespondentName) + " (Respondent)"},
			{"Filer Contact Information", s.Clean(application.FormatContacts(in.FilerContacts))},
			{"Respondent Contact Information", s.Clean(application.FormatContacts(in.RespondentContacts))},
		},
	}
	text := strings.ReplaceAll(in.LegalText, "\r\n", "\n")
	for _, p := range strings.Split(s.Clean(text), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			l.Paragraphs = append(l.Paragraphs, p)
		}
	}
	return l
}

// PDFComposer gera a carta em memória, confere com o pdfcpu e só então grava
// legal_doc_<uuid>.pdf em OutputDir. Quem recebe o caminho é dono do arquivo.
type PDFComposer struct {
	OutputDir string
	Sanitizer *Sanitizer
	Logger    *slog.Logger
}

func NewPDFComposer(outputDir string, s *Sanitizer) *PDFComposer {
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	if s == nil {
		s = DefaultSanitizer()
	}
	return &PDFComposer{OutputDir: outputDir, Sanitizer: s}
}

func (c *PDFComposer) Compose(ctx context.Context, in domain.DocumentInput) (domain.ComposedDocument, error) {
	if err := ctx.Err(); err != nil {
		return domain.ComposedDocument{}, &domain.RenderError{Err: err}
	}

	data, err := renderLetter(buildLetter(in, c.Sanitizer))
	if err != nil {
		return domain.ComposedDocument{}, &domain.RenderError{Err: eris.Wrap(err, "compose: render")}
	}
	pages, err := verifyPDF(data)
	if err != nil {
		return domain.ComposedDocument{}, &domain.RenderError{Err: eris.Wrap(err, "compose: verify")}
	}

	path, err := c.write(data)
	if err != nil {
		return domain.ComposedDocument{}, &domain.RenderError{Err: eris.Wrap(err, "compose: write")}
	}
	if c.Logger != nil {
		c.Logger.Debug("pdf written", "path", path, "pages", pages, "bytes", len(data))
	}
	return domain.ComposedDocument{Path: path, Pages: pages, Size: int64(len(data))}, nil
}

func (c *PDFComposer) write(data []byte) (string, error) {
	dir, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "legal_doc_"+uuid.NewString()+".pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func renderLetter(l letter) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(l.Title, true)
	pdf.SetCreator("resodo", true)
	// o tradutor cp1252 não é seguro para goroutines: um por documento
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 12, tr(l.Title), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	for _, m := range l.Meta {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Write(6, tr(m.Label+": "))
		pdf.SetFont("Helvetica", "", 11)
		pdf.Write(6, tr(m.Value))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, p := range l.Paragraphs {
		pdf.MultiCell(0, 5.5, tr(p), "", "J", false)
		pdf.Ln(3)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(52, 73, 94)
	pdf.CellFormat(0, 8, tr(signatureHeading), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(44, 62, 80)
	pdf.MultiCell(0, 5.5, tr(declaration), "", "J", false)
	pdf.Ln(8)
	pdf.CellFormat(0, 6, tr(signatureLine), "", 1, "L", false, 0, "")

	pdf.Ln(16)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 6, tr(letterFooter), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var disablePDFCPUConfig sync.Once

// verifyPDF relê o documento gerado e devolve o número de páginas.
func verifyPDF(data []byte) (int, error) {
	// sem isso o pdfcpu cria arquivos de configuração no diretório do usuário
	disablePDFCPUConfig.Do(func() { model.ConfigPath = "disable" })

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, err
	}
	if pages < 1 {
		return 0, eris.New("rendered document has no pages")
	}
	return pages, nil
}
