package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"resodo-gateway/resolution/domain"
)

// Estágios e desfechos reportados em Metrics.
const (
	StageCrawl    = "crawl"
	StageContacts = "contacts"
	StageDraft    = "draft"
	StageCompose  = "compose"

	OutcomeNoPage     = "no_page"
	OutcomeNoWindow   = "no_window"
	OutcomeNoContacts = "no_contacts"
	OutcomePDF        = "pdf"
	OutcomePDFError   = "pdf_error"
	OutcomeBadDraft   = "bad_draft"
)

// Metrics recebe a duração de cada estágio e o desfecho de cada execução.
type Metrics interface {
	ObserveStage(stage string, d time.Duration, err error)
	CountOutcome(outcome string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveStage(string, time.Duration, error) {}
func (nopMetrics) CountOutcome(string)                       {}

// Service orquestra crawl -> janela -> contatos -> carta -> PDF.
// Não faz retry: cada colaborador é chamado no máximo uma vez por estágio.
type Service struct {
	Crawler   domain.Crawler
	Completer domain.Completer
	Composer  domain.Composer

	ContextChars int
	Metrics      Metrics
	Logger       *slog.Logger
	Now          func() time.Time
}

// Run executa o pipeline para um request já validado. Falhas de crawl,
// modelo ou PDF viram resposta JSON degradada. O erro só é devolvido se o
// contexto foi cancelado ou se o rascunho da carta não passou na validação.
func (s *Service) Run(ctx context.Context, req domain.ValidatedRequest) (domain.Outcome, error) {
	log := LoggerFrom(ctx, s.Logger).With("respondent", req.Respondent, "website", req.Website)
	resp := domain.NewResponse(req, s.now())

	// 1. crawl
	text, err := s.crawl(ctx, req.Website)
	if cerr := ctx.Err(); cerr != nil {
		return domain.Outcome{}, cerr
	}
	if err != nil {
		log.Info("no contact page text", "err", err)
		return s.degrade(resp, OutcomeNoPage), nil
	}

	// 2. janela em volta do primeiro contato
	window, ok := ExtractContactWindow(text, s.contextChars())
	if !ok {
		log.Info("no contact anchor in page text", "chars", len(text), "err", domain.ErrExtraction)
		return s.degrade(resp, OutcomeNoWindow), nil
	}

	// 3. contatos via modelo
	result := s.extractContacts(ctx, window)
	if cerr := ctx.Err(); cerr != nil {
		return domain.Outcome{}, cerr
	}
	resp.Contacts = result.Entries()
	if !result.OK() {
		log.Warn("contact extraction yielded nothing", "failure", string(result.Failure), "err", result.Err)
	}
	if len(resp.Contacts) == 0 {
		s.metrics().CountOutcome(OutcomeNoContacts)
		return domain.Outcome{Response: resp}, nil
	}
	log.Info("contacts extracted", "count", len(resp.Contacts))

	// 4. carta + PDF
	doc, err := s.draftAndCompose(ctx, req, resp.Contacts)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return domain.Outcome{}, cerr
		}
		if domain.IsValidation(err) {
			log.Error("legal document rejected", "err", err)
			s.metrics().CountOutcome(OutcomeBadDraft)
			return domain.Outcome{}, err
		}
		log.Error("document generation failed", "err", err)
		resp.PDFError = err.Error()
		s.metrics().CountOutcome(OutcomePDFError)
		return domain.Outcome{Response: resp}, nil
	}

	log.Info("document composed", "path", doc.Path, "pages", doc.Pages, "bytes", doc.Size)
	s.metrics().CountOutcome(OutcomePDF)
	return domain.Outcome{Response: resp, Document: &doc}, nil
}

func (s *Service) crawl(ctx context.Context, website string) (string, error) {
	if s.Crawler == nil {
		return "", domain.ErrExtraction
	}
	start := time.Now()
	text, err := s.Crawler.FetchContactPageText(ctx, website)
	s.metrics().ObserveStage(StageCrawl, time.Since(start), err)
	if err == nil && strings.TrimSpace(text) == "" {
		err = domain.ErrExtraction
	}
	return text, err
}

func (s *Service) extractContacts(ctx context.Context, window string) ParseResult {
	if s.Completer == nil {
		return ParseResult{Failure: ParseEmptyInput, Err: domain.ErrParse}
	}
	start := time.Now()
	out, err := s.Completer.Complete(ctx, ContactPrompt(window))
	s.metrics().ObserveStage(StageContacts, time.Since(start), err)
	if err != nil {
		return ParseResult{Failure: ParseEmptyInput, Err: err}
	}
	return ParseContacts(out)
}

func (s *Service) draftAndCompose(ctx context.Context, req domain.ValidatedRequest, contacts []domain.ContactEntry) (domain.ComposedDocument, error) {
	if s.Completer == nil || s.Composer == nil {
		return domain.ComposedDocument{}, errors.New("document generation is not configured")
	}

	start := time.Now()
	draft, err := s.Completer.Complete(ctx, LegalDocumentPrompt(req.Respondent, req.Resolution))
	s.metrics().ObserveStage(StageDraft, time.Since(start), err)
	if err != nil {
		return domain.ComposedDocument{}, domain.ErrDraft
	}

	text, err := ValidateLegalDocument(draft)
	if err != nil {
		return domain.ComposedDocument{}, err
	}

	start = time.Now()
	doc, err := s.Composer.Compose(ctx, domain.DocumentInput{
		LegalText:          text,
		RespondentName:     req.Respondent,
		FilerName:          req.Filer,
		RespondentContacts: contacts,
		FilerContacts:      req.FilerInfo,
		Date:               s.now(),
	})
	s.metrics().ObserveStage(StageCompose, time.Since(start), err)
	if err != nil {
		var re *domain.RenderError
		if !errors.As(err, &re) {
			err = &domain.RenderError{Err: err}
		}
		return domain.ComposedDocument{}, err
	}
	return doc, nil
}

func (s *Service) degrade(resp domain.Response, outcome string) domain.Outcome {
	resp.Message = domain.MessageNoContacts
	s.metrics().CountOutcome(outcome)
	return domain.Outcome{Response: resp}
}

func (s *Service) contextChars() int {
	if s.ContextChars <= 0 {
		return DefaultContextChars
	}
	return s.ContextChars
}

func (s *Service) metrics() Metrics {
	if s.Metrics == nil {
		return nopMetrics{}
	}
	return s.Metrics
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
