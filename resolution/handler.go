package resolution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"resodo-gateway/resolution/application"
	"resodo-gateway/resolution/domain"

	"github.com/rotisserie/eris"
)

// Pipeline é o que o handler precisa do application.Service.
type Pipeline interface {
	Run(ctx context.Context, req domain.ValidatedRequest) (domain.Outcome, error)
}

// Handler atende GET /contact-info.
type Handler struct {
	Pipeline Pipeline
	Logger   *slog.Logger
}

func NewHandler(p Pipeline, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Pipeline: p, Logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := application.LoggerFrom(r.Context(), h.Logger)

	req, err := application.ValidateRequest(rawRequest(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	log.Info("contact-info request accepted", "respondent", req.Respondent, "website", req.Website)

	out, err := h.Pipeline.Run(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if out.Document != nil {
		h.serveDocument(w, r, out)
		return
	}
	writeJSON(w, http.StatusOK, out.Response)
}

// rawRequest aceita filer_info, filerInfo e filerInfo[] (repetíveis).
func rawRequest(r *http.Request) domain.RawRequest {
	q := r.URL.Query()
	var info []string
	for _, k := range []string{"filer_info", "filerInfo", "filerInfo[]"} {
		info = append(info, q[k]...)
	}
	return domain.RawRequest{
		Respondent: q.Get("respondent"),
		Website:    q.Get("website"),
		Filer:      q.Get("filer"),
		FilerInfo:  info,
		Resolution: q.Get("resolution"),
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	log := application.LoggerFrom(r.Context(), h.Logger)

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve) && ve.Internal:
		log.Error("generated content rejected", "field", ve.Field, "detail", ve.Message)
		writeDetail(w, http.StatusInternalServerError, ve.Message)
	case errors.As(err, &ve):
		log.Info("validation failed", "field", ve.Field, "detail", ve.Message)
		writeDetail(w, http.StatusUnprocessableEntity, ve.Message)
	case errors.Is(err, context.Canceled):
		// cliente foi embora; não há para quem responder
		log.Info("request canceled", "err", err)
	default:
		log.Error("contact-info failed", "err", eris.ToString(err, true))
		writeDetail(w, http.StatusInternalServerError, msgUnexpected)
	}
}

// serveDocument envia o PDF e apaga o arquivo temporário em seguida.
func (h *Handler) serveDocument(w http.ResponseWriter, r *http.Request, out domain.Outcome) {
	log := application.LoggerFrom(r.Context(), h.Logger)
	path := out.Document.Path
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("temp pdf not removed", "path", path, "err", err)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		// o PDF sumiu entre compose e envio: cai no JSON com pdf_error
		resp := out.Response
		resp.PDFError = (&domain.RenderError{Err: err}).Error()
		writeJSON(w, http.StatusOK, resp)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", contentDisposition("Resolution for "+out.Response.Respondent+".pdf"))
	if st, err := f.Stat(); err == nil {
		w.Header().Set("Content-Length", fmt.Sprint(st.Size()))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		log.Warn("pdf stream interrupted", "err", err)
	}
}

// contentDisposition escapa aspas e manda também filename* para nomes não-ASCII.
func contentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		switch {
		case r == '"' || r == '\\':
			return '_'
		case r < 0x20 || r > 0x7e:
			return '_'
		}
		return r
	}, filename)
	if ascii == filename {
		return fmt.Sprintf(`attachment; filename="%s"`, filename)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, pathEscape(filename))
}

func pathEscape(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || strings.IndexByte("-._~", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
