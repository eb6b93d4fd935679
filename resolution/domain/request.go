package domain

import "time"

// RawRequest são os parâmetros de query como chegaram, sem tratamento.
type RawRequest struct {
	Respondent string
	Website    string
	Filer      string
	FilerInfo  []string
	Resolution string
}

// ValidatedRequest só é construído pelo validador, uma vez por chamada.
type ValidatedRequest struct {
	Respondent string
	Website    string
	Filer      string
	FilerInfo  []string
	Resolution string
}

// Response é o corpo JSON do caminho degradado (sem PDF).
type Response struct {
	Respondent string         `json:"respondent"`
	Filer      string         `json:"filer"`
	FilerInfo  []string       `json:"filer_info"`
	Reason     string         `json:"reason"`
	Website    string         `json:"website"`
	Contacts   []ContactEntry `json:"contacts"`
	Message    string         `json:"message,omitempty"`
	PDFError   string         `json:"pdf_error,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewResponse ecoa o request validado; Contacts nunca é nil (serializa como []).
func NewResponse(req ValidatedRequest, at time.Time) Response {
	return Response{
		Respondent: req.Respondent,
		Filer:      req.Filer,
		FilerInfo:  req.FilerInfo,
		Reason:     req.Resolution,
		Website:    req.Website,
		Contacts:   []ContactEntry{},
		Timestamp:  at,
	}
}

// Outcome é o resultado do pipeline: sempre um Response e, se o PDF foi
// gerado, o documento. A posse do arquivo passa para quem chamou.
type Outcome struct {
	Response Response
	Document *ComposedDocument
}

const MessageNoContacts = "No contact information found"
