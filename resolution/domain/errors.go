package domain

import (
	"errors"
	"fmt"
)

// ValidationError: entrada ruim ou insegura. A mensagem é sempre visível ao
// usuário; Internal marca o que foi gerado pelo próprio serviço (o rascunho
// da carta) e vira 500 em vez de 422.
type ValidationError struct {
	Field    string
	Message  string
	Internal bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// RenderError embrulha qualquer falha do compositor de documento.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("Error generating PDF: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

var (
	// ErrExtraction: crawl ou janela de contato sem resultado. Não é fatal.
	ErrExtraction = errors.New("no contact information could be extracted")
	// ErrParse: saída do modelo inutilizável. Nunca chega ao cliente.
	ErrParse = errors.New("model output could not be parsed into contacts")
	// ErrDraft: a chamada ao modelo para redigir a carta falhou; vira pdf_error.
	ErrDraft = errors.New("Legal document generation failed")
)

// NewInternalValidationError é o ValidationError de algo produzido pelo serviço.
func NewInternalValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg, Internal: true}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsRender(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
