package application

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"resodo-gateway/resolution/domain"
)

var (
	// primeiro "[ { ... } ]", não guloso, atravessando linhas; tolera texto
	// e cercas de markdown em volta do array, e vírgula sobrando antes do ]
	contactArrayPattern  = regexp.MustCompile(`(?s)\[\s*\{.*?\}\s*,?\s*\]`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

type ParseFailure string

const (
	ParseOK         ParseFailure = ""
	ParseEmptyInput ParseFailure = "empty_input"
	ParseNoArray    ParseFailure = "no_array"
	ParseDecode     ParseFailure = "decode"
)

// ParseResult é sucesso (Contacts) ou o motivo da falha.
type ParseResult struct {
	Contacts []domain.ContactEntry
	Failure  ParseFailure
	Err      error
}

func (r ParseResult) OK() bool { return r.Failure == ParseOK }

// Entries mapeia qualquer falha para lista vazia (nunca nil).
func (r ParseResult) Entries() []domain.ContactEntry {
	if !r.OK() || r.Contacts == nil {
		return []domain.ContactEntry{}
	}
	return r.Contacts
}

// ParseContacts extrai a lista de contatos do texto do modelo. Nunca falha:
// qualquer anomalia vira um ParseResult com Failure preenchido.
//
// As entradas não são validadas uma a uma; itens sem "value" passam com
// Value vazio e valores numéricos viram texto. Quem consome precisa tolerar isso.
func ParseContacts(modelOutput string) ParseResult {
	if strings.TrimSpace(modelOutput) == "" {
		return ParseResult{Failure: ParseEmptyInput, Err: domain.ErrParse}
	}

	raw := contactArrayPattern.FindString(modelOutput)
	if raw == "" {
		return ParseResult{Failure: ParseNoArray, Err: domain.ErrParse}
	}

	// primeiro o texto como veio; só sem vírgulas sobrando se falhar, para
	// não mexer em vírgulas dentro de strings
	var contacts []domain.ContactEntry
	if err := json.Unmarshal([]byte(raw), &contacts); err != nil {
		contacts = nil
		stripped := trailingCommaPattern.ReplaceAllString(raw, "$1")
		if err := json.Unmarshal([]byte(stripped), &contacts); err != nil {
			return ParseResult{Failure: ParseDecode, Err: fmt.Errorf("%w: %v", domain.ErrParse, err)}
		}
	}
	if contacts == nil {
		contacts = []domain.ContactEntry{}
	}
	return ParseResult{Contacts: contacts}
}
