package application

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultContextChars é quanto texto (em caracteres) vai de cada lado do contato.
const DefaultContextChars = 1000

// EmailPattern e PhonePattern são os padrões de contato usados para ancorar
// a janela; cmd/mock-llm usa os mesmos para responder o prompt de contatos.
var (
	EmailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// +55 / (555) / 555-1234, com separadores -, . ou espaço opcionais
	PhonePattern = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b|\b\d{3}[-.\s]?\d{4}\b`)
)

// ContactAnchor é a primeira ocorrência de contato no texto (offsets em bytes).
type ContactAnchor struct {
	Kind  string // "email" ou "phone"
	Start int
	End   int
}

// FindContactAnchor procura o primeiro e-mail e o primeiro telefone e fica
// com o que começa antes.
func FindContactAnchor(text string) (ContactAnchor, bool) {
	email := EmailPattern.FindStringIndex(text)
	phone := PhonePattern.FindStringIndex(text)

	switch {
	case email == nil && phone == nil:
		return ContactAnchor{}, false
	case phone == nil:
		return ContactAnchor{Kind: "email", Start: email[0], End: email[1]}, true
	case email == nil:
		return ContactAnchor{Kind: "phone", Start: phone[0], End: phone[1]}, true
	case email[0] < phone[0]:
		return ContactAnchor{Kind: "email", Start: email[0], End: email[1]}, true
	default:
		return ContactAnchor{Kind: "phone", Start: phone[0], End: phone[1]}, true
	}
}

// ExtractContactWindow devolve o trecho de até contextChars caracteres antes
// e depois do primeiro contato, sem espaços nas pontas. Assim o que vai para
// o modelo fica em ~2*contextChars, seja qual for o tamanho da página.
func ExtractContactWindow(pageText string, contextChars int) (string, bool) {
	anchor, ok := FindContactAnchor(pageText)
	if !ok {
		return "", false
	}
	return windowAround(pageText, anchor, contextChars), true
}

func windowAround(text string, a ContactAnchor, contextChars int) string {
	if contextChars < 0 {
		contextChars = 0
	}
	start := backRunes(text, a.Start, contextChars)
	end := forwardRunes(text, a.End, contextChars)
	return strings.TrimSpace(text[start:end])
}

// backRunes recua n caracteres a partir do byte i, sem quebrar UTF-8.
func backRunes(s string, i, n int) int {
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return i
}

func forwardRunes(s string, i, n int) int {
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}
