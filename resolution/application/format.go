package application

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"resodo-gateway/resolution/domain"
)

// ContactLine é uma linha de contato pronta para o documento. Label vazio
// significa que o valor é impresso sozinho.
type ContactLine struct {
	Label string
	Value string
}

func (l ContactLine) String() string {
	if l.Label == "" {
		return l.Value
	}
	return l.Label + ": " + l.Value
}

// NormalizeContacts aceita as formas que chegam no compositor (nil, string,
// entrada única, lista de entradas, lista de strings, []any) e devolve
// sempre uma lista, possivelmente vazia.
func NormalizeContacts(v any) []ContactLine {
	switch c := v.(type) {
	case nil:
		return nil
	case string:
		if c == "" {
			return nil
		}
		return []ContactLine{entryLine(domain.ContactEntry{Kind: domain.KindInfo, Value: c})}
	case domain.ContactEntry:
		return []ContactLine{entryLine(c)}
	case *domain.ContactEntry:
		if c == nil {
			return nil
		}
		return []ContactLine{entryLine(*c)}
	case []domain.ContactEntry:
		out := make([]ContactLine, 0, len(c))
		for _, e := range c {
			out = append(out, entryLine(e))
		}
		return out
	case []string:
		out := make([]ContactLine, 0, len(c))
		for _, s := range c {
			out = append(out, ContactLine{Value: s})
		}
		return out
	case []any:
		out := make([]ContactLine, 0, len(c))
		for _, item := range c {
			out = append(out, itemLine(item))
		}
		return out
	case map[string]any:
		return []ContactLine{mapLine(c)}
	default:
		return []ContactLine{entryLine(domain.ContactEntry{Kind: domain.KindInfo, Value: fmt.Sprint(v)})}
	}
}

// FormatContacts junta as linhas com ", "; lista vazia vira "N/A".
func FormatContacts(v any) string {
	lines := NormalizeContacts(v)
	if len(lines) == 0 {
		return "N/A"
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}

func itemLine(item any) ContactLine {
	switch it := item.(type) {
	case domain.ContactEntry:
		return entryLine(it)
	case *domain.ContactEntry:
		if it == nil {
			return ContactLine{}
		}
		return entryLine(*it)
	case map[string]any:
		return mapLine(it)
	case string:
		return ContactLine{Value: it}
	default:
		return ContactLine{Value: fmt.Sprint(it)}
	}
}

// mapLine cobre contatos que vieram como JSON genérico ({"type","value"}).
func mapLine(m map[string]any) ContactLine {
	kind, _ := m["type"].(string)
	if _, ok := m["type"]; !ok {
		kind = string(domain.KindInfo)
	}
	value := ""
	if v, ok := m["value"]; ok && v != nil {
		value = fmt.Sprint(v)
	}
	return ContactLine{Label: capitalize(kind), Value: value}
}

func entryLine(e domain.ContactEntry) ContactLine {
	kind := string(e.Kind)
	if kind == "" {
		kind = string(domain.KindInfo)
	}
	return ContactLine{Label: capitalize(kind), Value: e.Value}
}

// capitalize: primeira letra maiúscula, resto minúsculo ("EMAIL" -> "Email").
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
