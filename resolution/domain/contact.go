package domain

import (
	"bytes"
	"encoding/json"
)

// ContactKind é o tipo declarado pelo modelo ("phone", "email").
// O parser não valida o valor: qualquer string vinda do modelo passa.
type ContactKind string

const (
	KindPhone ContactKind = "phone"
	KindEmail ContactKind = "email"
	KindInfo  ContactKind = "info"
)

// ContactEntry é produzida apenas pelo parser de contatos.
// Duplicatas vindas do modelo são mantidas.
type ContactEntry struct {
	Kind  ContactKind `json:"type"`
	Value string      `json:"value"`
}

// UnmarshalJSON aceita qualquer escalar em "type" e "value": números e
// booleanos viram o texto JSON deles, null vira "". Um item fora do formato
// não derruba a lista inteira.
func (c *ContactEntry) UnmarshalJSON(b []byte) error {
	var raw struct {
		Kind  json.RawMessage `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.Kind = ContactKind(scalarText(raw.Kind))
	c.Value = scalarText(raw.Value)
	return nil
}

func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
