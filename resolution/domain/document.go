package domain

import "time"

// DocumentInput é tudo que o compositor precisa. Os contatos aceitam nil,
// string, ContactEntry, *ContactEntry, []ContactEntry, []string ou []any.
type DocumentInput struct {
	LegalText          string
	RespondentName     string
	FilerName          string
	RespondentContacts any
	FilerContacts      any
	Date               time.Time
}

// ComposedDocument é o artefato renderizado. Path é absoluto e único por request.
type ComposedDocument struct {
	Path  string
	Pages int
	Size  int64
}
