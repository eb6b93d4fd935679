package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resodo-gateway/resolution/domain"
)

func TestParseContacts_Embedded(t *testing.T) {
	r := ParseContacts(`here you go: [{"type":"email","value":"a@b.com"}] thanks`)
	require.True(t, r.OK())
	assert.Equal(t, []domain.ContactEntry{{Kind: domain.KindEmail, Value: "a@b.com"}}, r.Entries())
}

func TestParseContacts_Failures(t *testing.T) {
	tests := []struct {
		in   string
		want ParseFailure
	}{
		{"", ParseEmptyInput},
		{"   \n", ParseEmptyInput},
		{"no json here", ParseNoArray},
		{"[1,2,}", ParseNoArray},
		{`[{"type": "phone", "value": }]`, ParseDecode},
		{`[{"type":"email","value":"a@b.com"}, 7]`, ParseNoArray},
	}
	for _, tt := range tests {
		r := ParseContacts(tt.in)
		assert.Equal(t, tt.want, r.Failure, tt.in)
		assert.False(t, r.OK(), tt.in)
		assert.ErrorIs(t, r.Err, domain.ErrParse, tt.in)
		assert.NotNil(t, r.Entries(), tt.in)
		assert.Empty(t, r.Entries(), tt.in)
	}
}

func TestParseContacts_PromptShape(t *testing.T) {
	// o exemplo do próprio prompt tem vírgula sobrando
	out := "```json\n[\n  {\n    \"type\": \"phone\",\n    \"value\": \"+1 555 123 4567\",\n  },\n  {\n    \"type\": \"email\",\n    \"value\": \"help@acme.com\",\n  },\n]\n```"
	r := ParseContacts(out)
	require.True(t, r.OK(), r.Err)
	assert.Equal(t, []domain.ContactEntry{
		{Kind: domain.KindPhone, Value: "+1 555 123 4567"},
		{Kind: domain.KindEmail, Value: "help@acme.com"},
	}, r.Contacts)
}

func TestParseContacts_FirstArrayOnly(t *testing.T) {
	r := ParseContacts(`[{"type":"email","value":"first@a.com"}] and later [{"type":"email","value":"second@a.com"}]`)
	require.True(t, r.OK())
	require.Len(t, r.Contacts, 1)
	assert.Equal(t, "first@a.com", r.Contacts[0].Value)
}

func TestParseContacts_Lenient(t *testing.T) {
	// duplicatas e tipos desconhecidos passam sem validação
	r := ParseContacts(`[{"type":"fax","value":"1"},{"type":"fax","value":"1"},{"value":"x"}]`)
	require.True(t, r.OK())
	assert.Equal(t, []domain.ContactEntry{
		{Kind: "fax", Value: "1"},
		{Kind: "fax", Value: "1"},
		{Value: "x"},
	}, r.Contacts)
}

func TestParseContacts_NonStringValues(t *testing.T) {
	// telefone como número JSON não pode derrubar o e-mail válido
	r := ParseContacts(`[{"type":"email","value":"help@acme.com"},{"type":"phone","value":5551234567},{"type":"info","value":null},{"type":"info","value":true}]`)
	require.True(t, r.OK(), r.Err)
	assert.Equal(t, []domain.ContactEntry{
		{Kind: domain.KindEmail, Value: "help@acme.com"},
		{Kind: domain.KindPhone, Value: "5551234567"},
		{Kind: domain.KindInfo, Value: ""},
		{Kind: domain.KindInfo, Value: "true"},
	}, r.Contacts)
}

func TestParseContacts_CommaInsideString(t *testing.T) {
	r := ParseContacts(`[{"type":"email","value":"a,}b"}]`)
	require.True(t, r.OK(), r.Err)
	assert.Equal(t, "a,}b", r.Contacts[0].Value)

	// com vírgula sobrando fora da string, o fallback ainda decodifica
	r = ParseContacts(`[{"type":"email","value":"a@b.com",},]`)
	require.True(t, r.OK(), r.Err)
	assert.Equal(t, "a@b.com", r.Contacts[0].Value)
}

func TestParseResult_EntriesNeverNil(t *testing.T) {
	assert.NotNil(t, ParseResult{}.Entries())
	assert.NotNil(t, ParseResult{Failure: ParseDecode, Err: errors.New("x")}.Entries())
}
