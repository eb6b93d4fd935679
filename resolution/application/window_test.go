package application

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindContactAnchor_EarliestWins(t *testing.T) {
	// telefone no offset 10, e-mail no offset 50
	text := "Call us at 555-123-4567" + strings.Repeat(".", 27) + "info@acme.com for more"
	require.Equal(t, 10, strings.Index(text, "555"))
	require.Equal(t, 50, strings.Index(text, "info@"))

	a, ok := FindContactAnchor(text)
	require.True(t, ok)
	assert.Equal(t, "phone", a.Kind)
	assert.Equal(t, "555-123-4567", text[a.Start:a.End])

	text = "Write to: sales@acme.com or ring (555) 123-4567"
	a, ok = FindContactAnchor(text)
	require.True(t, ok)
	assert.Equal(t, "email", a.Kind)
	assert.Equal(t, "sales@acme.com", text[a.Start:a.End])
}

func TestFindContactAnchor_PhoneFormats(t *testing.T) {
	for _, phone := range []string{"+1 555 123 4567", "(555) 123-4567", "555.123.4567", "123-4567"} {
		a, ok := FindContactAnchor("Phone: " + phone + " (mon-fri)")
		require.True(t, ok, phone)
		assert.Equal(t, "phone", a.Kind, phone)
	}
}

func TestExtractContactWindow_None(t *testing.T) {
	_, ok := ExtractContactWindow("About us. We make toasters since forever.", 1000)
	assert.False(t, ok)

	_, ok = ExtractContactWindow("", 1000)
	assert.False(t, ok)
}

func TestExtractContactWindow_Context(t *testing.T) {
	text := strings.Repeat("x", 30) + " mail@acme.io " + strings.Repeat("y", 30)
	w, ok := ExtractContactWindow(text, 5)
	require.True(t, ok)
	assert.Equal(t, "xxxx mail@acme.io yyyy", w)
}

func TestExtractContactWindow_Bounded(t *testing.T) {
	page := strings.Repeat("Lorem ipsum dolor sit amet. ", 2000) +
		"Contact: help@acme.example.com " +
		strings.Repeat("Consectetur adipiscing elit. ", 2000)

	for _, c := range []int{0, 1, 10, 100, 1000} {
		w, ok := ExtractContactWindow(page, c)
		require.True(t, ok)
		assert.Contains(t, w, "help@acme.example.com")
		assert.LessOrEqual(t, utf8.RuneCountInString(w), 2*c+len("help@acme.example.com"))
		assert.Contains(t, page, w)
	}
}

func TestExtractContactWindow_Runes(t *testing.T) {
	text := strings.Repeat("é", 20) + "contato@empresa.com.br" + strings.Repeat("ç", 20)
	w, ok := ExtractContactWindow(text, 3)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(w))
	assert.Equal(t, "ééécontato@empresa.com.brççç", w)
}

func TestExtractContactWindow_AtEdges(t *testing.T) {
	w, ok := ExtractContactWindow("a@b.co", 1000)
	require.True(t, ok)
	assert.Equal(t, "a@b.co", w)
}
