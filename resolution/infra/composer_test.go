package infra

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resodo-gateway/resolution/domain"
)

func testInput() domain.DocumentInput {
	return domain.DocumentInput{
		LegalText:      "BACKGROUND\nThe filer bought a toaster — it broke.\n\n\n\nSPECIFIC COMPLAINTS\n1. Refund denied.\n\n   \n\nTIMELINE\nRespond within 14 days.",
		RespondentName: "Acme Corp",
		FilerName:      "Jane Doe",
		RespondentContacts: []domain.ContactEntry{
			{Kind: domain.KindEmail, Value: "help@acme.com"},
			{Kind: domain.KindPhone, Value: "555-123-4567"},
		},
		FilerContacts: []string{"jane@example.com"},
		Date:          time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildLetter(t *testing.T) {
	l := buildLetter(testInput(), DefaultSanitizer())

	assert.Equal(t, letterTitle, l.Title)
	assert.Equal(t, []metaLine{
		{"Date", "March 04, 2025"},
		{"Parties Involved", "Jane Doe (Filer) vs. Acme Corp (Respondent)"},
		{"Filer Contact Information", "jane@example.com"},
		{"Respondent Contact Information", "Email: help@acme.com, Phone: 555-123-4567"},
	}, l.Meta)
	assert.Equal(t, []string{
		"BACKGROUND\nThe filer bought a toaster – it broke.",
		"SPECIFIC COMPLAINTS\n1. Refund denied.",
		"TIMELINE\nRespond within 14 days.",
	}, l.Paragraphs)
}

func TestBuildLetter_NoRespondentContacts(t *testing.T) {
	in := testInput()
	in.RespondentContacts = nil
	in.FilerContacts = "jane@example.com"

	l := buildLetter(in, DefaultSanitizer())
	assert.Equal(t, metaLine{"Respondent Contact Information", "N/A"}, l.Meta[3])
	assert.Equal(t, metaLine{"Filer Contact Information", "Info: jane@example.com"}, l.Meta[2])
}

func TestPDFComposer_Compose(t *testing.T) {
	dir := t.TempDir()
	c := NewPDFComposer(dir, nil)

	doc, err := c.Compose(context.Background(), testInput())
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(doc.Path))
	assert.Equal(t, dir, filepath.Dir(doc.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(doc.Path), "legal_doc_"))
	assert.Equal(t, ".pdf", filepath.Ext(doc.Path))
	assert.Equal(t, 1, doc.Pages)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, int64(len(data)), doc.Size)
}

func TestPDFComposer_UniquePaths(t *testing.T) {
	c := NewPDFComposer(t.TempDir(), nil)
	a, err := c.Compose(context.Background(), testInput())
	require.NoError(t, err)
	b, err := c.Compose(context.Background(), testInput())
	require.NoError(t, err)
	assert.NotEqual(t, a.Path, b.Path)
}

func TestPDFComposer_LongTextPaginates(t *testing.T) {
	in := testInput()
	in.LegalText = strings.Repeat(strings.Repeat("The respondent shall comply. ", 30)+"\n\n", 40)

	doc, err := NewPDFComposer(t.TempDir(), nil).Compose(context.Background(), in)
	require.NoError(t, err)
	assert.Greater(t, doc.Pages, 1)
}

func TestPDFComposer_WriteFailure(t *testing.T) {
	// OutputDir aponta para um arquivo comum
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewPDFComposer(blocker, nil).Compose(context.Background(), testInput())
	require.Error(t, err)
	assert.True(t, domain.IsRender(err))
	assert.True(t, strings.HasPrefix(err.Error(), "Error generating PDF: "))
}

func TestPDFComposer_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFComposer(dir, nil).Compose(ctx, testInput())
	require.Error(t, err)
	assert.True(t, domain.IsRender(err))
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
