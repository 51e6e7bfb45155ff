package storage

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(afero.NewMemMapFs(), "/uploads")
	require.NoError(t, err)
	return s
}

func docx(t *testing.T, paras ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paras {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestSaveAndExtractDocx(t *testing.T) {
	s := newStore(t)
	p := s.PathFor(7, "cv.docx")
	assert.True(t, strings.HasPrefix(p, "/uploads/7_"), p)
	assert.True(t, strings.HasSuffix(p, "_cv.docx"), p)

	n, err := s.Save(p, bytes.NewReader(docx(t, "Ada Lovelace", "Go, PostgreSQL")), 1<<20)
	require.NoError(t, err)
	assert.Positive(t, n)

	text, err := s.ExtractText(p, "docx")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace\nGo, PostgreSQL", text)
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	s := newStore(t)
	p := s.PathFor(1, "big.pdf")

	_, err := s.Save(p, strings.NewReader(strings.Repeat("x", 11)), 10)
	assert.ErrorIs(t, err, ErrTooLarge)

	exists, _ := afero.Exists(s.Fs(), p)
	assert.False(t, exists)
}

func TestExtractBrokenPDF(t *testing.T) {
	s := newStore(t)
	p := s.PathFor(1, "cv.pdf")
	_, err := s.Save(p, strings.NewReader("not a pdf"), 1<<20)
	require.NoError(t, err)

	_, err = s.ExtractText(p, "pdf")
	assert.Error(t, err)
}

func TestExtractUnsupported(t *testing.T) {
	s := newStore(t)
	p := s.PathFor(1, "cv.txt")
	_, err := s.Save(p, strings.NewReader("plain"), 1<<20)
	require.NoError(t, err)

	_, err = s.ExtractText(p, "txt")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newStore(t)
	p := s.PathFor(1, "cv.pdf")
	_, err := s.Save(p, strings.NewReader("x"), 10)
	require.NoError(t, err)

	assert.NoError(t, s.Remove(p))
	assert.NoError(t, s.Remove(p))
}

func TestSafeNameAndExt(t *testing.T) {
	assert.Equal(t, "cv.pdf", SafeName("../../etc/cv.pdf"))
	assert.Equal(t, "cv.pdf", SafeName(`C:\Users\ada\cv.pdf`))
	assert.Equal(t, "", SafeName(".."))
	assert.Equal(t, "docx", Ext("Resume.DOCX"))
	assert.Equal(t, "", Ext("resume"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "hi", Truncate("hi", 4))
}

func TestPathForIsUniquePerUpload(t *testing.T) {
	s := newStore(t)
	a := s.PathFor(1, "../cv.pdf")
	b := s.PathFor(1, "cv.pdf")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "/uploads", filepath.Dir(a))
}
