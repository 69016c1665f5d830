package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sir_venger/docgate/internal/models"
)

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"report.docx":                "report.docx",
		"/tmp/x/report.docx":         "report.docx",
		`C:\Users\me\report.docx`:    "report.docx",
		"../../etc/passwd":           "passwd",
		"  spaced.txt ":              "spaced.txt",
		"":                           "",
		"..":                         "",
		"/":                          "",
		"shared/results/xyz123.pdf/": "xyz123.pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, BaseName(in), in)
	}
}

func TestExtFromName(t *testing.T) {
	cases := map[string]string{
		"report.docx":            ".docx",
		"Report.DOCX":            ".docx",
		"archive.tar.gz":         ".gz",
		"noext":                  "",
		"trailingdot.":           "",
		".bashrc":                ".bashrc",
		"weird.do cx":            "",
		"evil.pdf/../x":          "",
		"long.abcdefghijklmnopq": "",
		"unicode.дoc":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtFromName(in), in)
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "report.pdf", OutputName("report.docx", ".pdf", "id"))
	assert.Equal(t, "my.report.pdf", OutputName("my.report.docx", ".pdf", "id"))
	assert.Equal(t, "notes.pdf", OutputName("notes", ".pdf", "id"))
	assert.Equal(t, "report.pdf", OutputName(`C:\docs\report.docx`, ".pdf", "id"))
	assert.Equal(t, "id.pdf", OutputName(".docx", ".pdf", "id"))
	assert.Equal(t, "id.pdf", OutputName("", ".pdf", "id"))
	assert.Equal(t, "ab.pdf", OutputName("a\x00b.docx", ".pdf", "id"))
	assert.Equal(t, "v1.final.pdf", OutputName("v1..final.docx", ".pdf", "id"))
}

func TestOutputName_AlwaysValidLocator(t *testing.T) {
	names := []string{
		"a..b", "a..b.docx", "...", "....docx", "x. .y", `..\..\z`, "../../etc/passwd",
		"v1..final.docx", "a. . .b.odt", ". .", "trailing..", "тест..отчёт.docx",
		strings.Repeat("a", maxStemLen-1) + "..tail.docx",
		strings.Repeat("б", maxStemLen-1) + ". x.docx",
	}

	for _, name := range names {
		out := OutputName(name, ".pdf", "3f2a9c1e-id")
		assert.NoError(t, ValidateLocator(out), "%q -> %q", name, out)
		assert.True(t, strings.HasSuffix(out, ".pdf"), out)
	}
}

func TestValidateLocator(t *testing.T) {
	valid := []string{"xyz123.pdf", "report.pdf", "a-b_c.pdf", "отчёт.pdf"}
	for _, name := range valid {
		assert.NoError(t, ValidateLocator(name), name)
	}

	invalid := []string{
		"", ".", "..", "../secret", "a/b.pdf", `a\b.pdf`, "/etc/passwd",
		"..pdf", "x..pdf", ".hidden", "a\x00.pdf", `..\..\boot.ini`,
	}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateLocator(name), models.ErrInvalidName, name)
	}
}
