package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n• Item 2\n* Item 3"
	result := CleanText(input)

	assert.Contains(t, result, "- Item 1")
	assert.Contains(t, result, "- Item 2")
	assert.Contains(t, result, "* Item 3")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	result := CleanText("Line    with \t multiple    spaces")
	assert.Equal(t, "Line with multiple spaces", result)
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	result := CleanText("Line 1\n\n\n\n\nLine 2")

	assert.NotContains(t, result, "\n\n\n")
	assert.Contains(t, result, "\n\n")
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	result := CleanText("Line 1\r\nLine 2\rLine 3\nLine 4")

	assert.NotContains(t, result, "\r")
	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_StripsControlCharacters(t *testing.T) {
	result := CleanText("Jane\x00 Doe\x07\nEngineer")
	assert.Equal(t, "Jane Doe\nEngineer", result)
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Empty(t, CleanText(""))
	assert.Empty(t, CleanText("   \n  \n  "))
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	result := CleanText("Test with émojis 🚀 and spéciàl chàracters")

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestIngestFromFile_Text(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "resume.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("Jane Doe\n\nSenior   Engineer"), 0644))

	cleanedText, metadata, err := IngestFromFile(testFile)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\n\nSenior Engineer", cleanedText)
	assert.Equal(t, "resume.txt", metadata.Filename)
	assert.Len(t, metadata.SHA256, 64)
	assert.Equal(t, FormatText, metadata.Format)
}

func TestIngestFromFile_FileNotFound(t *testing.T) {
	cleanedText, metadata, err := IngestFromFile("/nonexistent/file.txt")

	assert.Error(t, err)
	assert.Empty(t, cleanedText)
	assert.Nil(t, metadata)
	assert.Contains(t, err.Error(), "file not found")
}

func TestIngestFromFile_FakePDF(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "resume.pdf")
	require.NoError(t, os.WriteFile(testFile, []byte("plain text pretending"), 0644))

	_, _, err := IngestFromFile(testFile)
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestWriteOutput(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested")
	require.NoError(t, WriteOutput(outDir, "text", Describe("resume.pdf", FormatPDF, "text", 4)))

	assert.FileExists(t, filepath.Join(outDir, "resume.cleaned.txt"))
	assert.FileExists(t, filepath.Join(outDir, "resume.meta.json"))
}
