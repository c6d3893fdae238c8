package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Source formats
const (
	FormatPDF  = "pdf"
	FormatText = "text"
)

// Metadata describes one ingested resume. SHA256 is taken over the cleaned
// text, so re-uploading the same document yields the same digest.
type Metadata struct {
	Filename   string    `json:"filename,omitempty"`
	Format     string    `json:"format"`
	IngestedAt time.Time `json:"ingestedAt"`
	SHA256     string    `json:"sha256"`
	Bytes      int       `json:"bytes"`
	Pages      int       `json:"pages,omitempty"`
	Characters int       `json:"characters"`
}

// Describe builds metadata for text cleaned from a source of size bytes
func Describe(filename, format, text string, size int) *Metadata {
	return &Metadata{
		Filename:   filename,
		Format:     format,
		IngestedAt: time.Now().UTC().Truncate(time.Second),
		SHA256:     textDigest(text),
		Bytes:      size,
		Characters: utf8.RuneCountInString(text),
	}
}

// DescribeDocument builds metadata for a PDF read by ExtractPDFText
func DescribeDocument(filename string, doc *Document, size int) *Metadata {
	meta := Describe(filename, FormatPDF, doc.Text, size)
	meta.Pages = doc.Pages
	return meta
}

func textDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// LogFields renders the metadata as structured log fields
func (m *Metadata) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("filename", m.Filename),
		zap.String("format", m.Format),
		zap.String("sha256", m.SHA256),
		zap.Int("bytes", m.Bytes),
		zap.Int("pages", m.Pages),
		zap.Int("characters", m.Characters),
	}
}

// ToJSON marshals Metadata to indented JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}
