package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// MaxUploadBytes is the largest document accepted for ingestion
const MaxUploadBytes = 10 << 20

var (
	// ErrNotPDF is returned when the payload is not a PDF document
	ErrNotPDF = errors.New("file is not a PDF")
	// ErrEmptyDocument is returned for a zero-length upload
	ErrEmptyDocument = errors.New("file is empty")
	// ErrNoText is returned when a document has no extractable text layer
	ErrNoText = errors.New("no text could be extracted from the document")
	// ErrTooLarge is returned when a document exceeds MaxUploadBytes
	ErrTooLarge = errors.New("file exceeds the 10MB limit")
	// ErrUnreadablePDF is returned when a PDF's structure cannot be parsed
	ErrUnreadablePDF = errors.New("PDF could not be read")
)

var pdfMagic = []byte("%PDF-")

// Document is the text layer of a PDF
type Document struct {
	Text  string
	Pages int
}

// IsPDF reports whether the payload looks like a PDF, by magic bytes or by extension
func IsPDF(filename string, data []byte) bool {
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), pdfMagic) {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// ExtractPDFText reads the plain text of every page and cleans it
func ExtractPDFText(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), pdfMagic) {
		return nil, ErrNotPDF
	}

	raw, pages, err := readPDF(data)
	if err != nil {
		return nil, err
	}

	text := CleanText(raw)
	if text == "" {
		return nil, ErrNoText
	}
	return &Document{Text: text, Pages: pages}, nil
}

// readPDF returns the raw text layer, converting parser panics on corrupt input into errors
func readPDF(data []byte) (text string, pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, pages, err = "", 0, fmt.Errorf("%w: %v", ErrUnreadablePDF, rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrUnreadablePDF, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrUnreadablePDF, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrUnreadablePDF, err)
	}
	return buf.String(), r.NumPage(), nil
}
