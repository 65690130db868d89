package util

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/phuslu/log"
)

var (
	ErrNotPDF        = errors.New("file is not a PDF")
	ErrUnknownLoader = errors.New("unknown PDF backend")
)

var pdfMagic = []byte("%PDF-")

// PDFTextExtractor turns raw PDF bytes into plain text, pages joined by "\n".
type PDFTextExtractor func(data []byte) (string, error)

// NewPDFTextExtractor returns the extractor for the named backend ("native" or "fitz").
func NewPDFTextExtractor(backend string) (PDFTextExtractor, error) {
	switch backend {
	case "", "native":
		return ExtractPDFText, nil
	case "fitz":
		return ExtractPDFTextFitz, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLoader, backend)
	}
}

// ReadPDFFile reads a PDF from disk and extracts it with fn.
func ReadPDFFile(path string, fn PDFTextExtractor) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	return fn(data)
}

// ExtractPDFText extracts text with the pure-Go ledongthuc/pdf reader.
// Image-only pages yield no text; no OCR is attempted.
func ExtractPDFText(data []byte) (text string, err error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return "", ErrNotPDF
	}

	// the reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: failed to extract text: %w", n, err)
		}
		pages = append(pages, pageText)
	}

	result := strings.TrimSpace(strings.Join(pages, "\n"))
	log.Debug().Int("pages", reader.NumPage()).Int("chars", len(result)).Msg("pdf text extracted")
	return result, nil
}

// ExtractPDFTextFitz extracts text with MuPDF through go-fitz.
func ExtractPDFTextFitz(data []byte) (string, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return "", ErrNotPDF
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: failed to extract text: %w", n+1, err)
		}
		pages = append(pages, strings.TrimSpace(pageText))
	}

	result := strings.TrimSpace(strings.Join(pages, "\n"))
	log.Debug().Int("pages", doc.NumPage()).Int("chars", len(result)).Msg("pdf text extracted")
	return result, nil
}
