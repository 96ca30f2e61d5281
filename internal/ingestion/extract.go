package ingestion

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is one page of extracted text. Non-PDF formats produce a single
// page numbered 1.
type Page struct {
	Text   string
	Number int
}

// ExtractText pulls plain text out of an uploaded file. The format is
// decided by the storage key's extension, matching how the file was
// validated at upload time.
func ExtractText(storagePath string, data []byte) ([]Page, error) {
	if strings.HasSuffix(strings.ToLower(storagePath), ".pdf") {
		return extractPDF(data)
	}
	return extractPlainText(data), nil
}

func extractPDF(data []byte) ([]Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid or corrupted PDF file: %w", err)
	}

	var pages []Page
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("[Extract] Failed to extract text from page %d: %v", pageNum, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, Page{Text: text, Number: pageNum})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no text content could be extracted from the PDF")
	}

	return pages, nil
}

func extractPlainText(data []byte) []Page {
	return []Page{{Text: string(data), Number: 1}}
}
