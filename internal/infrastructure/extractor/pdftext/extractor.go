package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Sentinels keep the pipeline moving on bad input: empty string is never a
// valid extraction result, so downstream stages can rely on raw_text always
// carrying something.
const (
	EmptyDocumentSentinel = "EMPTY_PDF_TEXT"
	ParseErrorPrefix      = "PDF_PARSE_ERROR: "
)

// Extractor converts PDF bytes into plain text. It never fails: parse errors
// come back as a sentinel string carrying the error detail, so classification
// and field extraction can still run against garbage input.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, content []byte) string {
	text, err := pdfToText(content)
	if err != nil {
		return ParseErrorPrefix + err.Error()
	}
	if text == "" {
		return EmptyDocumentSentinel
	}
	return text
}

func pdfToText(content []byte) (text string, err error) {
	// The pdf package panics on some malformed files instead of returning
	// an error; the sentinel contract requires absorbing that too.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, pageText)
	}
	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
