package pdftext

import (
	"context"
	"strings"
	"testing"
)

func TestExtractGarbageBytesReturnsParseSentinel(t *testing.T) {
	extractor := NewExtractor()
	text := extractor.Extract(context.Background(), []byte("definitely not a pdf"))

	if !strings.HasPrefix(text, ParseErrorPrefix) {
		t.Fatalf("text = %q, want %q prefix", text, ParseErrorPrefix)
	}
	if text == ParseErrorPrefix {
		t.Fatalf("sentinel must carry the error detail")
	}
}

func TestExtractEmptyInputReturnsParseSentinel(t *testing.T) {
	extractor := NewExtractor()
	text := extractor.Extract(context.Background(), nil)

	if !strings.HasPrefix(text, ParseErrorPrefix) {
		t.Fatalf("text = %q, want %q prefix", text, ParseErrorPrefix)
	}
}

func TestExtractNeverReturnsEmptyString(t *testing.T) {
	extractor := NewExtractor()
	inputs := [][]byte{
		nil,
		{},
		[]byte("%PDF-1.4"),
		[]byte("%PDF-1.4\ntruncated body with no xref"),
		make([]byte, 1024),
	}
	for _, input := range inputs {
		if text := extractor.Extract(context.Background(), input); text == "" {
			t.Fatalf("empty string leaked for input %q", input)
		}
	}
}
