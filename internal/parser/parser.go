package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a supported source format.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatXML Format = "xml"
)

// Extraction is the raw text pulled out of one file.
type Extraction struct {
	Text  string // Page-marked for paged formats, flat otherwise
	Pages int    // Total page count; 0 when Paged is false
	Paged bool
}

// Parser extracts raw text from a file on disk.
type Parser interface {
	Parse(path string) (*Extraction, error)
}

// FormatOf maps a file name to its format by extension.
func FormatOf(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, true
	case ".xml":
		return FormatXML, true
	default:
		return "", false
	}
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, pdfFallback bool) (Parser, error) {
	format, ok := FormatOf(filename)
	if !ok {
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
	switch format {
	case FormatPDF:
		return &PDFParser{FallbackPdftotext: pdfFallback}, nil
	default:
		return &XMLParser{}, nil
	}
}
