package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// XMLParser flattens an XML document to its character data.
type XMLParser struct{}

func (p *XMLParser) Parse(path string) (*Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open xml: %w", err)
	}
	defer f.Close()

	text, err := xmlText(f)
	if err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	return &Extraction{Text: text}, nil
}

// xmlText concatenates all character data in document order. Tags,
// comments and processing instructions are dropped.
func xmlText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	var buf strings.Builder
	sawRoot := false
	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth > 0 {
				buf.Write(t)
			}
		}
	}
	if !sawRoot {
		return "", errors.New("no root element")
	}
	return buf.String(), nil
}
