// Package stats aggregates loaded documents into counts.
package stats

import "github.com/dgallion1/pharmadocs/internal/document"

// Unknown is the bucket for documents with an empty grouping field.
const Unknown = "unknown"

// Stats is a summary of a document collection.
type Stats struct {
	TotalDocs     int            `json:"total_docs"`
	ByType        map[string]int `json:"by_type"`
	ByProduct     map[string]int `json:"by_product"`
	ByProductType map[string]int `json:"by_product_type"`
	ByCompany     map[string]int `json:"by_company"`
}

// Compute counts docs by document type, product name, product type and
// company type. Every map sums to TotalDocs.
func Compute(docs []document.Document) Stats {
	s := Stats{
		TotalDocs:     len(docs),
		ByType:        make(map[string]int),
		ByProduct:     make(map[string]int),
		ByProductType: make(map[string]int),
		ByCompany:     make(map[string]int),
	}
	for _, d := range docs {
		s.ByType[bucket(string(d.DocType))]++
		s.ByProduct[bucket(d.ProductName)]++
		s.ByProductType[bucket(d.ProductType)]++
		s.ByCompany[bucket(d.CompanyType)]++
	}
	return s
}

// CountByProductType counts documents of one type per product type.
func CountByProductType(docs []document.Document, docType document.DocType) map[string]int {
	counts := make(map[string]int)
	for _, d := range docs {
		if d.DocType == docType {
			counts[bucket(d.ProductType)]++
		}
	}
	return counts
}

func bucket(v string) string {
	if v == "" {
		return Unknown
	}
	return v
}
