package document

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	interviewFormMarkers = []string{"_IF.pdf", "IF.pdf"}
	rmpMarkers           = []string{"_RMP", "RMP"}
	patientGuideMarker   = "患者向けガイド"
)

// Classify derives the document type from a file name alone.
// The name is NFKC-folded first so fullwidth and ASCII variants classify
// the same way. Rules are checked in order and the first match wins.
func Classify(fileName string) DocType {
	normalized := norm.NFKC.String(fileName)

	switch {
	case strings.HasSuffix(strings.ToLower(normalized), ".xml"):
		return TypePackageInsert
	case containsAny(normalized, interviewFormMarkers):
		return TypeInterviewForm
	case containsAny(normalized, rmpMarkers):
		return TypeRiskManagementPlan
	// The guide marker is checked against the raw name too: NFKC leaves
	// some of its fullwidth punctuation variants untouched.
	case strings.Contains(normalized, patientGuideMarker) || strings.Contains(fileName, patientGuideMarker):
		return TypePatientGuide
	default:
		return TypeOther
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
