// Package report renders a Markdown summary of a load pass and converts it
// to HTML.
package report

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/pharmadocs/internal/document"
	"github.com/dgallion1/pharmadocs/internal/prices"
	"github.com/dgallion1/pharmadocs/internal/stats"
)

// priceColumns is how many header names each price table lists.
const priceColumns = 5

// Input is everything a summary covers. ProductTypes and CompanyTypes fix
// the order of the product listing; keys missing from them follow sorted.
type Input struct {
	ProductTypes []string
	CompanyTypes []string
	Products     map[string]map[string][]string
	Documents    []document.Document
	Prices       map[string]*prices.Table
}

// Build renders the summary as Markdown.
func Build(in Input) string {
	var b strings.Builder

	b.WriteString("# 文書サマリー\n\n")

	b.WriteString("## 利用可能な製品\n\n")
	if len(in.Products) == 0 {
		b.WriteString("製品フォルダがありません。\n\n")
	}
	for _, pt := range ordered(in.ProductTypes, in.Products) {
		companies := in.Products[pt]
		fmt.Fprintf(&b, "### %s\n\n", pt)
		for _, ct := range ordered(in.CompanyTypes, companies) {
			names := companies[ct]
			fmt.Fprintf(&b, "- %s: %d製品", ct, len(names))
			if len(names) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(names, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	s := stats.Compute(in.Documents)
	b.WriteString("## 文書\n\n")
	fmt.Fprintf(&b, "総文書数: **%d**\n\n", s.TotalDocs)
	if s.TotalDocs > 0 {
		writeCounts(&b, "製品タイプ別", "製品タイプ", s.ByProductType)
		writeCounts(&b, "会社タイプ別", "会社タイプ", s.ByCompany)

		// Document types follow classification order, not name order.
		typeOrder := make([]string, len(document.Types))
		for i, t := range document.Types {
			typeOrder[i] = string(t)
		}
		b.WriteString("### 文書タイプ別\n\n")
		rows := make([][]string, 0, len(s.ByType))
		for _, t := range ordered(typeOrder, s.ByType) {
			rows = append(rows, []string{t, fmt.Sprint(s.ByType[t])})
		}
		writeTable(&b, []string{"文書タイプ", "件数"}, rows)

		forms := stats.CountByProductType(in.Documents, document.TypeInterviewForm)
		total := 0
		for _, n := range forms {
			total += n
		}
		fmt.Fprintf(&b, "### %s\n\n総数: %d文書\n\n", document.TypeInterviewForm, total)
		if total > 0 {
			writeTable(&b, []string{"製品タイプ", "件数"}, countRows(forms))
		}
	}

	if len(in.Prices) > 0 {
		b.WriteString("## 薬価\n\n")
		for _, category := range slices.Sorted(maps.Keys(in.Prices)) {
			t := in.Prices[category]
			fmt.Fprintf(&b, "### %s\n\n%d行 × %d列\n\n", category, t.Len(), len(t.Columns))
			if len(t.Columns) > 0 {
				cols := t.Columns[:min(len(t.Columns), priceColumns)]
				fmt.Fprintf(&b, "列: %s", strings.Join(cols, ", "))
				if len(t.Columns) > priceColumns {
					b.WriteString(" ...")
				}
				b.WriteString("\n\n")
			}
		}
	}

	return b.String()
}

// HTML converts Markdown to an HTML fragment with table support.
func HTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

func writeCounts(b *strings.Builder, title, label string, counts map[string]int) {
	fmt.Fprintf(b, "### %s\n\n", title)
	writeTable(b, []string{label, "件数"}, countRows(counts))
}

func countRows(counts map[string]int) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		rows = append(rows, []string{k, fmt.Sprint(counts[k])})
	}
	return rows
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(escapeCells(header), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}
	b.WriteString("\n")
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

// ordered returns the keys of m, first in the given order and then the
// remaining keys sorted.
func ordered[V any](order []string, m map[string]V) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		if _, ok := m[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	return keys
}
