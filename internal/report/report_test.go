package report

import (
	"slices"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dgallion1/pharmadocs/internal/document"
	"github.com/dgallion1/pharmadocs/internal/prices"
)

func sampleInput() Input {
	return Input{
		ProductTypes: []string{"血漿分画製剤", "IBD製剤"},
		CompanyTypes: []string{"自社", "他社"},
		Products: map[string]map[string][]string{
			"IBD製剤":  {"自社": {"製品C"}, "他社": {}},
			"血漿分画製剤": {"自社": {"製品A", "製品B"}, "他社": {"製品Z"}},
		},
		Documents: []document.Document{
			{DocType: document.TypeInterviewForm, ProductName: "製品A", ProductType: "血漿分画製剤", CompanyType: "自社"},
			{DocType: document.TypePackageInsert, ProductName: "製品A", ProductType: "血漿分画製剤", CompanyType: "自社"},
			{DocType: document.TypeInterviewForm, ProductName: "製品C", ProductType: "IBD製剤", CompanyType: "自社"},
		},
		Prices: map[string]*prices.Table{
			"注射剤": {
				Columns: []string{"c1", "c2", "c3", "c4", "c5", "c6"},
				Rows:    [][]string{{"a", "", "", "", "", ""}},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	md := Build(sampleInput())

	for _, want := range []string{
		"総文書数: **3**",
		"- 自社: 2製品 (製品A, 製品B)",
		"- 他社: 0製品\n",
		"| インタビューフォーム | 2 |",
		"総数: 2文書",
		"1行 × 6列",
		"列: c1, c2, c3, c4, c5 ...",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected report to contain %q\n%s", want, md)
		}
	}

	if strings.Index(md, "| 電子添文 |") > strings.Index(md, "| インタビューフォーム |") {
		t.Error("expected document types in classification order")
	}

	// Configured order, not map order.
	if strings.Index(md, "### 血漿分画製剤") > strings.Index(md, "### IBD製剤") {
		t.Error("expected product types in configured order")
	}
}

func TestBuild_Empty(t *testing.T) {
	md := Build(Input{})
	if !strings.Contains(md, "総文書数: **0**") {
		t.Errorf("expected zero total, got\n%s", md)
	}
	if strings.Contains(md, "## 薬価") {
		t.Error("expected no price section without tables")
	}
}

func TestEscapeCells(t *testing.T) {
	got := escapeCells([]string{"a|b", "c"})
	if !slices.Equal(got, []string{`a\|b`, "c"}) {
		t.Errorf("unexpected escaping %v", got)
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML(Build(sampleInput()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	var tables int
	var headings []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				tables++
			case "h1", "h2":
				headings = append(headings, textContent(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Product type, company type, document type and interview forms.
	if tables != 4 {
		t.Errorf("expected 4 tables, got %d\n%s", tables, out)
	}
	want := []string{"文書サマリー", "利用可能な製品", "文書", "薬価"}
	if !slices.Equal(headings, want) {
		t.Errorf("headings = %v, want %v", headings, want)
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
