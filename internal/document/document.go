package document

// DocType is the document category derived from a file name.
type DocType string

const (
	TypePackageInsert      DocType = "電子添文"
	TypeInterviewForm      DocType = "インタビューフォーム"
	TypeRiskManagementPlan DocType = "医薬品リスク管理計画"
	TypePatientGuide       DocType = "患者向け医薬品ガイド"
	TypeOther              DocType = "その他"
)

// Types lists every DocType in classification order.
var Types = []DocType{
	TypePackageInsert,
	TypeInterviewForm,
	TypeRiskManagementPlan,
	TypePatientGuide,
	TypeOther,
}

// Section is a page-anchored slice of a document's text.
type Section struct {
	Text     string  `json:"text"`      // Normalized section body
	Page     *int    `json:"page"`      // 1-based source page (nil for XML)
	Heading  *string `json:"heading"`   // Best-effort heading guess
	FileName string  `json:"file_name"` // Originating file
}

// Document is one successfully parsed source file plus its catalog metadata.
type Document struct {
	FullText    string    `json:"full_text"`
	Sections    []Section `json:"sections"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	PageCount   *int      `json:"page_count"`
	DocType     DocType   `json:"doc_type"`
	ProductType string    `json:"product_type"`
	CompanyType string    `json:"company_type"`
	ProductName string    `json:"product_name"`
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
