package entity

// Paper arXiv 论文元数据
type Paper struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	Categories []string `json:"categories"`
	Published  string   `json:"published"`
	PDFURL     string   `json:"pdf_url"`
	URL        string   `json:"url"`
}
