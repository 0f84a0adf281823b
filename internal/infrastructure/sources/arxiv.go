package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blog-writer-api/internal/config"
	"blog-writer-api/internal/domain/entity"
	apperrors "blog-writer-api/pkg/errors"
)

// atomFeed arXiv API 返回的 Atom feed
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Links      []atomLink     `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// ArxivClient arXiv 论文查询客户端，走官方 Atom API
type ArxivClient struct {
	cfg        config.ArxivConfig
	httpClient *http.Client
}

// NewArxivClient 创建 arXiv 客户端
func NewArxivClient(cfg config.ArxivConfig) *ArxivClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://export.arxiv.org/api/query"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	return &ArxivClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchByID 按论文 ID 查询单篇论文（如 "2301.07041"）
func (c *ArxivClient) FetchByID(ctx context.Context, arxivID string) (*entity.Paper, error) {
	params := url.Values{}
	params.Set("id_list", arxivID)

	feed, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(feed.Entries) == 0 || strings.TrimSpace(feed.Entries[0].ID) == "" {
		return nil, apperrors.New(apperrors.CodeSourceFailed, "paper not found: "+arxivID)
	}
	return toPaper(feed.Entries[0]), nil
}

// FetchRecent 按类别查询最新论文，按提交时间倒序
func (c *ArxivClient) FetchRecent(ctx context.Context, categories []string, maxResults int) ([]*entity.Paper, error) {
	if len(categories) == 0 {
		return nil, apperrors.New(apperrors.CodeSourceFailed, "at least one category is required")
	}
	if maxResults <= 0 {
		maxResults = c.cfg.PageSize
	}

	terms := make([]string, len(categories))
	for i, cat := range categories {
		terms[i] = "cat:" + cat
	}

	params := url.Values{}
	params.Set("search_query", strings.Join(terms, " OR "))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))

	feed, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}

	papers := make([]*entity.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, toPaper(entry))
	}
	return papers, nil
}

func (c *ArxivClient) query(ctx context.Context, params url.Values) (*atomFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSourceFailed, "failed to build arxiv request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSourceFailed, "arxiv api call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.CodeSourceFailed,
			fmt.Sprintf("arxiv api returned HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSourceFailed, "failed to read arxiv response")
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSourceFailed, "failed to parse arxiv feed")
	}
	return &feed, nil
}

// toPaper 把 Atom entry 转为领域实体
func toPaper(entry atomEntry) *entity.Paper {
	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		authors = append(authors, a.Name)
	}

	categories := make([]string, 0, len(entry.Categories))
	for _, cat := range entry.Categories {
		categories = append(categories, cat.Term)
	}

	var pdfURL string
	for _, link := range entry.Links {
		if link.Title == "pdf" || link.Type == "application/pdf" {
			pdfURL = link.Href
			break
		}
	}

	return &entity.Paper{
		ID:         shortID(entry.ID),
		Title:      normalizeWhitespace(entry.Title),
		Authors:    authors,
		Abstract:   strings.TrimSpace(entry.Summary),
		Categories: categories,
		Published:  strings.TrimSpace(entry.Published),
		PDFURL:     pdfURL,
		URL:        strings.TrimSpace(entry.ID),
	}
}

// shortID 从 entry id URL 中提取短 ID（http://arxiv.org/abs/2301.07041v1 -> 2301.07041v1）
func shortID(entryID string) string {
	entryID = strings.TrimSpace(entryID)
	if idx := strings.LastIndex(entryID, "/abs/"); idx >= 0 {
		return entryID[idx+len("/abs/"):]
	}
	return entryID
}

// normalizeWhitespace 把 Atom 字段里的换行和连续空白压成单个空格
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
