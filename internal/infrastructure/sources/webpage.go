package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"blog-writer-api/internal/config"
	apperrors "blog-writer-api/pkg/errors"
	"blog-writer-api/pkg/logger"
)

// 正文抽取时整体丢弃的标签
var removeTags = map[string]bool{
	"nav":      true,
	"footer":   true,
	"header":   true,
	"aside":    true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"form":     true,
}

// class/id 中出现即视为广告或无关区块的关键词
var adPatterns = []string{
	"ad", "ads", "advert", "advertisement", "banner", "sidebar",
	"cookie", "popup", "modal", "newsletter", "promo",
	"social-share", "share-buttons", "comment", "comments",
}

var multiSpacePattern = regexp.MustCompile(`[ \t]{2,}`)

// PageCache 抓取结果的读穿缓存，返回 JSON 序列化后的字节
type PageCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
}

// Crawler 网页正文抓取器。
//
// 抓取 HTML 后做降噪处理（导航、脚本、广告区块），优先从
// article/main 节点抽取正文。配置了缓存时按 URL 缓存抽取结果。
type Crawler struct {
	cfg        config.CrawlerConfig
	httpClient *http.Client
	cache      PageCache
}

// NewCrawler 创建抓取器，cache 可为 nil
func NewCrawler(cfg config.CrawlerConfig, cache PageCache) *Crawler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 2 << 20
	}
	return &Crawler{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
	}
}

// Fetch 抓取网页并返回正文文本
func (c *Crawler) Fetch(ctx context.Context, url string) (string, error) {
	if c.cache == nil || c.cfg.CacheTTL <= 0 {
		return c.fetchText(ctx, url)
	}

	cached, err := c.cache.GetOrLoad(ctx, "crawl:"+url, c.cfg.CacheTTL, func() (interface{}, error) {
		return c.fetchText(ctx, url)
	})
	if err != nil {
		return "", err
	}

	var text string
	if err := json.Unmarshal(cached, &text); err != nil {
		logger.Warn(ctx, "corrupt crawl cache entry, refetching", "url", url)
		return c.fetchText(ctx, url)
	}
	return text, nil
}

func (c *Crawler) fetchText(ctx context.Context, url string) (string, error) {
	rawHTML, err := c.download(ctx, url)
	if err != nil {
		return "", err
	}

	text, err := extractPageText(rawHTML)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeSourceFailed, "failed to parse page: "+url)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.New(apperrors.CodeSourceFailed, "no text content extracted from "+url)
	}
	return text, nil
}

func (c *Crawler) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeSourceFailed, "invalid url: "+url)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeSourceFailed, "failed to fetch "+url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.New(apperrors.CodeSourceFailed,
			fmt.Sprintf("HTTP %d fetching %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeSourceFailed, "failed to read "+url)
	}
	return string(body), nil
}

// extractPageText 解析 HTML 并抽取正文文本。
// 优先使用 article > main > body 节点，逐行修剪空白并丢弃空行。
func extractPageText(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	root := doc
	for _, tag := range []string{"article", "main", "body"} {
		if n := findElement(doc, tag); n != nil {
			root = n
			break
		}
	}

	var sb strings.Builder
	collectText(root, &sb)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		trimmed := strings.TrimSpace(multiSpacePattern.ReplaceAllString(line, " "))
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		if removeTags[n.Data] || isNoiseBlock(n) {
			return
		}
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString("\n")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// isNoiseBlock 根据 class/id 关键词判定广告或无关区块
func isNoiseBlock(n *html.Node) bool {
	var combined string
	for _, attr := range n.Attr {
		if attr.Key == "class" || attr.Key == "id" {
			combined += " " + attr.Val
		}
	}
	if combined == "" {
		return false
	}
	combined = strings.ToLower(combined)
	for _, pattern := range adPatterns {
		if strings.Contains(combined, pattern) {
			return true
		}
	}
	return false
}
