// Package reference 提供风格参考（文体范例）的存储与读取
package reference

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "blog-writer-api/pkg/errors"
)

const indexFile = "index.yaml"

// 文件型参考支持的扩展名
var allowedExtensions = map[string]bool{
	"pdf": true,
	"md":  true,
	"txt": true,
}

// StyleReference 风格参考条目。
// 文件型参考复制到管理目录下，URL 型参考把抓取结果缓存在索引里。
type StyleReference struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	SourceType   string `yaml:"source_type" json:"source_type"` // "file" | "url"
	SourcePath   string `yaml:"source_path" json:"source_path"`
	ContentCache string `yaml:"content_cache,omitempty" json:"-"`
	FileType     string `yaml:"file_type,omitempty" json:"file_type,omitempty"`
	CreatedAt    string `yaml:"created_at" json:"created_at"`
	UpdatedAt    string `yaml:"updated_at" json:"updated_at"`
}

type referenceIndex struct {
	References []*StyleReference `yaml:"references"`
}

// Crawler URL 型参考的抓取依赖
type Crawler interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DocumentReader PDF 型参考的文本抽取依赖
type DocumentReader interface {
	ReadText(ctx context.Context, path string) (string, error)
}

// Manager 在单一目录下管理风格参考，元数据集中存在 index.yaml
type Manager struct {
	dir       string
	crawler   Crawler
	documents DocumentReader
}

// NewManager 创建参考管理器
func NewManager(dir string, crawler Crawler, documents DocumentReader) *Manager {
	return &Manager{dir: dir, crawler: crawler, documents: documents}
}

// List 返回全部参考，按 updated_at 倒序
func (m *Manager) List() ([]*StyleReference, error) {
	index, err := m.loadIndex()
	if err != nil {
		return nil, err
	}
	refs := index.References
	sort.Slice(refs, func(i, j int) bool { return refs[i].UpdatedAt > refs[j].UpdatedAt })
	return refs, nil
}

// Get 按 ID 返回单个参考
func (m *Manager) Get(id string) (*StyleReference, error) {
	index, err := m.loadIndex()
	if err != nil {
		return nil, err
	}
	for _, ref := range index.References {
		if ref.ID == id {
			return ref, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeReferenceNotFound, "reference not found: "+id)
}

// AddFile 添加文件型参考，文件复制进管理目录
func (m *Manager) AddFile(ctx context.Context, name, filePath string) (*StyleReference, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, apperrors.New(apperrors.CodeSourceFailed, "file not found: "+filePath)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if !allowedExtensions[ext] {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "unsupported file type: ."+ext)
	}

	id := Slugify(name)
	if id == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "reference name produces empty id: "+name)
	}
	if err := m.ensureUniqueID(id); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to create references dir")
	}
	destName := id + "." + ext
	if err := copyFile(filePath, filepath.Join(m.dir, destName)); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to copy reference file")
	}

	now := nowISO()
	ref := &StyleReference{
		ID:         id,
		Name:       name,
		SourceType: "file",
		SourcePath: destName,
		FileType:   ext,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.appendToIndex(ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// AddURL 添加 URL 型参考，抓取结果缓存在索引里
func (m *Manager) AddURL(ctx context.Context, name, pageURL string) (*StyleReference, error) {
	id := Slugify(name)
	if id == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "reference name produces empty id: "+name)
	}
	if err := m.ensureUniqueID(id); err != nil {
		return nil, err
	}

	text, err := m.crawler.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	now := nowISO()
	ref := &StyleReference{
		ID:           id,
		Name:         name,
		SourceType:   "url",
		SourcePath:   pageURL,
		ContentCache: text,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := m.appendToIndex(ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// Remove 删除参考，文件型参考同时删除复制的文件
func (m *Manager) Remove(id string) error {
	index, err := m.loadIndex()
	if err != nil {
		return err
	}

	found := -1
	for i, ref := range index.References {
		if ref.ID == id {
			found = i
			break
		}
	}
	if found < 0 {
		return apperrors.New(apperrors.CodeReferenceNotFound, "reference not found: "+id)
	}

	removed := index.References[found]
	index.References = append(index.References[:found], index.References[found+1:]...)
	if err := m.saveIndex(index); err != nil {
		return err
	}

	if removed.SourceType == "file" && removed.SourcePath != "" {
		path := filepath.Join(m.dir, removed.SourcePath)
		if _, err := os.Stat(path); err == nil {
			_ = os.Remove(path)
		}
	}
	return nil
}

// GetContent 返回参考的文本内容。
// URL 型返回抓取缓存，文件型现场读取，PDF 走文本抽取。
func (m *Manager) GetContent(ctx context.Context, id string) (string, error) {
	ref, err := m.Get(id)
	if err != nil {
		return "", err
	}

	if ref.SourceType == "url" {
		if ref.ContentCache != "" {
			return ref.ContentCache, nil
		}
		return "", apperrors.New(apperrors.CodeSourceFailed, "url reference cache is empty: "+id)
	}

	path := filepath.Join(m.dir, ref.SourcePath)
	if _, err := os.Stat(path); err != nil {
		return "", apperrors.New(apperrors.CodeSourceFailed, "reference file not found: "+path)
	}

	if ref.FileType == "pdf" {
		return m.documents.ReadText(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternalError, "failed to read reference: "+path)
	}
	return string(data), nil
}

// ── 内部辅助 ──

var (
	slugInvalid = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces  = regexp.MustCompile(`[\s_]+`)
	slugHyphens = regexp.MustCompile(`-+`)
)

// Slugify 把显示名转成可作文件名的 ID
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = slugInvalid.ReplaceAllString(text, "")
	text = slugSpaces.ReplaceAllString(text, "-")
	text = slugHyphens.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (m *Manager) indexPath() string {
	return filepath.Join(m.dir, indexFile)
}

func (m *Manager) loadIndex() (*referenceIndex, error) {
	data, err := os.ReadFile(m.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &referenceIndex{}, nil
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to read reference index")
	}

	var index referenceIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to parse reference index")
	}
	return &index, nil
}

func (m *Manager) saveIndex(index *referenceIndex) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to create references dir")
	}
	data, err := yaml.Marshal(index)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to marshal reference index")
	}
	if err := os.WriteFile(m.indexPath(), data, 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to write reference index")
	}
	return nil
}

func (m *Manager) appendToIndex(ref *StyleReference) error {
	index, err := m.loadIndex()
	if err != nil {
		return err
	}
	index.References = append(index.References, ref)
	return m.saveIndex(index)
}

func (m *Manager) ensureUniqueID(id string) error {
	index, err := m.loadIndex()
	if err != nil {
		return err
	}
	for _, ref := range index.References {
		if ref.ID == id {
			return apperrors.New(apperrors.CodeConflict, "reference already exists: "+id)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
