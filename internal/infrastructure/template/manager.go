// Package template 提供提示词模板的 YAML 存储与渲染
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "blog-writer-api/pkg/errors"
)

// PromptTemplate 提示词模板
type PromptTemplate struct {
	ID                 string `yaml:"id" json:"id"`
	Name               string `yaml:"name" json:"name"`
	Description        string `yaml:"description" json:"description"`
	SystemPrompt       string `yaml:"system_prompt" json:"system_prompt"`
	UserPromptTemplate string `yaml:"user_prompt_template" json:"user_prompt_template"`
	CreatedAt          string `yaml:"created_at" json:"created_at"`
	UpdatedAt          string `yaml:"updated_at" json:"updated_at"`
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

var collapseNewlines = regexp.MustCompile(`\n{3,}`)

// Manager 以目录下的 YAML 文件管理提示词模板，文件名即模板 ID
type Manager struct {
	dir string
}

// NewManager 创建模板管理器
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// List 返回全部模板，按 updated_at 倒序。解析失败的文件跳过。
func (m *Manager) List() ([]*PromptTemplate, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to read templates dir")
	}

	var templates []*PromptTemplate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		tpl, err := m.load(filepath.Join(m.dir, e.Name()))
		if err != nil {
			continue
		}
		templates = append(templates, tpl)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].UpdatedAt > templates[j].UpdatedAt
	})
	return templates, nil
}

// Get 加载单个模板
func (m *Manager) Get(id string) (*PromptTemplate, error) {
	path := m.templatePath(id)
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.New(apperrors.CodeTemplateNotFound, "template not found: "+id)
	}
	return m.load(path)
}

// Create 保存新模板，时间戳为空时自动填充
func (m *Manager) Create(tpl *PromptTemplate) (*PromptTemplate, error) {
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}

	path := m.templatePath(tpl.ID)
	if _, err := os.Stat(path); err == nil {
		return nil, apperrors.New(apperrors.CodeTemplateExists, "template already exists: "+tpl.ID)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if tpl.CreatedAt == "" {
		tpl.CreatedAt = now
	}
	if tpl.UpdatedAt == "" {
		tpl.UpdatedAt = now
	}

	if err := m.save(path, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Update 覆盖已有模板，自动刷新 updated_at
func (m *Manager) Update(id string, tpl *PromptTemplate) (*PromptTemplate, error) {
	path := m.templatePath(id)
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.New(apperrors.CodeTemplateNotFound, "template not found: "+id)
	}

	tpl.ID = id
	tpl.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := m.save(path, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Delete 删除模板
func (m *Manager) Delete(id string) error {
	path := m.templatePath(id)
	if _, err := os.Stat(path); err != nil {
		return apperrors.New(apperrors.CodeTemplateNotFound, "template not found: "+id)
	}
	if err := os.Remove(path); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to delete template: "+id)
	}
	return nil
}

// GetSystemPrompt 返回模板的 system_prompt
func (m *Manager) GetSystemPrompt(id string) (string, error) {
	tpl, err := m.Get(id)
	if err != nil {
		return "", err
	}
	return tpl.SystemPrompt, nil
}

// Render 渲染模板，返回 (system_prompt, 渲染后的 user_prompt)。
//
// user_prompt_template 中的 {name} 占位符按 values 替换，未提供的
// 占位符替换为空串；替换后内容为空的 "## " 章节会被整段移除，
// 连续空行压缩为一个。
func (m *Manager) Render(id string, values map[string]string) (string, string, error) {
	tpl, err := m.Get(id)
	if err != nil {
		return "", "", err
	}

	rendered := placeholderPattern.ReplaceAllStringFunc(tpl.UserPromptTemplate, func(match string) string {
		name := match[1 : len(match)-1]
		return values[name]
	})
	rendered = stripEmptySections(rendered)
	return tpl.SystemPrompt, rendered, nil
}

// stripEmptySections 删除没有内容的 "## " 章节
func stripEmptySections(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !strings.HasPrefix(line, "## ") {
			kept = append(kept, line)
			continue
		}

		// 向后看：下一段非空行之前如果就遇到下一个章节或文末，则本章节为空
		empty := true
		for j := i + 1; j < len(lines); j++ {
			if strings.HasPrefix(lines[j], "## ") {
				break
			}
			if strings.TrimSpace(lines[j]) != "" {
				empty = false
				break
			}
		}
		if empty {
			for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "" {
				i++
			}
			continue
		}
		kept = append(kept, line)
	}

	result := collapseNewlines.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func (m *Manager) templatePath(id string) string {
	return filepath.Join(m.dir, id+".yaml")
}

func (m *Manager) load(path string) (*PromptTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to read template: "+path)
	}

	var tpl PromptTemplate
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTemplateInvalid, "failed to parse template: "+filepath.Base(path))
	}
	if err := validateTemplate(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (m *Manager) save(path string, tpl *PromptTemplate) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to create templates dir")
	}
	data, err := yaml.Marshal(tpl)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to marshal template")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to write template: "+path)
	}
	return nil
}

func validateTemplate(tpl *PromptTemplate) error {
	var missing []string
	for field, value := range map[string]string{
		"id":                   tpl.ID,
		"name":                 tpl.Name,
		"description":          tpl.Description,
		"system_prompt":        tpl.SystemPrompt,
		"user_prompt_template": tpl.UserPromptTemplate,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return apperrors.New(apperrors.CodeTemplateInvalid,
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}
