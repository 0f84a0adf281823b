package entity

// WriteMode 写作模式
type WriteMode string

const (
	// WriteModeDirect 直接发布用户提供的内容，不经过 LLM
	WriteModeDirect WriteMode = "direct"
	// WriteModeFeedback 对用户初稿生成编辑反馈
	WriteModeFeedback WriteMode = "feedback"
	// WriteModeAuto 基于素材与指令全自动生成
	WriteModeAuto WriteMode = "auto"
)

// Valid 检查写作模式是否受支持
func (m WriteMode) Valid() bool {
	switch m {
	case WriteModeDirect, WriteModeFeedback, WriteModeAuto:
		return true
	}
	return false
}

// WriteRequest 写作请求
type WriteRequest struct {
	Mode         WriteMode
	Content      string
	Sources      []SourceInput
	TemplateID   string
	ReferenceID  string
	Provider     string
	Model        string
	CategoryPath string
	Tags         []string
	Title        string
	Prompt       string
}

// PostMetadata 生成结果的结构化元数据
type PostMetadata struct {
	Title      string   `json:"title"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`

	// 来源标记：LLMAssisted 表示人机协作（反馈模式），
	// LLMGenerated 表示全自动生成（auto 模式）
	LLMAssisted  bool   `json:"llm_assisted"`
	LLMGenerated bool   `json:"llm_generated"`
	LLMModel     string `json:"llm_model,omitempty"`

	// NeedsDisclaimer 任一来源标记为真时必须展示生成声明
	NeedsDisclaimer bool `json:"needs_disclaimer"`
}

// WriteResult 写作结果
type WriteResult struct {
	Content   string
	Metadata  PostMetadata
	Images    []ImageInfo
	ImageData map[string][]byte
	Usage     map[string]int

	// DroppedSources 聚合阶段被跳过的来源（非致命警告）
	DroppedSources []DroppedSource
}
