package entity

// ResultFormat is a transcript export format
type ResultFormat string

const (
	FormatJSON     ResultFormat = "json"
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

type SubmitQuestionRequest struct {
	Question string `json:"question"`
}

type SubmitQuestionResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Debug     *TurnDebug `json:"debug,omitempty"`
}

// UpdateSettingsRequest changes only the fields that are set
type UpdateSettingsRequest struct {
	Model          *string `json:"model,omitempty"`
	Category       *string `json:"category,omitempty"`
	HistoryEnabled *bool   `json:"history_enabled,omitempty"`
	Debug          *bool   `json:"debug,omitempty"`
}

type TranscriptResponse struct {
	SessionID string     `json:"session_id"`
	Turns     []ChatTurn `json:"turns"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type DocumentsResponse struct {
	Documents []*Document `json:"documents"`
}

type ModelsResponse struct {
	Models  []ModelSpec `json:"models"`
	Default ModelID     `json:"default"`
}
