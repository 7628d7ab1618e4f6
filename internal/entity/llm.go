package entity

import "sort"

// ModelID identifies a completion model
type ModelID string

const (
	ModelMixtral      ModelID = "mixtral-8x7b"
	ModelArctic       ModelID = "snowflake-arctic"
	ModelMistralLarge ModelID = "mistral-large"
	ModelLlama3Small  ModelID = "llama3-8b"
	ModelLlama3Large  ModelID = "llama3-70b"
	ModelRekaFlash    ModelID = "reka-flash"
	ModelMistralSmall ModelID = "mistral-7b"
	ModelLlama2Chat   ModelID = "llama2-70b-chat"
	ModelGemma        ModelID = "gemma-7b"

	DefaultModel = ModelMixtral
)

// ModelSpec describes a supported completion model
type ModelSpec struct {
	ID            ModelID `json:"id" yaml:"id"`
	ContextWindow int     `json:"context_window" yaml:"context_window"` // tokens
}

// ModelCatalog is the fixed set of supported models
type ModelCatalog map[ModelID]ModelSpec

// DefaultModelCatalog returns the built-in model set
func DefaultModelCatalog() ModelCatalog {
	specs := []ModelSpec{
		{ID: ModelMixtral, ContextWindow: 32000},
		{ID: ModelArctic, ContextWindow: 4096},
		{ID: ModelMistralLarge, ContextWindow: 32000},
		{ID: ModelLlama3Small, ContextWindow: 8000},
		{ID: ModelLlama3Large, ContextWindow: 8000},
		{ID: ModelRekaFlash, ContextWindow: 100000},
		{ID: ModelMistralSmall, ContextWindow: 32000},
		{ID: ModelLlama2Chat, ContextWindow: 4096},
		{ID: ModelGemma, ContextWindow: 8000},
	}

	catalog := make(ModelCatalog, len(specs))
	for _, s := range specs {
		catalog[s.ID] = s
	}
	return catalog
}

// Lookup returns the spec of a supported model
func (c ModelCatalog) Lookup(id ModelID) (ModelSpec, bool) {
	spec, ok := c[id]
	return spec, ok
}

// IDs returns the supported model identifiers in lexical order
func (c ModelCatalog) IDs() []ModelID {
	ids := make([]ModelID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MinContextWindow returns the smallest context window in the catalog, 0 when empty
func (c ModelCatalog) MinContextWindow() int {
	lowest := 0
	for _, spec := range c {
		if lowest == 0 || spec.ContextWindow < lowest {
			lowest = spec.ContextWindow
		}
	}
	return lowest
}

// CompletionRequest is the wire request of the completion service
type CompletionRequest struct {
	Model  ModelID `json:"model"`
	Prompt string  `json:"prompt"`
}

// CompletionResponse is the wire response of the completion service
type CompletionResponse struct {
	Result string `json:"result"`
}
