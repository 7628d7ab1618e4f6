package chat

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/futig/docchat/internal/entity"
)

const answerInstruction = `You are an expert chat assistance that extracts information from the CONTEXT provided
between <context> and </context> tags.
You offer a chat experience considering the information included in the CHAT HISTORY
provided between <chat_history> and </chat_history> tags.
When answering the question contained between <question> and </question> tags
be concise and do not hallucinate.
If you don't have the information just say so.

Do not mention the CONTEXT used in your answer.
Do not mention the CHAT HISTORY used in your answer.

Only answer the question if you can extract it from the CONTEXT provided.
`

// Prompt is an assembled answer prompt. Citations holds each distinct
// relative_path of the context in rank order.
type Prompt struct {
	Text           string
	Citations      []string
	Chunks         []entity.DocumentChunk
	HistoryUsed    int
	HistoryDropped int
	Tokens         int
}

// Assembler builds answer prompts with delimited history, context and
// question sections
type Assembler struct{}

// NoBudget disables the prompt size cap
const NoBudget = math.MaxInt

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble renders the prompt within budget tokens. While the prompt is over
// budget the oldest history turns are dropped one at a time; the context is
// never cut. ErrPromptTooLarge is returned if even the history-free prompt
// does not fit, or if budget is not positive. Pass NoBudget to skip the cap.
// A result without a relative_path is ErrMalformedResponse.
func (a *Assembler) Assemble(history []entity.ChatTurn, retrieved *Retrieved, question string, budget int) (*Prompt, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: no room left for the prompt (budget %d tokens)", entity.ErrPromptTooLarge, budget)
	}

	chunks, citations, err := parseContext(retrieved)
	if err != nil {
		return nil, err
	}

	contextJSON, err := json.Marshal(struct {
		Results []json.RawMessage `json:"results"`
	}{Results: retrieved.Results})
	if err != nil {
		return nil, fmt.Errorf("%w: serialize context: %v", entity.ErrMalformedResponse, err)
	}

	for dropped := 0; dropped <= len(history); dropped++ {
		kept := history[dropped:]
		text, err := renderAnswerPrompt(kept, string(contextJSON), question)
		if err != nil {
			return nil, err
		}

		tokens := estimateTokens(text)
		if tokens > budget {
			continue
		}

		return &Prompt{
			Text:           text,
			Citations:      citations,
			Chunks:         chunks,
			HistoryUsed:    len(kept),
			HistoryDropped: dropped,
			Tokens:         tokens,
		}, nil
	}

	return nil, fmt.Errorf("%w: context and question need more than %d tokens", entity.ErrPromptTooLarge, budget)
}

func parseContext(retrieved *Retrieved) ([]entity.DocumentChunk, []string, error) {
	if retrieved == nil {
		return nil, nil, fmt.Errorf("%w: no retrieval result", entity.ErrMalformedResponse)
	}

	chunks := make([]entity.DocumentChunk, 0, len(retrieved.Results))
	citations := make([]string, 0, len(retrieved.Results))
	seen := make(map[string]struct{}, len(retrieved.Results))

	for i, raw := range retrieved.Results {
		var chunk entity.DocumentChunk
		if err := json.Unmarshal(raw, &chunk); err != nil {
			return nil, nil, fmt.Errorf("%w: result %d: %v", entity.ErrMalformedResponse, i, err)
		}
		if chunk.RelativePath == "" {
			return nil, nil, fmt.Errorf("%w: result %d has no relative_path", entity.ErrMalformedResponse, i)
		}

		chunks = append(chunks, chunk)
		if _, ok := seen[chunk.RelativePath]; !ok {
			seen[chunk.RelativePath] = struct{}{}
			citations = append(citations, chunk.RelativePath)
		}
	}

	return chunks, citations, nil
}

func renderAnswerPrompt(history []entity.ChatTurn, contextJSON, question string) (string, error) {
	var b strings.Builder
	b.WriteString(answerInstruction)

	b.WriteString("\n<chat_history>\n")
	if len(history) > 0 {
		historyJSON, err := json.Marshal(history)
		if err != nil {
			return "", fmt.Errorf("serialize chat history: %w", err)
		}
		b.Write(historyJSON)
		b.WriteString("\n")
	}
	b.WriteString("</chat_history>\n<context>\n")
	b.WriteString(contextJSON)
	b.WriteString("\n</context>\n<question>\n")
	b.WriteString(question)
	b.WriteString("\n</question>\nAnswer:\n")

	return b.String(), nil
}
