// Package render builds the text of bot replies.
package render

import (
	"fmt"
	"strings"

	"github.com/futig/docchat/internal/entity"
)

const (
	MsgWelcome = `👋 Hi! Ask me anything about the indexed documents.

I keep the last few turns of our chat in mind, so follow-up questions work too.
Send /help to see what else I can do.`

	MsgHelp = `🤖 Commands:

/start - start a new conversation
/reset - forget the conversation so far
/models - choose the answering model
/model <id> - switch to a model
/categories - choose a document category
/category <name> - search only one category (ALL for every document)
/history on|off - use previous turns when answering
/debug on|off - show retrieval details under answers
/settings - show current settings
/docs - list indexed documents
/transcript - download the conversation

Send a PDF, DOCX, TXT or MD file to add it to the knowledge base. Put the category in the caption.`

	MsgConversationReset = "🧹 Conversation cleared."
	MsgSelectModel       = "🧠 Choose a model:"
	MsgSelectCategory    = "📁 Choose a category:"
	MsgNoDocuments       = "📭 No documents have been ingested yet."
	MsgEmptyTranscript   = "📭 Nothing to export yet."
	MsgIngesting         = "⏳ Reading the document..."
	MsgUnknownCommand    = "❌ Unknown command. Send /help"
	MsgUsageModel        = "Usage: /model <id>. Send /models to see the list."
	MsgUsageCategory     = "Usage: /category <name>. Send /categories to see the list."
	MsgUsageHistory      = "Usage: /history on|off"
	MsgUsageDebug        = "Usage: /debug on|off"

	ErrGeneric          = "❌ Something went wrong. Please try again."
	ErrSessionExpired   = "⌛ The conversation expired. Send /start to begin a new one."
	ErrServiceDown      = "🔌 The search or answering service is not reachable right now. Please try again later."
	ErrServiceFailed    = "⚠️ The search or answering service returned an unexpected reply. Please try again."
	ErrPromptTooLarge   = "📏 The question and its context are too large for this model. Try /reset or a model with a larger window."
	ErrInvalidParameter = "❌ Invalid value."
	ErrUnsupportedFile  = "❌ Only PDF, DOCX, TXT and MD files are supported."
	ErrFileTooLarge     = "❌ The file is too large."
	ErrEmptyDocument    = "❌ No text could be extracted from the file."
)

// Answer renders an answer followed by its sources
func Answer(resp *entity.SubmitQuestionResponse) string {
	var b strings.Builder
	b.WriteString(resp.Answer)

	if len(resp.Citations) > 0 {
		b.WriteString("\n\n📚 Sources:")
		for _, c := range resp.Citations {
			b.WriteString("\n• ")
			b.WriteString(c.RelativePath)
			if c.URL != "" {
				b.WriteString("\n  ")
				b.WriteString(c.URL)
			}
		}
	}

	if resp.Debug != nil {
		b.WriteString("\n\n")
		b.WriteString(Debug(resp.Debug))
	}

	return b.String()
}

// Debug renders the intermediate values of a turn
func Debug(d *entity.TurnDebug) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 search query: %s", d.SearchQuery)
	if d.Reformulated {
		b.WriteString(" (reformulated)")
	}
	fmt.Fprintf(&b, "\nhistory turns: %d used, %d dropped", d.HistoryUsed, d.HistoryDrops)
	fmt.Fprintf(&b, "\nprompt tokens: ~%d, took %dms", d.PromptTokens, d.ElapsedMillis)
	for i, c := range d.Chunks {
		fmt.Fprintf(&b, "\n[%d] %s (%s): %s", i+1, c.RelativePath, c.Category, preview(c.ChunkText, 120))
	}
	return b.String()
}

// Settings renders the session settings
func Settings(s *entity.SessionSettings) string {
	return fmt.Sprintf("⚙️ Settings\nmodel: %s\ncategory: %s\nhistory: %s\ndebug: %s",
		s.Model, s.Category, onOff(s.HistoryEnabled), onOff(s.Debug))
}

// Documents renders the ingested document list
func Documents(docs []*entity.Document) string {
	if len(docs) == 0 {
		return MsgNoDocuments
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📄 Documents (%d):", len(docs))
	for _, d := range docs {
		fmt.Fprintf(&b, "\n• %s [%s], %d chunks", d.RelativePath, d.Category, d.ChunkCount)
	}
	return b.String()
}

// Ingested confirms an ingested document
func Ingested(res *entity.IngestResult) string {
	return fmt.Sprintf("✅ %s added to %s (%d chunks).", res.RelativePath, res.Category, res.ChunkCount)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func preview(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
