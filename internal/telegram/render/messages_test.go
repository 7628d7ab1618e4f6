package render

import (
	"strings"
	"testing"

	"github.com/futig/docchat/internal/entity"
)

func TestAnswer_ListsSourcesInOrder(t *testing.T) {
	got := Answer(&entity.SubmitQuestionResponse{
		Answer: "Finance approves invoices.",
		Citations: []entity.Citation{
			{RelativePath: "finance/invoices.pdf", URL: "https://files/1"},
			{RelativePath: "finance/policy.md"},
		},
	})

	first := strings.Index(got, "finance/invoices.pdf")
	second := strings.Index(got, "finance/policy.md")
	if !strings.HasPrefix(got, "Finance approves invoices.") || first < 0 || second < first {
		t.Errorf("unexpected answer:\n%s", got)
	}
	if !strings.Contains(got, "https://files/1") {
		t.Errorf("missing link:\n%s", got)
	}
}

func TestAnswer_NoSources(t *testing.T) {
	got := Answer(&entity.SubmitQuestionResponse{Answer: "I don't know."})
	if got != "I don't know." {
		t.Errorf("got %q", got)
	}
}

func TestDebug(t *testing.T) {
	got := Debug(&entity.TurnDebug{
		SearchQuery:  "invoice approval",
		Reformulated: true,
		Chunks:       []entity.DocumentChunk{{ChunkText: "a\n  b", RelativePath: "x.md", Category: "hr"}},
	})
	if !strings.Contains(got, "(reformulated)") || !strings.Contains(got, "[1] x.md (hr): a b") {
		t.Errorf("got:\n%s", got)
	}
}
