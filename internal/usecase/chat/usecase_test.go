package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/futig/docchat/internal/entity"
)

type stubResolver struct{}

func (stubResolver) ResolveCitations(ctx context.Context, paths []string) []entity.Citation {
	out := make([]entity.Citation, 0, len(paths))
	for _, p := range paths {
		out = append(out, entity.Citation{RelativePath: p, URL: "https://files/" + p})
	}
	return out
}

func newTestUsecase(search SearchBackend, llm CompletionService) *ChatUsecase {
	return NewUsecase(
		newMemoryStore(),
		newTestOrchestrator(search, llm),
		stubResolver{},
		entity.DefaultModelCatalog(),
		entity.DefaultSessionSettings(),
	)
}

func TestUsecase_SubmitQuestionResolvesCitations(t *testing.T) {
	uc := newTestUsecase(&fakeSearch{response: twoChunkResponse}, &fakeLLM{answer: "ok"})
	ctx := context.Background()

	info, err := uc.CreateSession(ctx)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := uc.SubmitQuestion(ctx, info.ID, "invoice?")
	if err != nil {
		t.Fatalf("SubmitQuestion: %v", err)
	}
	if len(resp.Citations) != 1 || resp.Citations[0].URL != "https://files/a.pdf" {
		t.Errorf("citations = %+v", resp.Citations)
	}

	transcript, err := uc.GetTranscript(ctx, info.ID)
	if err != nil || len(transcript) != 2 {
		t.Fatalf("transcript = %+v, %v", transcript, err)
	}

	if err := uc.ResetConversation(ctx, info.ID); err != nil {
		t.Fatal(err)
	}
	transcript, _ = uc.GetTranscript(ctx, info.ID)
	if len(transcript) != 0 {
		t.Errorf("transcript after reset = %+v", transcript)
	}
}

func TestUsecase_UnknownSession(t *testing.T) {
	uc := newTestUsecase(&fakeSearch{}, &fakeLLM{})

	if _, err := uc.SubmitQuestion(context.Background(), "missing", "q"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if err := uc.EndSession(context.Background(), "missing"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestUsecase_UpdateSettings(t *testing.T) {
	uc := newTestUsecase(&fakeSearch{}, &fakeLLM{})
	ctx := context.Background()
	info, _ := uc.CreateSession(ctx)

	settings, err := uc.SetModel(ctx, info.ID, "llama3-70b")
	if err != nil || settings.Model != entity.ModelLlama3Large {
		t.Fatalf("SetModel = %+v, %v", settings, err)
	}

	if _, err := uc.SetModel(ctx, info.ID, "gpt-x"); !errors.Is(err, entity.ErrUnsupportedModel) {
		t.Errorf("expected ErrUnsupportedModel, got %v", err)
	}

	// an invalid field rejects the whole update
	model, category := "nope", "hr"
	if _, err := uc.UpdateSettings(ctx, info.ID, &entity.UpdateSettingsRequest{Model: &model, Category: &category}); err == nil {
		t.Fatal("expected error")
	}
	got, _ := uc.GetSession(ctx, info.ID)
	if got.Settings.Category != entity.CategoryAll || got.Settings.Model != entity.ModelLlama3Large {
		t.Errorf("settings changed by a rejected update: %+v", got.Settings)
	}

	settings, _ = uc.SetCategoryFilter(ctx, info.ID, " ")
	if settings.Category != entity.CategoryAll {
		t.Errorf("blank category = %q, want ALL", settings.Category)
	}

	settings, _ = uc.SetHistoryEnabled(ctx, info.ID, false)
	if settings.HistoryEnabled {
		t.Error("history should be disabled")
	}
}

func TestUsecase_SessionsAreIsolated(t *testing.T) {
	uc := newTestUsecase(&fakeSearch{response: twoChunkResponse}, &fakeLLM{answer: "ok"})
	ctx := context.Background()

	a, _ := uc.CreateSession(ctx)
	b, _ := uc.CreateSession(ctx)

	uc.SetCategoryFilter(ctx, a.ID, "finance")
	uc.SubmitQuestion(ctx, a.ID, "q")

	infoB, _ := uc.GetSession(ctx, b.ID)
	if infoB.Settings.Category != entity.CategoryAll || infoB.Turns != 0 {
		t.Errorf("session b affected by session a: %+v", infoB)
	}
}
