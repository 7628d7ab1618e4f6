package conversation

import (
	"fmt"
	"testing"

	"github.com/futig/docchat/internal/entity"
)

func userTurn(i int) entity.ChatTurn {
	return entity.ChatTurn{Role: entity.RoleUser, Content: fmt.Sprintf("q%d", i)}
}

func TestState_WindowReturnsMostRecentInOrder(t *testing.T) {
	s := New()
	for i := 0; i < 10; i++ {
		s.Append(userTurn(i))
	}

	got := s.Window(DefaultWindow)
	if len(got) != DefaultWindow {
		t.Fatalf("window length = %d, want %d", len(got), DefaultWindow)
	}
	for i, turn := range got {
		want := fmt.Sprintf("q%d", i+3)
		if turn.Content != want {
			t.Errorf("window[%d] = %q, want %q", i, turn.Content, want)
		}
	}
}

func TestState_WindowExcludesInFlightQuestion(t *testing.T) {
	s := New()
	s.Ask("first")
	if got := s.Window(DefaultWindow); len(got) != 0 {
		t.Fatalf("window during first question = %v, want empty", got)
	}

	s.Answer("first answer")
	s.Ask("second")

	got := s.Window(DefaultWindow)
	if len(got) != 2 {
		t.Fatalf("window length = %d, want 2", len(got))
	}
	if got[0].Content != "first" || got[1].Content != "first answer" {
		t.Errorf("unexpected window: %v", got)
	}
	for _, turn := range got {
		if turn.Content == "second" {
			t.Error("in-flight question must not appear in the window")
		}
	}
}

func TestState_WindowBoundWithInFlight(t *testing.T) {
	s := New()
	for i := 0; i < 9; i++ {
		s.Append(userTurn(i))
	}
	s.Ask("current")

	got := s.Window(3)
	want := []string{"q6", "q7", "q8"}
	if len(got) != len(want) {
		t.Fatalf("window length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Content != want[i] {
			t.Errorf("window[%d] = %q, want %q", i, got[i].Content, want[i])
		}
	}
}

func TestState_AbandonKeepsQuestion(t *testing.T) {
	s := New()
	s.Ask("unanswered")
	s.Abandon()

	if s.InFlight() {
		t.Error("state should not be in flight after abandon")
	}
	transcript := s.Transcript()
	if len(transcript) != 1 || transcript[0].Role != entity.RoleUser {
		t.Fatalf("transcript = %v, want the single user question", transcript)
	}
	if got := s.Window(DefaultWindow); len(got) != 1 {
		t.Errorf("abandoned question should be history for the next turn, got %v", got)
	}
}

func TestState_Reset(t *testing.T) {
	s := New()
	s.Ask("q")
	s.Answer("a")
	s.Reset()

	if s.Len() != 0 {
		t.Errorf("len after reset = %d, want 0", s.Len())
	}
	if len(s.Transcript()) != 0 {
		t.Error("transcript should be empty after reset")
	}
	if len(s.Window(DefaultWindow)) != 0 {
		t.Error("window should be empty after reset")
	}
}

func TestState_WindowIsCopy(t *testing.T) {
	s := New()
	s.Append(userTurn(0))

	w := s.Window(1)
	w[0].Content = "mutated"

	if s.Transcript()[0].Content != "q0" {
		t.Error("mutating the window must not change the stored turn")
	}
}

func TestState_WindowNonPositive(t *testing.T) {
	s := New()
	s.Append(userTurn(0))
	if got := s.Window(0); len(got) != 0 {
		t.Errorf("window(0) = %v, want empty", got)
	}
}
