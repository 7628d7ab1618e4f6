package keyboard

import (
	"errors"
	"strings"
	"testing"

	"github.com/futig/docchat/internal/entity"
)

func TestParseCallback(t *testing.T) {
	got, err := ParseCallback("cat:hr:policies")
	if err != nil {
		t.Fatal(err)
	}
	if got.Action != "cat" || got.Value != "hr:policies" {
		t.Errorf("got %+v", got)
	}

	for _, bad := range []string{"", "model", ":x"} {
		if _, err := ParseCallback(bad); err == nil {
			t.Errorf("ParseCallback(%q) expected error", bad)
		}
	}

	if _, err := ParseCallback("vote:yes"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("ParseCallback(vote:yes) err = %v, want ErrUnknownAction", err)
	}
}

func TestModelKeyboard_MarksCurrent(t *testing.T) {
	models := []entity.ModelSpec{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	kb := NewBuilder().ModelKeyboard(models, "b")

	if len(kb.InlineKeyboard) != 2 || len(kb.InlineKeyboard[0]) != 2 || len(kb.InlineKeyboard[1]) != 1 {
		t.Fatalf("unexpected layout: %+v", kb.InlineKeyboard)
	}
	second := kb.InlineKeyboard[0][1]
	if !strings.HasPrefix(second.Text, "✅") || *second.CallbackData != "model:b" {
		t.Errorf("button = %q / %q", second.Text, *second.CallbackData)
	}
}

func TestCategoryKeyboard_SkipsOversized(t *testing.T) {
	kb := NewBuilder().CategoryKeyboard([]string{"ALL", strings.Repeat("x", 70)}, "ALL")
	if len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 1 {
		t.Fatalf("unexpected layout: %+v", kb.InlineKeyboard)
	}
}
