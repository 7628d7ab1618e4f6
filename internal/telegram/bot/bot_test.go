package bot

import (
	"testing"

	"github.com/futig/docchat/internal/telegram/handlers"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func message(text string, entities ...tgbotapi.MessageEntity) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: 10},
		Chat:      &tgbotapi.Chat{ID: 20},
		Text:      text,
		Entities:  entities,
	}}
}

func TestNormalize(t *testing.T) {
	cmd := message("/model gemma-7b", tgbotapi.MessageEntity{Type: "bot_command", Offset: 0, Length: 6})
	msg, kind, ok := normalize(cmd)
	if !ok || kind != handlers.KindCommand || msg.Command != "model" || msg.CommandArgs != "gemma-7b" {
		t.Errorf("command: %+v %s %v", msg, kind, ok)
	}

	msg, kind, ok = normalize(message("what is the leave policy?"))
	if !ok || kind != handlers.KindQuestion || msg.ChatID != 20 || msg.UserID != 10 {
		t.Errorf("question: %+v %s %v", msg, kind, ok)
	}

	if _, _, ok := normalize(message("   ")); ok {
		t.Error("blank text must be ignored")
	}

	doc := message("")
	doc.Message.Document = &tgbotapi.Document{FileID: "f", FileName: "a.pdf"}
	doc.Message.Caption = "finance"
	msg, kind, ok = normalize(doc)
	if !ok || kind != handlers.KindDocument || msg.Text != "finance" {
		t.Errorf("document: %+v %s %v", msg, kind, ok)
	}

	cb := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 10},
		Message: &tgbotapi.Message{MessageID: 2, Chat: &tgbotapi.Chat{ID: 20}},
		Data:    "cat:hr",
	}}
	msg, kind, ok = normalize(cb)
	if !ok || kind != handlers.KindCallback || msg.CallbackData != "cat:hr" || msg.ChatID != 20 {
		t.Errorf("callback: %+v %s %v", msg, kind, ok)
	}
}
