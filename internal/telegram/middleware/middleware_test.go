package middleware

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type countingSender struct{ sent int }

func (s *countingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent++
	return tgbotapi.Message{}, nil
}

func textUpdate(userID int64) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: "hi",
	}}
}

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	sender := &countingSender{}
	rl := NewRateLimiterMiddleware(60, 2, zap.NewNop(), sender)
	defer rl.Close()

	current := time.Unix(1000, 0)
	rl.now = func() time.Time { return current }

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	for i := 0; i < 4; i++ {
		rl.Handle(textUpdate(1), next)
	}
	if handled != 2 {
		t.Fatalf("handled %d updates within burst, want 2", handled)
	}
	if sender.sent != 1 {
		t.Errorf("warnings sent = %d, want 1", sender.sent)
	}

	rl.Handle(textUpdate(2), next)
	if handled != 3 {
		t.Errorf("other users must have their own bucket")
	}

	current = current.Add(time.Second)
	rl.Handle(textUpdate(1), next)
	if handled != 4 {
		t.Errorf("bucket did not refill")
	}
}

func TestRecovery_NotifiesChat(t *testing.T) {
	sender := &countingSender{}
	m := NewRecoveryMiddleware(zap.NewNop(), sender)

	m.Handle(textUpdate(5), func(tgbotapi.Update) { panic("boom") })

	if sender.sent != 1 {
		t.Errorf("sent = %d, want 1", sender.sent)
	}
}
