package keyboard

import (
	"github.com/futig/docchat/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// callback data is capped at 64 bytes by Telegram
	maxCallbackData = 64
	buttonsPerRow   = 2
)

// Builder creates inline keyboards
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// ModelKeyboard lists the models, marking the current one
func (b *Builder) ModelKeyboard(models []entity.ModelSpec, current entity.ModelID) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(models))
	for _, m := range models {
		label := string(m.ID)
		if m.ID == current {
			label = "✅ " + label
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionModel, string(m.ID))))
	}
	return grid(buttons)
}

// CategoryKeyboard lists the categories, marking the current one.
// Categories too long for callback data are left out.
func (b *Builder) CategoryKeyboard(categories []string, current string) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, c := range categories {
		data := EncodeCallback(ActionCategory, c)
		if len(data) > maxCallbackData {
			continue
		}
		label := c
		if c == current {
			label = "✅ " + label
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, data))
	}
	return grid(buttons)
}

func grid(buttons []tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for len(buttons) > 0 {
		n := buttonsPerRow
		if len(buttons) < n {
			n = len(buttons)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons[:n]...))
		buttons = buttons[n:]
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
