package handlers

import (
	"context"
	"errors"

	"github.com/futig/docchat/internal/entity"
)

// ensureSession returns the chat session, opening a fresh one when it expired
func ensureSession(ctx context.Context, uc ChatUsecase, chatID int64) (*entity.SessionInfo, error) {
	id := SessionID(chatID)

	info, err := uc.GetSession(ctx, id)
	if errors.Is(err, entity.ErrSessionNotFound) {
		return uc.CreateSessionWithID(ctx, id)
	}
	return info, err
}
