package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/pkg/formatter"
	"github.com/futig/docchat/internal/pkg/logger"
	"github.com/futig/docchat/internal/pkg/response"
	"github.com/futig/docchat/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ChatUsecase
	formatter *formatter.Factory
}

func NewHandler(usecase ChatUsecase, formatter *formatter.Factory) *Handler {
	return &Handler{
		usecase:   usecase,
		formatter: formatter,
	}
}

// ListModels handles GET /models
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.ModelsResponse{
		Models:  h.usecase.Models(),
		Default: h.usecase.DefaultModel(),
	})
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	info, err := h.usecase.CreateSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, info)
}

// GetSession handles GET /sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetSession")

	info, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, info)
}

// EndSession handles DELETE /sessions/{id}
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "EndSession")

	if err := h.usecase.EndSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// SubmitQuestion handles POST /sessions/{id}/questions
func (h *Handler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "SubmitQuestion")

	var req entity.SubmitQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validator.ValidateQuestion(&req); err != nil {
		ctxzap.Warn(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	answer, err := h.usecase.SubmitQuestion(ctx, sessionID, req.Question)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "question answered", zap.Int("citation_count", len(answer.Citations)))
	response.Success(w, answer)
}

// ResetConversation handles POST /sessions/{id}/reset
func (h *Handler) ResetConversation(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "ResetConversation")

	if err := h.usecase.ResetConversation(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// UpdateSettings handles PATCH /sessions/{id}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "UpdateSettings")

	var req entity.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.usecase.UpdateSettings(ctx, sessionID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, settings)
}

// GetTranscript handles GET /sessions/{id}/transcript?format=json|markdown|docx|pdf
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetTranscript")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		turns, err := h.usecase.GetTranscript(ctx, sessionID)
		if err != nil {
			h.handleUsecaseError(ctx, w, err)
			return
		}
		response.Success(w, entity.TranscriptResponse{SessionID: sessionID, Turns: turns})
		return
	}

	format := entity.ResultFormat(formatParam)
	if !format.IsValid() {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", formatParam))
		response.Error(w, http.StatusBadRequest, "format must be one of: json, markdown, docx, pdf")
		return
	}

	fmtr, err := h.formatter.Create(format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	turns, err := h.usecase.GetTranscript(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	data, err := fmtr.Format(formatter.Transcript{SessionID: sessionID, Turns: turns})
	if err != nil {
		ctxzap.Error(ctx, "failed to format transcript", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to format transcript")
		return
	}

	ctxzap.Info(ctx, "transcript exported", zap.String("format", string(format)))
	response.File(w, fmtr.ContentType(), fmt.Sprintf("transcript-%s%s", sessionID, fmtr.FileExtension()), data)
}

func (h *Handler) sessionContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", action),
	)
	return ctx, sessionID
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := response.StatusFor(err)
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.FromError(w, err)
}
