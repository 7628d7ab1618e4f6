package document

import (
	"context"
	"io"
	"net/http"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/pkg/logger"
	"github.com/futig/docchat/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase DocumentUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase DocumentUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// UploadDocument handles POST /documents (multipart: file, category)
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocument")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Warn(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid form data or size too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ctxzap.Warn(ctx, "missing file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read uploaded file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}

	req := entity.IngestRequest{
		Filename: header.Filename,
		Category: r.FormValue("category"),
		Content:  content,
	}

	ctxzap.Info(ctx, "ingesting document",
		zap.String("filename", req.Filename),
		zap.Int("size_bytes", len(content)),
	)

	result, err := h.usecase.Ingest(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, result)
}

// ListDocuments handles GET /documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	docs, err := h.usecase.ListDocuments(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	if docs == nil {
		docs = []*entity.Document{}
	}

	response.Success(w, entity.DocumentsResponse{Documents: docs})
}

// DeleteDocument handles DELETE /documents/{path}; path may span directories
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	ctx := logger.AddFields(r.Context(),
		zap.String("relative_path", path),
		zap.String("action", "DeleteDocument"),
	)

	if err := h.usecase.DeleteDocument(ctx, path); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// ListCategories handles GET /categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListCategories")

	categories, err := h.usecase.ListCategories(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.CategoriesResponse{Categories: categories})
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
