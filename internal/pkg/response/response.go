package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/docchat/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers are already sent
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error writes an error response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.ErrorResponse{Error: http.StatusText(status), Message: message})
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// File writes a downloadable attachment
func File(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// StatusFor maps a domain error to an HTTP status and a short message
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrDocumentNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, entity.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "file too large"
	case errors.Is(err, entity.ErrInvalidExtension), errors.Is(err, entity.ErrInvalidFile):
		return http.StatusBadRequest, "invalid file"
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrEmptyQuestion),
		errors.Is(err, entity.ErrUnsupportedModel):
		return http.StatusBadRequest, "invalid parameter"
	case errors.Is(err, entity.ErrEmptyDocument), errors.Is(err, entity.ErrPromptTooLarge):
		return http.StatusUnprocessableEntity, "request cannot be processed"
	case errors.Is(err, entity.ErrConnection):
		return http.StatusGatewayTimeout, "upstream service unavailable"
	case errors.Is(err, entity.ErrServiceResponse), errors.Is(err, entity.ErrMalformedResponse),
		errors.Is(err, entity.ErrEmptyCompletion):
		return http.StatusBadGateway, "upstream service failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// FromError writes the error response matching err. A failed chat turn
// reports the stage it stopped at.
func FromError(w http.ResponseWriter, err error) {
	status, message := StatusFor(err)

	body := entity.ErrorResponse{Error: http.StatusText(status), Message: message}
	var turnErr *entity.TurnError
	if errors.As(err, &turnErr) {
		body.Stage = string(turnErr.Stage)
	}
	JSON(w, status, body)
}
