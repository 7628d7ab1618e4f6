package formatter

import (
	"encoding/json"

	"github.com/futig/docchat/internal/entity"
)

const (
	jsonContentType   = "application/json"
	jsonFileExtension = ".json"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (jf *JSONFormatter) Format(t Transcript) ([]byte, error) {
	turns := t.Turns
	if turns == nil {
		turns = []entity.ChatTurn{}
	}
	return json.MarshalIndent(entity.TranscriptResponse{
		SessionID: t.SessionID,
		Turns:     turns,
	}, "", "  ")
}

func (jf *JSONFormatter) ContentType() string {
	return jsonContentType
}

func (jf *JSONFormatter) FileExtension() string {
	return jsonFileExtension
}
