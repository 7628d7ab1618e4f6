// Package formatter renders chat transcripts into downloadable documents.
package formatter

import (
	"fmt"

	"github.com/futig/docchat/internal/entity"
)

const baseTitle = "Chat transcript"

// Transcript is the exported part of a session
type Transcript struct {
	SessionID string
	Turns     []entity.ChatTurn
}

type Formatter interface {
	Format(t Transcript) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatJSON:
		return NewJSONFormatter(), nil
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format: %s", entity.ErrInvalidFormat, format)
	}
}

func roleLabel(role entity.Role) string {
	switch role {
	case entity.RoleUser:
		return "User"
	case entity.RoleAssistant:
		return "Assistant"
	default:
		return string(role)
	}
}
