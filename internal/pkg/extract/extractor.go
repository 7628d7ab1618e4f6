// Package extract turns uploaded documents into plain text.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/futig/docchat/internal/entity"
)

// SupportedExtensions lists the document types accepted for ingestion
var SupportedExtensions = []string{".pdf", ".txt", ".md", ".docx"}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text of content, picking the decoder by filename extension
func (e *Extractor) Extract(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".txt", ".md":
		text = extractPlain(content)
	default:
		return "", fmt.Errorf("%w: %s", entity.ErrInvalidExtension, ext)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", entity.ErrInvalidFile, filename, err)
	}

	return text, nil
}

func extractPlain(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "�")
}
