package validator

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/entity"
)

var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".docx": true,
}

// DefaultCategory is assigned to documents uploaded without one
const DefaultCategory = "general"

var categoryPattern = regexp.MustCompile(`^[\p{L}\p{N}_\-. ]{1,64}$`)

// Validator validates document uploads
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateIngest checks the file name, size and category of an upload
func (v *Validator) ValidateIngest(req *entity.IngestRequest) error {
	if req.Filename == "" {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !AllowedExtensions[ext] {
		return fmt.Errorf("%w: %s (allowed: pdf, txt, md, docx)", entity.ErrInvalidExtension, ext)
	}

	if len(req.Content) == 0 {
		return fmt.Errorf("%w: file '%s' is empty", entity.ErrInvalidFile, req.Filename)
	}

	if v.cfg.MaxFileSize > 0 && int64(len(req.Content)) > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, req.Filename, len(req.Content), v.cfg.MaxFileSize)
	}

	return ValidateCategory(req.Category)
}

// ValidateCategory rejects the ALL sentinel and names outside the allowed charset
func ValidateCategory(category string) error {
	if category == entity.CategoryAll {
		return fmt.Errorf("%w: category '%s' is reserved", entity.ErrInvalidParameter, entity.CategoryAll)
	}
	if !categoryPattern.MatchString(category) {
		return fmt.Errorf("%w: category '%s'", entity.ErrInvalidParameter, category)
	}
	return nil
}

// NormalizeCategory trims category and falls back to DefaultCategory
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return category
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filepath.Clean("/" + filename))
	replacer := strings.NewReplacer(
		" ", "_",
		"'", "",
		"\"", "",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}

// SanitizeRelativePath sanitizes every segment of a slash separated path.
// Dot segments are resolved and never climb above the root.
func SanitizeRelativePath(rel string) string {
	cleaned := path.Clean("/" + filepath.ToSlash(rel))
	segments := make([]string, 0, strings.Count(cleaned, "/"))
	for _, segment := range strings.Split(cleaned, "/") {
		if segment == "" {
			continue
		}
		segments = append(segments, SanitizeFilename(segment))
	}
	return strings.Join(segments, "/")
}

// ValidateQuestion checks a submitted question
func ValidateQuestion(req *entity.SubmitQuestionRequest) error {
	if strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}
	return nil
}
