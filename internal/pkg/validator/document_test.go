package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/futig/docchat/internal/config"
	"github.com/futig/docchat/internal/entity"
)

func TestValidateIngest(t *testing.T) {
	v := NewFileValidator(config.FileUploadConfig{MaxFileSize: 10})

	tests := []struct {
		name string
		req  entity.IngestRequest
		want error
	}{
		{"ok", entity.IngestRequest{Filename: "a.pdf", Category: "finance", Content: []byte("x")}, nil},
		{"upper ext", entity.IngestRequest{Filename: "A.DOCX", Category: "hr", Content: []byte("x")}, nil},
		{"no name", entity.IngestRequest{Category: "hr", Content: []byte("x")}, entity.ErrMissingField},
		{"bad ext", entity.IngestRequest{Filename: "a.exe", Category: "hr", Content: []byte("x")}, entity.ErrInvalidExtension},
		{"empty", entity.IngestRequest{Filename: "a.txt", Category: "hr"}, entity.ErrInvalidFile},
		{"too large", entity.IngestRequest{Filename: "a.txt", Category: "hr", Content: []byte(strings.Repeat("x", 11))}, entity.ErrFileTooLarge},
		{"reserved category", entity.IngestRequest{Filename: "a.txt", Category: "ALL", Content: []byte("x")}, entity.ErrInvalidParameter},
		{"bad category", entity.IngestRequest{Filename: "a.txt", Category: "a/b", Content: []byte("x")}, entity.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateIngest(&tt.req)
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"My Report (final).pdf": "My_Report_final.pdf",
		"../../etc/passwd.txt":  "passwd.txt",
		"it's.md":               "its.md",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeRelativePath(t *testing.T) {
	tests := map[string]string{
		"finance/policy.txt":        "finance/policy.txt",
		"hr/Leave Policy (v2).md":   "hr/Leave_Policy_v2.md",
		"../../hr/../finance/a.txt": "finance/a.txt",
		"plain.pdf":                 "plain.pdf",
		"finance//q1/./report.docx": "finance/q1/report.docx",
	}
	for in, want := range tests {
		if got := SanitizeRelativePath(in); got != want {
			t.Errorf("SanitizeRelativePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("  "); got != DefaultCategory {
		t.Errorf("got %q", got)
	}
	if got := NormalizeCategory(" hr "); got != "hr" {
		t.Errorf("got %q", got)
	}
}
