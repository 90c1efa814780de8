// Package loader turns uploaded files into plain text for graph
// construction. Format support is dispatched on the file extension.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kgraphrag/backend/pkg/common"
)

// SupportedExtensions lists the file extensions the loader accepts,
// lowercase with leading dot.
func SupportedExtensions() []string {
	return []string{".txt", ".md", ".pdf", ".docx"}
}

// Supported reports whether the filename has an extension the loader
// can process.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions() {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractText extracts the plain text content of an uploaded file.
//
// Plain text and markdown are passed through after UTF-8 validation, PDF
// goes through pdftotext, and DOCX is unpacked from its XML body. Files
// with any other extension yield common.ErrUnsupportedFormat; files whose
// extracted text is empty or whitespace yield common.ErrEmptyDocument.
func ExtractText(ctx context.Context, content []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text []byte
		err  error
	)
	switch ext {
	case ".txt", ".md":
		text, err = parsePlainText(content)
	case ".pdf":
		text, err = parsePDF(ctx, content)
	case ".docx":
		text, err = parseDocx(content)
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", err
	}

	result := strings.TrimSpace(string(text))
	if result == "" {
		return "", fmt.Errorf("%w: %s", common.ErrEmptyDocument, filename)
	}
	return result, nil
}

func parsePlainText(content []byte) ([]byte, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("file is not valid UTF-8 text")
	}
	return content, nil
}
