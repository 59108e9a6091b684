package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"rsc.io/pdf"

	"graphsearch/internal/modules/query/domain"
	queryout "graphsearch/internal/modules/query/port/out"
	apperrors "graphsearch/internal/platform/errors"
	"graphsearch/internal/platform/markdown"
)

// LocalDocumentLoader reads documents from disk and converts them to the plain
// UTF-8 text the search service ingests.
type LocalDocumentLoader struct{}

func NewLocalDocumentLoader() queryout.DocumentLoader {
	return &LocalDocumentLoader{}
}

func (l *LocalDocumentLoader) Load(_ context.Context, path string) (domain.Document, error) {
	name := filepath.Base(path)
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = readPDFText(path)
	case ".md", ".markdown":
		text, err = readMarkdownBody(path)
	default:
		text, err = readPlainText(path)
	}
	if err != nil {
		return domain.Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, fmt.Errorf("%w: %s has no text", apperrors.ErrInvalidInput, name)
	}
	return domain.Document{Filename: name, Content: []byte(text)}, nil
}

func readPlainText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %s is not UTF-8 text", apperrors.ErrUnsupportedDocument, filepath.Base(path))
	}
	return string(b), nil
}

func readMarkdownBody(path string) (string, error) {
	content, err := readPlainText(path)
	if err != nil {
		return "", err
	}
	meta, body, err := markdown.SplitFrontmatter(content)
	if err != nil {
		return "", fmt.Errorf("read markdown %s: %w", filepath.Base(path), err)
	}
	if title := markdown.Title(meta); title != "" {
		body = title + "\n\n" + body
	}
	return body, nil
}

func readPDFText(path string) (string, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		parts := make([]string, 0, len(content.Text))
		for _, text := range content.Text {
			if strings.TrimSpace(text.S) == "" {
				continue
			}
			parts = append(parts, text.S)
		}
		if len(parts) > 0 {
			pages = append(pages, strings.Join(parts, " "))
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
