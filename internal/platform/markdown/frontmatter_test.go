package markdown_test

import (
	"testing"

	"graphsearch/internal/platform/markdown"
)

func TestSplitFrontmatter(t *testing.T) {
	t.Parallel()
	meta, body, err := markdown.SplitFrontmatter("---\ntitle: Paris\ntags: [city]\n---\n# Heading\ntext\n")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if markdown.Title(meta) != "Paris" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if body != "# Heading\ntext\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSplitFrontmatterWithoutBlock(t *testing.T) {
	t.Parallel()
	meta, body, err := markdown.SplitFrontmatter("plain text")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(meta) != 0 || body != "plain text" {
		t.Fatalf("unexpected split: %+v %q", meta, body)
	}
}

func TestSplitFrontmatterMissingClose(t *testing.T) {
	t.Parallel()
	if _, _, err := markdown.SplitFrontmatter("---\ntitle: x\nbody"); err == nil {
		t.Fatalf("expected error")
	}
}
