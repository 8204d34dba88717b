package portfolio

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("## Backend\n\nServices and *tooling*.")
	if !strings.Contains(html, "<h2") {
		t.Errorf("missing heading: %s", html)
	}
	if !strings.Contains(html, "<em>tooling</em>") {
		t.Errorf("missing emphasis: %s", html)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown("   \n"); got != "" {
		t.Errorf("RenderMarkdown(blank) = %q, want empty", got)
	}
}
