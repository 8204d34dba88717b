package chat

import (
	"strings"
	"testing"
)

func TestBuildPromptIncludesContextAndQuery(t *testing.T) {
	prompt := BuildPrompt("Ada Example", "recruiter",
		[]string{"I have five years of Go experience."},
		"Do you know Go?")

	for _, want := range []string{
		"You are Ada Example",
		"recruiter",
		"I have five years of Go experience.",
		"Q: Do you know Go?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if !strings.HasSuffix(prompt, "A:") {
		t.Error("prompt must end with the answer cue")
	}
}

func TestBuildPromptDefaults(t *testing.T) {
	prompt := BuildPrompt("", "", nil, "hello")
	if !strings.Contains(prompt, "the site owner") {
		t.Error("missing owner fallback")
	}
	if !strings.Contains(prompt, "general") {
		t.Error("missing style fallback")
	}
	if !strings.Contains(prompt, "(no matching CV sections)") {
		t.Error("missing empty-context marker")
	}
}
