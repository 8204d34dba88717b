package chat

import "testing"

func TestDefaultPolicyAcceptsCleanAnswers(t *testing.T) {
	policy := NewDefaultPolicy(nil)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "I build backend services in Go.", "I build backend services in Go."},
		{"yes answer", "Yes, I have five years of experience.", "Yes, I have five years of experience."},
		{"no answer", "No, I have not worked with Rust professionally.", "No, I have not worked with Rust professionally."},
		{"contraction", "I've led a team of four engineers.", "I've led a team of four engineers."},
		{"prefix stripped", "Answer: I specialize in distributed systems.", "I specialize in distributed systems."},
		{"stacked prefixes", "Assistant: A: I enjoy mentoring.", "I enjoy mentoring."},
		{"whitespace collapsed", "I  work\n\nremotely   from Berlin.", "I work remotely from Berlin."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := policy.Clean(tt.raw)
			if !ok {
				t.Fatalf("Clean(%q) rejected", tt.raw)
			}
			if got != tt.want {
				t.Fatalf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDefaultPolicyRejections(t *testing.T) {
	policy := NewDefaultPolicy([]string{"Jon Deo"})

	tests := []struct {
		name string
		raw  string
	}{
		{"denylist stock phrase", "I am sorry, but as an AI I cannot answer that."},
		{"denylist jargon", "I leverage quantum blockchain synergies daily."},
		{"denylist url", "I keep my CV at https://example.com/cv."},
		{"extra denylist entry", "I am jon deo, a software engineer."},
		{"too short", "I agree."},
		{"wrong leading token", "Sure, I can help with that."},
		{"question echo", "What would you like to know?"},
		{"empty", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := policy.Clean(tt.raw); ok {
				t.Fatalf("Clean(%q) = %q, want rejection", tt.raw, got)
			}
		})
	}
}

func TestDefaultPolicyLeadingTokenIsCaseInsensitive(t *testing.T) {
	policy := NewDefaultPolicy(nil)
	for _, raw := range []string{
		"yes, I enjoy pair programming sessions.",
		"NO, I have never missed a release deadline.",
		"i prefer boring, well-tested technology.",
	} {
		if _, ok := policy.Clean(raw); !ok {
			t.Errorf("Clean(%q) rejected", raw)
		}
	}
}
