package chat

import (
	"strings"
)

// Policy decides whether a generated answer is usable. Clean returns the
// normalized text and false when the answer must be rejected. Rejection is a
// policy outcome, not an infrastructure fault.
type Policy interface {
	Clean(raw string) (string, bool)
}

// knownPrefixes are boilerplate lead-ins models prepend despite instructions.
var knownPrefixes = []string{
	"answer:",
	"a:",
	"response:",
	"assistant:",
	"bot:",
}

// builtinDenylist holds hallucination indicators: stock phrases and jargon
// that never belong in a short first-person CV answer. Deployments append
// owner-name misspellings and site-specific entries via config.
var builtinDenylist = []string{
	"as an ai",
	"as a language model",
	"i am a chatbot",
	"i cannot assist",
	"lorem ipsum",
	"click here",
	"subscribe to",
	"terms and conditions",
	"quantum blockchain",
	"synergy paradigm",
	"[object",
	"undefined",
	"http://",
	"https://",
}

// allowedLeadingTokens: a valid answer speaks in first person or gives a
// direct yes/no.
var allowedLeadingTokens = []string{"i", "yes", "no"}

// DefaultPolicy implements the denylist heuristic.
type DefaultPolicy struct {
	denylist []string
}

func NewDefaultPolicy(extra []string) *DefaultPolicy {
	denylist := make([]string, 0, len(builtinDenylist)+len(extra))
	denylist = append(denylist, builtinDenylist...)
	for _, entry := range extra {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			denylist = append(denylist, entry)
		}
	}
	return &DefaultPolicy{denylist: denylist}
}

// Clean strips known prefixes, collapses whitespace, then rejects on a
// denylist hit, a too-short answer, or a wrong leading token. Text that
// passes is returned without further mutation.
func (p *DefaultPolicy) Clean(raw string) (string, bool) {
	text := strings.TrimSpace(raw)

	for changed := true; changed; {
		changed = false
		lower := strings.ToLower(text)
		for _, prefix := range knownPrefixes {
			if strings.HasPrefix(lower, prefix) {
				text = strings.TrimSpace(text[len(prefix):])
				changed = true
				break
			}
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	lower := strings.ToLower(text)

	for _, entry := range p.denylist {
		if strings.Contains(lower, entry) {
			return "", false
		}
	}
	if len(text) < 10 {
		return "", false
	}

	leading := lower
	if idx := strings.IndexAny(leading, " ,.!?'"); idx >= 0 {
		leading = leading[:idx]
	}
	for _, tok := range allowedLeadingTokens {
		if leading == tok {
			return text, true
		}
	}
	return "", false
}
