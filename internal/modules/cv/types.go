package cv

// Document is the typed view of the CV JSON file.
type Document struct {
	Metadata          Metadata                      `json:"metadata"`
	Sections          map[string]map[string]Section `json:"sections"` // category -> section key -> section
	Personality       map[string]interface{}        `json:"personality"`
	ResponseTemplates map[string]interface{}        `json:"responseTemplates"`
}

type Metadata struct {
	Version       string `json:"version"`
	LastUpdated   string `json:"last_updated"`
	TotalSections int    `json:"total_sections"`
}

// Section is one answerable topic: keyword triggers plus per-audience responses.
type Section struct {
	ID        string            `json:"id"`
	Keywords  []string          `json:"keywords"`
	Responses map[string]string `json:"responses"` // audience style -> canned response
	Details   string            `json:"details"`   // markdown
}

// ValidationResult accumulates human-readable problems; it never carries a Go error.
type ValidationResult struct {
	Success       bool     `json:"success"`
	Errors        []string `json:"errors"`
	SectionsCount int      `json:"sections_count"`
}
