package cv

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Store owns the loaded CV document. Reload keeps the previous document when
// the new file fails validation, so a bad deploy never blanks the site.
type Store struct {
	log        *zap.Logger
	path       string
	schemaPath string

	mu     sync.RWMutex
	doc    *Document
	result ValidationResult
}

func NewStore(log *zap.Logger, path, schemaPath string) *Store {
	return &Store{
		log:        log.Named("cv"),
		path:       path,
		schemaPath: schemaPath,
	}
}

// Load reads the document and schema from disk, validates, and installs the
// document on success. The validation result is kept either way.
func (s *Store) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read cv document: %w", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse cv document: %w", err)
	}

	schema := s.readSchema()
	result := Validate(data, schema)

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()

	if !result.Success {
		return fmt.Errorf("cv document invalid: %s", strings.Join(result.Errors, "; "))
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode cv document: %w", err)
	}

	s.mu.Lock()
	s.doc = &doc
	s.mu.Unlock()

	s.log.Info("cv document loaded",
		zap.String("version", doc.Metadata.Version),
		zap.Int("sections", result.SectionsCount))
	return nil
}

// readSchema tolerates a missing or broken schema file; the validator falls
// back to its built-in required-keys list.
func (s *Store) readSchema() map[string]interface{} {
	raw, err := os.ReadFile(s.schemaPath)
	if err != nil {
		s.log.Warn("cv schema unavailable, using built-in required keys", zap.Error(err))
		return nil
	}
	var schema map[string]interface{}
	if err := json.Unmarshal(raw, &schema); err != nil {
		s.log.Warn("cv schema unreadable, using built-in required keys", zap.Error(err))
		return nil
	}
	return schema
}

// Document returns the currently installed document (nil before first load).
func (s *Store) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Validation returns the result of the most recent load attempt.
func (s *Store) Validation() ValidationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Category returns the sections under one category.
func (s *Store) Category(name string) (map[string]Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, false
	}
	sections, ok := s.doc.Sections[name]
	return sections, ok
}

// ContextFor returns the canned responses whose keywords appear in the query,
// preferring the requested audience style. Used to ground the chat prompt.
func (s *Store) ContextFor(query, style string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil
	}

	q := strings.ToLower(query)
	var snippets []string
	for _, sections := range s.doc.Sections {
		for _, section := range sections {
			if !matchesKeywords(q, section.Keywords) {
				continue
			}
			if text := pickResponse(section.Responses, style); text != "" {
				snippets = append(snippets, text)
			}
		}
	}
	return snippets
}

func matchesKeywords(query string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

func pickResponse(responses map[string]string, style string) string {
	if text, ok := responses[style]; ok && text != "" {
		return text
	}
	if text, ok := responses["general"]; ok && text != "" {
		return text
	}
	for _, text := range responses {
		if text != "" {
			return text
		}
	}
	return ""
}
