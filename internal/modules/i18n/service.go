package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/folio-space/core/internal/pkg/fetch"
	"go.uber.org/zap"
)

// Service holds the active translation table for one language at a time.
// A language switch replaces the table wholesale; there is no partial merge.
type Service struct {
	log        *zap.Logger
	fetcher    *fetch.Client
	dir        string
	remoteBase string

	mu    sync.RWMutex
	lang  string
	table map[string]interface{}
}

func NewService(log *zap.Logger, fetcher *fetch.Client, dir, remoteBase, defaultLang string) *Service {
	s := &Service{
		log:        log.Named("i18n"),
		fetcher:    fetcher,
		dir:        dir,
		remoteBase: strings.TrimRight(strings.TrimSpace(remoteBase), "/"),
		table:      map[string]interface{}{},
	}
	s.Switch(context.Background(), defaultLang)
	return s
}

// Load reads and parses the translation table for lang without installing it.
func (s *Service) Load(ctx context.Context, lang string) (map[string]interface{}, error) {
	lang = normalizeLang(lang)
	if lang == "" {
		return nil, fmt.Errorf("empty language code")
	}

	var raw []byte
	if s.remoteBase != "" {
		resp, err := s.fetcher.Fetch(ctx, fmt.Sprintf("%s/%s.json", s.remoteBase, lang), fetch.Options{})
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, fmt.Errorf("locale %s: unexpected status %d", lang, resp.Status)
		}
		raw = resp.Bytes()
	} else {
		data, err := os.ReadFile(filepath.Join(s.dir, lang+".json"))
		if err != nil {
			return nil, err
		}
		raw = data
	}

	var table map[string]interface{}
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse locale %s: %w", lang, err)
	}
	return table, nil
}

// Switch loads lang and swaps the active table. A failed load keeps the
// current table and only logs a warning; callers never see the error.
func (s *Service) Switch(ctx context.Context, lang string) {
	table, err := s.Load(ctx, lang)
	if err != nil {
		s.log.Warn("language switch failed, keeping current table",
			zap.String("lang", lang), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.lang = normalizeLang(lang)
	s.table = table
	s.mu.Unlock()
}

// Lookup resolves a dotted key path against the active table.
// A miss returns ("", false) so callers keep their original text.
func (s *Service) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return LookupIn(s.table, key)
}

// LookupIn resolves a dotted key path against an arbitrary table.
func LookupIn(table map[string]interface{}, key string) (string, bool) {
	var node interface{} = table
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return "", false
		}
		node, ok = m[part]
		if !ok {
			return "", false
		}
	}

	text, ok := node.(string)
	if !ok {
		return "", false
	}
	return text, true
}

// Current returns the active language code.
func (s *Service) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// Table returns a snapshot reference of the active table.
func (s *Service) Table() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

func normalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
