package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/folio-space/core/internal/pkg/fetch"
	"go.uber.org/zap"
)

func writeLocale(t *testing.T, dir, lang, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, lang+".json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{"nav":{"about":"About","contact":"Contact"},"hero":{"title":"Hi"}}`)
	writeLocale(t, dir, "de", `{"nav":{"about":"Über mich"}}`)
	return NewService(zap.NewNop(), fetch.New(), dir, "", "en"), dir
}

func TestLookupDottedPath(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"nav.about", "About", true},
		{"hero.title", "Hi", true},
		{"nav.missing", "", false},
		{"nav", "", false},            // non-leaf node
		{"nav.about.deeper", "", false}, // descends past a string
	}
	for _, tt := range tests {
		got, ok := svc.Lookup(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSwitchReplacesTableWholesale(t *testing.T) {
	svc, _ := newTestService(t)

	svc.Switch(context.Background(), "de")

	if got, _ := svc.Lookup("nav.about"); got != "Über mich" {
		t.Fatalf("after switch nav.about = %q", got)
	}
	// hero.title only exists in en; the de table must not be merged with it.
	if _, ok := svc.Lookup("hero.title"); ok {
		t.Fatal("hero.title survived a wholesale table swap")
	}
}

func TestSwitchToMissingLocaleKeepsCurrentTable(t *testing.T) {
	svc, _ := newTestService(t)

	svc.Switch(context.Background(), "xx")

	if got, _ := svc.Lookup("nav.about"); got != "About" {
		t.Fatalf("previous table lost after failed switch, nav.about = %q", got)
	}
	if svc.Current() != "en" {
		t.Fatalf("language changed to %q after failed switch", svc.Current())
	}
}

func TestSwitchToMalformedLocaleKeepsCurrentTable(t *testing.T) {
	svc, dir := newTestService(t)
	writeLocale(t, dir, "broken", `{"nav":`)

	svc.Switch(context.Background(), "broken")

	if got, _ := svc.Lookup("nav.about"); got != "About" {
		t.Fatalf("previous table lost after malformed switch, nav.about = %q", got)
	}
}
