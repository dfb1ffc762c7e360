package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if !bundle.HasLocale(BaseLocale) {
		t.Fatalf("expected base locale %s", BaseLocale)
	}
	if !bundle.HasLocale("pt-BR") {
		t.Fatalf("expected locale pt-BR")
	}
	if got := len(bundle.NamespaceMessages("en-US", "history")); got == 0 {
		t.Fatalf("expected en-US history namespace messages")
	}
}

func TestEmbeddedLocalesDefineSameKeys(t *testing.T) {
	bundle := Default()
	base := bundle.LocaleMessages(BaseLocale)
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Fatalf("locale %s is missing %q", locale, key)
			}
		}
		if len(messages) != len(base) {
			t.Fatalf("locale %s has %d keys, want %d", locale, len(messages), len(base))
		}
	}
}

func TestLoadFromFSRejectsForeignKeyPrefix(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/history.yaml"), `locale: en-US
namespace: history
messages:
  report.title: "nope"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/history.yaml"), `locale: pt-BR
namespace: history
messages:
  history.title: "x"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/pt-BR/history.yaml"), `locale: pt-BR
namespace: history
messages:
  history.title: "x"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestLoadFromFSRejectsMalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/history.yaml"), "locale: [en-US\n")

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMatchFallsBackToBaseLocale(t *testing.T) {
	bundle := Default()
	tests := []struct {
		requested string
		want      string
	}{
		{requested: "pt-BR", want: "pt-BR"},
		{requested: "pt", want: "pt-BR"},
		{requested: "fr-FR", want: BaseLocale},
		{requested: "", want: BaseLocale},
		{requested: "not a locale", want: BaseLocale},
	}
	for _, tt := range tests {
		if got := bundle.Match(tt.requested); got != tt.want {
			t.Fatalf("Match(%q) = %q, want %q", tt.requested, got, tt.want)
		}
	}
}

func TestPrinterResolvesRegisteredKeys(t *testing.T) {
	bundle := Default()
	if got := bundle.Printer("pt").Sprintf("history.status_dead"); got != "morto" {
		t.Fatalf("pt status = %q, want %q", got, "morto")
	}
	if got := bundle.Printer("en-US").Sprintf("history.player_counts", 1234, 0); got != "  deaths: 1,234, revivals: 0\n" {
		t.Fatalf("en counts = %q", got)
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	bundle := Default()
	value, ok := bundle.Message("fr-FR", "history.status_alive")
	if !ok || value != "alive" {
		t.Fatalf("message = %q (%v), want alive", value, ok)
	}
	if _, ok := bundle.Message("en-US", "history.missing"); ok {
		t.Fatal("expected missing key")
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
