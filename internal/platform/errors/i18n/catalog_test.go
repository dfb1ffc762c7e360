package i18n

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/louisbranch/scorekeeper/internal/platform/errors"
)

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if got := GetCatalog(""); got != base {
		t.Fatal("expected empty locale to resolve to en-US")
	}
	if got := GetCatalog("not a locale!"); got != base {
		t.Fatal("expected unparsable locale to fall back to en-US")
	}
	if got := GetCatalog("ja-JP"); got != base {
		t.Fatalf("expected unsupported locale to fall back to en-US, got %s", got.Locale())
	}
}

func TestGetCatalogMatchesRegionalVariant(t *testing.T) {
	got := GetCatalog("pt")
	if got.Locale() != "pt-BR" {
		t.Fatalf("locale = %s, want %s", got.Locale(), "pt-BR")
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestLocalizeDomainError(t *testing.T) {
	err := fmt.Errorf("confirm replacement: %w", apperrors.WithMetadata(
		apperrors.CodeCharacterDuplicateIdentity,
		"identity already claimed",
		map[string]string{"Name": "Scholar", "Type": "Scholar"},
	))

	got := GetCatalog("en-US").Localize(err)
	want := `This character combination is already used: "Scholar" (Scholar).`
	if got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestLocalizePlainErrorHidesInternals(t *testing.T) {
	got := GetCatalog("pt-BR").Localize(errors.New("sqlite: database is locked"))
	if got != "Algo deu errado. Tente novamente." {
		t.Fatalf("message = %q", got)
	}
	if GetCatalog("en-US").Localize(nil) != "" {
		t.Fatal("expected empty message for nil error")
	}
}

func TestCatalogsCoverEveryCode(t *testing.T) {
	codes := []Code{
		CodeUnknown,
		CodeCharacterEmptyName,
		CodeCharacterDuplicateIdentity,
		CodeCharacterNotDead,
		CodeCharacterResurrectionNotAllowed,
		CodeSessionNameEmpty,
		CodeSessionRosterEmpty,
		CodeSessionVersionConflict,
		CodeNotFound,
	}
	for _, locale := range []string{"en-US", "pt-BR"} {
		cat := GetCatalog(locale)
		for _, code := range codes {
			if _, ok := cat.messages[code]; !ok {
				t.Fatalf("%s catalog is missing %s", locale, code)
			}
		}
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}

func TestPrinterFormatsNumbersForLocale(t *testing.T) {
	got := GetCatalog("en-US").Printer().Sprintf("%d", 12345)
	if got != "12,345" {
		t.Fatalf("formatted = %q, want %q", got, "12,345")
	}
}

func TestLocalizeOmitsBlankType(t *testing.T) {
	err := apperrors.WithMetadata(
		apperrors.CodeCharacterDuplicateIdentity,
		"identity already claimed",
		map[string]string{"Name": `Big "Al"`, "Type": ""},
	)

	got := GetCatalog("pt-BR").Localize(err)
	want := `Esta combinação de personagem já foi usada: "Big \"Al\"".`
	if got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}
