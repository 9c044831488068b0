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
	if !bundle.HasLocale("de-DE") {
		t.Fatalf("expected locale de-DE")
	}

	if got := len(bundle.LocaleMessages("en-US")); got == 0 {
		t.Fatalf("expected en-US messages")
	}
	if got := len(bundle.NamespaceMessages("en-US", "errors")); got == 0 {
		t.Fatalf("expected en-US errors namespace messages")
	}
}

func TestLocalesCarrySameKeys(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}

	base := bundle.LocaleMessages(BaseLocale)
	for _, locale := range bundle.Locales() {
		if locale == BaseLocale {
			continue
		}
		messages := bundle.LocaleMessages(locale)
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Fatalf("locale %s is missing key %q", locale, key)
			}
		}
		for key := range messages {
			if _, ok := base[key]; !ok {
				t.Fatalf("locale %s has key %q absent from base", locale, key)
			}
		}
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/errors.yaml"), `locale: "en-US"
namespace: "errors"
messages:
  "a.key": "a"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/web.yaml"), `locale: "en-US"
namespace: "web"
messages:
  "a.key": "b"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/errors.yaml"), `locale: "de-DE"
namespace: "errors"
messages:
  "a.key": "a"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRejectsUnknownFields(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/errors.yaml"), `locale: "en-US"
namespace: "errors"
translations:
  "a.key": "a"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestNamespaceMessagesWithFallback(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	resolved, messages := bundle.NamespaceMessagesWithFallback("fr-FR", "errors")
	if resolved != "en-US" {
		t.Fatalf("resolved locale = %q, want en-US", resolved)
	}
	if len(messages) == 0 {
		t.Fatal("expected fallback errors namespace messages")
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}

	got, ok := bundle.Message("fr-FR", "CENTER_NOT_FOUND")
	if !ok {
		t.Fatal("expected base locale fallback")
	}
	want, _ := bundle.Message("en-US", "CENTER_NOT_FOUND")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
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
