package i18nstatus

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"testing/fstest"

	i18ncatalog "github.com/laneworks/laneworks/internal/platform/i18n/catalog"
)

func fixtureBundle(t *testing.T) *i18ncatalog.Bundle {
	t.Helper()
	catalogFS := fstest.MapFS{
		"locales/en-US/errors.yaml": &fstest.MapFile{Data: []byte(`locale: "en-US"
namespace: "errors"
messages:
  "CENTER_NOT_FOUND": "Center not found."
  "LAYOUT_MISSING": "This center has no lane layout yet."
  "LAYOUT_INVALID": "The lane layout is invalid."
`)},
		"locales/de-DE/errors.yaml": &fstest.MapFile{Data: []byte(`locale: "de-DE"
namespace: "errors"
messages:
  "CENTER_NOT_FOUND": "Center nicht gefunden."
  "LAYOUT_INVALID": "Die Bahnaufteilung ist ungültig."
  "LAYOUT_RETIRED": "Veralteter Schlüssel."
`)},
	}
	bundle, err := i18ncatalog.LoadFromFS(catalogFS)
	if err != nil {
		t.Fatalf("load fixture catalogs: %v", err)
	}
	return bundle
}

func TestBuildReportsMissingAndExtraKeys(t *testing.T) {
	rep, err := Build(fixtureBundle(t), "en-US")
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	if rep.BaseKeys != 3 {
		t.Fatalf("base keys = %d, want 3", rep.BaseKeys)
	}
	if len(rep.Locales) != 1 {
		t.Fatalf("locales = %d, want 1", len(rep.Locales))
	}

	german := rep.Locales[0]
	if german.Locale != "de-DE" {
		t.Fatalf("locale = %q, want de-DE", german.Locale)
	}
	if german.Translated != 2 {
		t.Errorf("translated = %d, want 2", german.Translated)
	}
	if len(german.MissingKeys) != 1 || german.MissingKeys[0] != "LAYOUT_MISSING" {
		t.Errorf("missing keys = %v, want [LAYOUT_MISSING]", german.MissingKeys)
	}
	if len(german.ExtraKeys) != 1 || german.ExtraKeys[0] != "LAYOUT_RETIRED" {
		t.Errorf("extra keys = %v, want [LAYOUT_RETIRED]", german.ExtraKeys)
	}
	if len(german.Namespaces) != 1 {
		t.Fatalf("namespaces = %d, want 1", len(german.Namespaces))
	}
	if ns := german.Namespaces[0]; ns.Namespace != "errors" || ns.BaseKeys != 3 || ns.Translated != 2 {
		t.Errorf("namespace coverage = %+v, want errors 2/3", ns)
	}

	incomplete := rep.IncompleteLocales()
	if len(incomplete) != 1 || incomplete[0] != "de-DE (1 missing)" {
		t.Errorf("incomplete locales = %v", incomplete)
	}
}

func TestBuildRejectsUnknownBaseLocale(t *testing.T) {
	if _, err := Build(fixtureBundle(t), "fr-FR"); err == nil {
		t.Fatal("expected error for unknown base locale")
	}
}

func TestWriteTextListsGaps(t *testing.T) {
	rep, err := Build(fixtureBundle(t), "en-US")
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	var buf bytes.Buffer
	WriteText(&buf, rep)

	output := buf.String()
	for _, want := range []string{
		"base locale en-US has 3 keys",
		"de-DE: 2/3 translated",
		"missing LAYOUT_MISSING",
		"extra LAYOUT_RETIRED",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestEmbeddedCatalogsAreComplete(t *testing.T) {
	bundle, err := i18ncatalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	rep, err := Build(bundle, i18ncatalog.BaseLocale)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	for _, locale := range rep.Locales {
		if len(locale.MissingKeys) > 0 {
			t.Errorf("locale %s is missing translations: %v", locale.Locale, locale.MissingKeys)
		}
		if len(locale.ExtraKeys) > 0 {
			t.Errorf("locale %s has keys absent from %s: %v", locale.Locale, rep.BaseLocale, locale.ExtraKeys)
		}
	}
}

func TestRunEmitsJSONAndPassesCheck(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(&buf, Options{JSON: true, Check: true}); err != nil {
		t.Fatalf("run: %v", err)
	}

	var rep Report
	if err := json.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.BaseLocale != i18ncatalog.BaseLocale {
		t.Errorf("base locale = %q, want %q", rep.BaseLocale, i18ncatalog.BaseLocale)
	}
	if rep.BaseKeys == 0 {
		t.Error("expected base keys in embedded catalogs")
	}
}
