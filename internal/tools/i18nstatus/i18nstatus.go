// Package i18nstatus reports translation coverage for the embedded
// locale catalogs.
package i18nstatus

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	i18ncatalog "github.com/laneworks/laneworks/internal/platform/i18n/catalog"
)

// Report summarizes catalog coverage against the base locale.
type Report struct {
	BaseLocale string           `json:"base_locale"`
	BaseKeys   int              `json:"base_keys"`
	Locales    []LocaleCoverage `json:"locales"`
}

// LocaleCoverage describes one locale's coverage of the base catalog.
type LocaleCoverage struct {
	Locale      string              `json:"locale"`
	Translated  int                 `json:"translated"`
	MissingKeys []string            `json:"missing_keys,omitempty"`
	ExtraKeys   []string            `json:"extra_keys,omitempty"`
	Namespaces  []NamespaceCoverage `json:"namespaces"`
}

// NamespaceCoverage describes coverage within one catalog namespace.
type NamespaceCoverage struct {
	Namespace  string `json:"namespace"`
	BaseKeys   int    `json:"base_keys"`
	Translated int    `json:"translated"`
}

// Options controls report generation.
type Options struct {
	BaseLocale string
	JSON       bool
	Check      bool
}

// Run loads the embedded catalogs, writes a coverage report to out, and
// in check mode fails when any locale lags the base locale.
func Run(out io.Writer, opts Options) error {
	bundle, err := i18ncatalog.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load locale catalogs: %w", err)
	}

	baseLocale := opts.BaseLocale
	if baseLocale == "" {
		baseLocale = i18ncatalog.BaseLocale
	}

	rep, err := Build(bundle, baseLocale)
	if err != nil {
		return err
	}

	if opts.JSON {
		if err := WriteJSON(out, rep); err != nil {
			return err
		}
	} else {
		WriteText(out, rep)
	}

	if opts.Check {
		if incomplete := rep.IncompleteLocales(); len(incomplete) > 0 {
			return fmt.Errorf("incomplete locales: %s", strings.Join(incomplete, ", "))
		}
	}
	return nil
}

// Build computes coverage of every bundle locale against baseLocale.
func Build(bundle *i18ncatalog.Bundle, baseLocale string) (Report, error) {
	if !bundle.HasLocale(baseLocale) {
		return Report{}, fmt.Errorf("base locale %q is missing from catalogs", baseLocale)
	}

	baseMessages := bundle.LocaleMessages(baseLocale)
	rep := Report{BaseLocale: baseLocale, BaseKeys: len(baseMessages)}

	for _, locale := range bundle.Locales() {
		if locale == baseLocale {
			continue
		}
		localeMessages := bundle.LocaleMessages(locale)
		missing, extra := diffKeys(baseMessages, localeMessages)

		coverage := LocaleCoverage{
			Locale:      locale,
			Translated:  len(baseMessages) - len(missing),
			MissingKeys: missing,
			ExtraKeys:   extra,
		}
		for _, namespace := range bundle.Namespaces(baseLocale) {
			baseNS := bundle.NamespaceMessages(baseLocale, namespace)
			nsMissing, _ := diffKeys(baseNS, bundle.NamespaceMessages(locale, namespace))
			coverage.Namespaces = append(coverage.Namespaces, NamespaceCoverage{
				Namespace:  namespace,
				BaseKeys:   len(baseNS),
				Translated: len(baseNS) - len(nsMissing),
			})
		}
		rep.Locales = append(rep.Locales, coverage)
	}

	sort.Slice(rep.Locales, func(i, j int) bool {
		return rep.Locales[i].Locale < rep.Locales[j].Locale
	})
	return rep, nil
}

// IncompleteLocales returns locales with untranslated base keys.
func (r Report) IncompleteLocales() []string {
	var out []string
	for _, locale := range r.Locales {
		if len(locale.MissingKeys) > 0 {
			out = append(out, fmt.Sprintf("%s (%d missing)", locale.Locale, len(locale.MissingKeys)))
		}
	}
	return out
}

// WriteText renders the report as a translator-facing summary.
func WriteText(out io.Writer, rep Report) {
	fmt.Fprintf(out, "base locale %s has %d keys\n", rep.BaseLocale, rep.BaseKeys)
	for _, locale := range rep.Locales {
		fmt.Fprintf(out, "%s: %d/%d translated (%.1f%%)\n",
			locale.Locale, locale.Translated, rep.BaseKeys, percent(locale.Translated, rep.BaseKeys))
		for _, ns := range locale.Namespaces {
			fmt.Fprintf(out, "  %s: %d/%d\n", ns.Namespace, ns.Translated, ns.BaseKeys)
		}
		for _, key := range locale.MissingKeys {
			fmt.Fprintf(out, "  missing %s\n", key)
		}
		for _, key := range locale.ExtraKeys {
			fmt.Fprintf(out, "  extra %s\n", key)
		}
	}
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(out io.Writer, rep Report) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func diffKeys(base map[string]string, target map[string]string) (missing []string, extra []string) {
	for key := range base {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range target {
		if _, ok := base[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func percent(numerator int, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	return float64(numerator) * 100 / float64(denominator)
}
