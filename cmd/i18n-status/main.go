// Package main reports translation coverage for the locale catalogs.
package main

import (
	"flag"
	"os"

	"github.com/laneworks/laneworks/internal/platform/config"
	"github.com/laneworks/laneworks/internal/tools/i18nstatus"
)

func main() {
	var opts i18nstatus.Options
	flag.StringVar(&opts.BaseLocale, "base-locale", "", "base locale used as the translation source of truth")
	flag.BoolVar(&opts.JSON, "json", false, "emit the report as JSON")
	flag.BoolVar(&opts.Check, "check", false, "exit non-zero when any locale lags the base locale")
	flag.Parse()

	if err := i18nstatus.Run(os.Stdout, opts); err != nil {
		config.Exitf("i18n status: %v", err)
	}
}
