package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	i18ncatalog "github.com/laneworks/laneworks/internal/platform/i18n/catalog"
	"github.com/laneworks/laneworks/internal/platform/requestctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
)

var tracer = otel.Tracer("github.com/laneworks/laneworks/internal/services/center/app")

// supportedLocales keeps the base locale first so the matcher falls
// back to it for unknown languages.
var supportedLocales, localeMatcher = buildLocaleMatcher()

func buildLocaleMatcher() ([]string, language.Matcher) {
	ordered := []string{i18ncatalog.BaseLocale}
	for _, locale := range i18ncatalog.Default().Locales() {
		if locale != i18ncatalog.BaseLocale {
			ordered = append(ordered, locale)
		}
	}

	locales := make([]string, 0, len(ordered))
	tags := make([]language.Tag, 0, len(ordered))
	for _, locale := range ordered {
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		locales = append(locales, locale)
		tags = append(tags, tag)
	}
	return locales, language.NewMatcher(tags)
}

// resolveLocale picks the best supported locale for the request's
// Accept-Language header.
func resolveLocale(r *http.Request) string {
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if accept == "" {
		return i18ncatalog.BaseLocale
	}
	requested, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(requested) == 0 {
		return i18ncatalog.BaseLocale
	}
	_, index, _ := localeMatcher.Match(requested...)
	if index < 0 || index >= len(supportedLocales) {
		return i18ncatalog.BaseLocale
	}
	return supportedLocales[index]
}

func localeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestctx.WithLocale(r.Context(), resolveLocale(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, recorder.status, time.Since(start).Round(time.Millisecond))
	})
}
