package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/laneworks/laneworks/internal/platform/errors"
	errsi18n "github.com/laneworks/laneworks/internal/platform/errors/i18n"
	"github.com/laneworks/laneworks/internal/platform/requestctx"
)

type errorResponse struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// writeError renders a platform error as a localized JSON body. The
// top-level code is always the platform code; when metadata carries an
// engine rule code under reason, that rule selects the message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.CodeInternal, "unhandled error", err)
	}

	status := appErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}

	messageCode := string(appErr.Code)
	if reason := appErr.Metadata["reason"]; reason != "" {
		messageCode = reason
	}
	catalog := errsi18n.GetCatalog(requestctx.LocaleFromContext(r.Context()))
	writeJSON(w, status, errorResponse{
		Code:     string(appErr.Code),
		Message:  catalog.Format(messageCode, appErr.Metadata),
		Metadata: appErr.Metadata,
	})
}

// writeJSON writes JSON responses with a consistent content type.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}
