// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Center errors
	CodeCenterNameEmpty       Code = "CENTER_NAME_EMPTY"
	CodeCenterNameTooLong     Code = "CENTER_NAME_TOO_LONG"
	CodeCenterSlugEmpty       Code = "CENTER_SLUG_EMPTY"
	CodeCenterSlugInvalid     Code = "CENTER_SLUG_INVALID"
	CodeCenterTimezoneInvalid Code = "CENTER_TIMEZONE_INVALID"
	CodeCenterNotFound        Code = "CENTER_NOT_FOUND"
	CodeCenterExists          Code = "CENTER_ALREADY_EXISTS"

	// Layout errors
	CodeLayoutInvalid Code = "LAYOUT_INVALID"
	CodeLayoutMissing Code = "LAYOUT_MISSING"

	// Layout grant errors
	CodeLayoutGrantRequired Code = "LAYOUT_GRANT_REQUIRED"
	CodeLayoutGrantInvalid  Code = "LAYOUT_GRANT_INVALID"
	CodeLayoutGrantExpired  Code = "LAYOUT_GRANT_EXPIRED"
	CodeLayoutGrantMismatch Code = "LAYOUT_GRANT_MISMATCH"

	// Listing errors
	CodeListFilterInvalid    Code = "LIST_FILTER_INVALID"
	CodeListPageSizeInvalid  Code = "LIST_PAGE_SIZE_INVALID"
	CodeListPageTokenInvalid Code = "LIST_PAGE_TOKEN_INVALID"

	// Transport errors
	CodeRequestInvalid Code = "REQUEST_INVALID"

	// Infrastructure errors
	CodeInternal Code = "INTERNAL"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeCenterNameEmpty,
		CodeCenterNameTooLong,
		CodeCenterSlugEmpty,
		CodeCenterSlugInvalid,
		CodeCenterTimezoneInvalid,
		CodeLayoutInvalid,
		CodeListFilterInvalid,
		CodeListPageSizeInvalid,
		CodeListPageTokenInvalid,
		CodeRequestInvalid:
		return http.StatusBadRequest

	// Forbidden - layout grant checks
	case CodeLayoutGrantRequired,
		CodeLayoutGrantInvalid,
		CodeLayoutGrantExpired,
		CodeLayoutGrantMismatch:
		return http.StatusForbidden

	// Not found - resource doesn't exist
	case CodeCenterNotFound,
		CodeLayoutMissing:
		return http.StatusNotFound

	// Conflict - unique resource constraint
	case CodeCenterExists:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
