package dto

import (
	"net/http"
	"strings"
)

// Error code constants, format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeCycleDetected      = "ERR_CYCLE_DETECTED"
	ErrCodeInvalidMergeTarget = "ERR_INVALID_MERGE_TARGET"
	ErrCodeDeleteBlocked      = "ERR_DELETE_BLOCKED"
)

// Import pipeline error codes live in the import package and start with
// ERR_IMPORT_; they pass through normalization unchanged.
const importCodePrefix = "ERR_IMPORT_"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Structural violations are well-formed requests the hierarchy's
	// state makes impossible, hence 422 rather than 400.
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeCycleDetected:      http.StatusUnprocessableEntity,
	ErrCodeInvalidMergeTarget: http.StatusUnprocessableEntity,
	ErrCodeDeleteBlocked:      http.StatusConflict,

	importCodePrefix + "INVALID_FILE":     http.StatusBadRequest,
	importCodePrefix + "EMPTY_FILE":       http.StatusBadRequest,
	importCodePrefix + "INVALID_ENCODING": http.StatusBadRequest,
	importCodePrefix + "MISSING_HEADER":   http.StatusBadRequest,
	importCodePrefix + "REQUIRED_FIELD":   http.StatusBadRequest,
	importCodePrefix + "VALIDATION":       http.StatusUnprocessableEntity,
	importCodePrefix + "CONFLICT":         http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unmapped codes fall back to 500 so nothing silently succeeds.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, importCodePrefix) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain-layer error codes to the wire format
var domainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CYCLE_DETECTED":       ErrCodeCycleDetected,
	"INVALID_MERGE_TARGET": ErrCodeInvalidMergeTarget,
	"DELETE_BLOCKED":       ErrCodeDeleteBlocked,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"INVALID_PARENT":       ErrCodeInvalidInput,
	"INVALID_NAME":         ErrCodeValidation,
	"INVALID_SLUG":         ErrCodeValidation,
	"INVALID_SKU":          ErrCodeValidation,
	"INVALID_PRICE":        ErrCodeValidation,
	"INVALID_IMAGE_PATH":   ErrCodeValidation,
	"ALREADY_ACTIVE":       ErrCodeInvalidState,
	"ALREADY_INACTIVE":     ErrCodeInvalidState,
	"INVALID_BLOCK_KIND":   ErrCodeValidation,
	"INVALID_SETTINGS":     ErrCodeValidation,
	"INVALID_TITLE":        ErrCodeValidation,
	"INVALID_AREA":         ErrCodeValidation,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Codes already in the ERR_ format pass through unchanged.
func NormalizeErrorCode(code string) string {
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if wireCode, ok := domainCodeMapping[code]; ok {
		return wireCode
	}
	return ErrCodeUnknown
}
