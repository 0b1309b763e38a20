package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeNotImplemented     ErrorCode = "COMMON_010"
)

// Sentinel pseudo-codes used by GetCode.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Risk Analysis Error Codes
const (
	ErrCodeNoInspectionHistory ErrorCode = "RISK_001"
	ErrCodeAnalysisFailed      ErrorCode = "RISK_002"
)

// Grouping Error Codes
const (
	ErrCodeNoGroupableProperties ErrorCode = "GRP_001"
	ErrCodeGroupingFailed        ErrorCode = "GRP_002"
)

// Routing Error Codes
const (
	ErrCodeNoRoutableProperties ErrorCode = "RTE_001"
	ErrCodeInvalidStartPoint    ErrorCode = "RTE_002"
)

// Property / Store Error Codes
const (
	ErrCodeStoreUnavailable  ErrorCode = "STORE_001"
	ErrCodeStoreQueryFailed  ErrorCode = "STORE_002"
	ErrCodePropertyNotFound  ErrorCode = "PROP_001"
	ErrCodeInvalidCoordinate ErrorCode = "PROP_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeNoInspectionHistory: http.StatusNotFound,
	ErrCodeAnalysisFailed:      http.StatusInternalServerError,

	ErrCodeNoGroupableProperties: http.StatusNotFound,
	ErrCodeGroupingFailed:        http.StatusInternalServerError,

	ErrCodeNoRoutableProperties: http.StatusNotFound,
	ErrCodeInvalidStartPoint:    http.StatusBadRequest,

	ErrCodeStoreUnavailable:  http.StatusServiceUnavailable,
	ErrCodeStoreQueryFailed:  http.StatusInternalServerError,
	ErrCodePropertyNotFound:  http.StatusNotFound,
	ErrCodeInvalidCoordinate: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeNoInspectionHistory: "property has no completed inspection history",
	ErrCodeAnalysisFailed:      "risk analysis failed",

	ErrCodeNoGroupableProperties: "no properties available for grouping",
	ErrCodeGroupingFailed:        "grouping failed",

	ErrCodeNoRoutableProperties: "no routable properties",
	ErrCodeInvalidStartPoint:    "invalid route start point",

	ErrCodeStoreUnavailable:  "property store unavailable",
	ErrCodeStoreQueryFailed:  "property store query failed",
	ErrCodePropertyNotFound:  "property not found",
	ErrCodeInvalidCoordinate: "invalid coordinates",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
