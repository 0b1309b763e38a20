package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeConflict, 409},
		{ErrCodeValidation, 422},
		{ErrCodeNoInspectionHistory, 404},
		{ErrCodeStoreUnavailable, 503},
		{ErrCodeInvalidStartPoint, 400},
		{ErrorCode("BOGUS"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code))
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("BOGUS")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeNoInspectionHistory))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeStoreUnavailable))
	assert.False(t, IsServerError(ErrCodeBadRequest))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "RISK", ModuleForCode(ErrCodeNoInspectionHistory))
	assert.Equal(t, "GRP", ModuleForCode(ErrCodeNoGroupableProperties))
	assert.Equal(t, "RTE", ModuleForCode(ErrCodeNoRoutableProperties))
	assert.Equal(t, "STORE", ModuleForCode(ErrCodeStoreUnavailable))
	assert.Equal(t, "PROP", ModuleForCode(ErrCodePropertyNotFound))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	allCodes := []ErrorCode{
		ErrCodeInternal, ErrCodeBadRequest, ErrCodeNoInspectionHistory,
		ErrCodeAnalysisFailed, ErrCodeNoGroupableProperties, ErrCodeGroupingFailed,
		ErrCodeNoRoutableProperties, ErrCodeInvalidStartPoint,
		ErrCodeStoreUnavailable, ErrCodeStoreQueryFailed,
		ErrCodePropertyNotFound, ErrCodeInvalidCoordinate,
	}
	for _, code := range allCodes {
		assert.Regexp(t, re, string(code))
	}
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	allCodes := []ErrorCode{
		ErrCodeInternal, ErrCodeBadRequest, ErrCodeNotFound, ErrCodeConflict,
		ErrCodeServiceUnavailable, ErrCodeTimeout, ErrCodeValidation,
		ErrCodeSerialization, ErrCodeCacheError, ErrCodeNotImplemented,
		ErrCodeNoInspectionHistory, ErrCodeAnalysisFailed,
		ErrCodeNoGroupableProperties, ErrCodeGroupingFailed,
		ErrCodeNoRoutableProperties, ErrCodeInvalidStartPoint,
		ErrCodeStoreUnavailable, ErrCodeStoreQueryFailed,
		ErrCodePropertyNotFound, ErrCodeInvalidCoordinate,
	}
	for _, code := range allCodes {
		_, hasStatus := ErrorCodeHTTPStatus[code]
		_, hasMessage := ErrorCodeMessage[code]
		assert.True(t, hasStatus, "missing status for %s", code)
		assert.True(t, hasMessage, "missing message for %s", code)
	}
}
