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
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_012"
)

// Aliases kept short for high-traffic call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeUnknown      = ErrorCode("")
	CodeOK           = ErrorCode("OK")

	CodeBatchNotFound     = ErrCodeBatchNotFound
	CodeInvalidNotation   = ErrCodeInvalidNotation
	CodeParseFailed       = ErrCodeParseFailed
	CodePredictionFailed  = ErrCodePredictionFailed
	CodeCompletionFailed  = ErrCodeCompletionFailed
	CodeDBConnectionError = ErrCodeDatabaseError
	CodeStorageError      = ErrCodeStorageError
	CodeMessageQueueError = ErrCodeMessageQueueError
)

// Molecule / pipeline Error Codes
const (
	ErrCodeInvalidNotation    ErrorCode = "MOL_001"
	ErrCodeParseFailed        ErrorCode = "MOL_002"
	ErrCodeEngineUnavailable  ErrorCode = "MOL_003"
	ErrCodePredictionFailed   ErrorCode = "MOL_004"
	ErrCodePredictorTimeout   ErrorCode = "MOL_005"
	ErrCodeBatchNotFound      ErrorCode = "PIPE_001"
	ErrCodeBatchPersistFailed ErrorCode = "PIPE_002"
	ErrCodeEmptySourceText    ErrorCode = "PIPE_003"
)

// AI / LLM Error Codes
const (
	ErrCodeModelNotAvailable ErrorCode = "AI_001"
	ErrCodeCompletionFailed  ErrorCode = "AI_002"
	ErrCodeCompletionEmpty   ErrorCode = "AI_003"
)

// Infrastructure Error Codes
const (
	ErrCodeStorageError      ErrorCode = "STORE_001"
	ErrCodeMessageQueueError ErrorCode = "STORE_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeInvalidNotation:    http.StatusBadRequest,
	ErrCodeParseFailed:        http.StatusUnprocessableEntity,
	ErrCodeEngineUnavailable:  http.StatusServiceUnavailable,
	ErrCodePredictionFailed:   http.StatusInternalServerError,
	ErrCodePredictorTimeout:   http.StatusGatewayTimeout,
	ErrCodeBatchNotFound:      http.StatusNotFound,
	ErrCodeBatchPersistFailed: http.StatusInternalServerError,
	ErrCodeEmptySourceText:    http.StatusBadRequest,

	ErrCodeModelNotAvailable: http.StatusServiceUnavailable,
	ErrCodeCompletionFailed:  http.StatusBadGateway,
	ErrCodeCompletionEmpty:   http.StatusBadGateway,

	ErrCodeStorageError:      http.StatusInternalServerError,
	ErrCodeMessageQueueError: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodeInvalidNotation:    "invalid structure notation",
	ErrCodeParseFailed:        "structure parsing failed",
	ErrCodeEngineUnavailable:  "chemistry engine unavailable",
	ErrCodePredictionFailed:   "property prediction failed",
	ErrCodePredictorTimeout:   "property predictor timed out",
	ErrCodeBatchNotFound:      "pipeline batch not found",
	ErrCodeBatchPersistFailed: "failed to persist pipeline batch",
	ErrCodeEmptySourceText:    "source text is empty",

	ErrCodeModelNotAvailable: "language model not available",
	ErrCodeCompletionFailed:  "text completion failed",
	ErrCodeCompletionEmpty:   "text completion returned no usable content",

	ErrCodeStorageError:      "object storage error",
	ErrCodeMessageQueueError: "message queue error",
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
