package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error codes
const (
	CodeAppError        = "APP_ERROR"
	CodeAPIError        = "API_ERROR"
	CodeValidation      = "VALIDATION_ERROR"
	CodeCache           = "CACHE_ERROR"
	CodeService         = "SERVICE_ERROR"
	CodeProfileNotFound = "PROFILE_NOT_FOUND"
	CodePlatform        = "PLATFORM_ERROR"
	CodePartialPlatform = "PARTIAL_PLATFORM_ERROR"
)

// ErrProfileNotFound matches any ProfileNotFoundError via errors.Is.
var ErrProfileNotFound = stderrors.New("profile not found")

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// ProfileNotFoundError means the identity has no profile document yet.
type ProfileNotFoundError struct {
	*AppError
	UID string
}

func NewProfileNotFoundError(uid string) *ProfileNotFoundError {
	return &ProfileNotFoundError{
		AppError: &AppError{
			Message:    fmt.Sprintf("no profile for uid %q", uid),
			Code:       CodeProfileNotFound,
			StatusCode: 404,
			Context:    map[string]any{"uid": uid},
			Cause:      ErrProfileNotFound,
		},
		UID: uid,
	}
}

// PlatformError is an adapter-level failure. It never aborts the pipeline.
type PlatformError struct {
	*AppError
	Platform string
}

func NewPlatformError(platform string, cause error) *PlatformError {
	return &PlatformError{
		AppError: &AppError{
			Message:    fmt.Sprintf("%s: fetch failed", platform),
			Code:       CodePlatform,
			StatusCode: 502,
			Context:    map[string]any{"platform": platform},
			Cause:      cause,
		},
		Platform: platform,
	}
}

// PartialPlatformError reports that some of a platform's sub-calls failed
// while the others produced usable data.
type PartialPlatformError struct {
	*AppError
	Platform string
	Failed   []string
}

func NewPartialPlatformError(platform string, failed []string, cause error) *PartialPlatformError {
	return &PartialPlatformError{
		AppError: &AppError{
			Message:    fmt.Sprintf("%s: partial data (%s unavailable)", platform, strings.Join(failed, ", ")),
			Code:       CodePartialPlatform,
			StatusCode: 206,
			Context: map[string]any{
				"platform": platform,
				"failed":   failed,
			},
			Cause: cause,
		},
		Platform: platform,
		Failed:   failed,
	}
}

// IsPartial reports whether err carries a PartialPlatformError.
func IsPartial(err error) bool {
	var partial *PartialPlatformError
	return stderrors.As(err, &partial)
}

// IsProfileNotFound reports whether err means "no profile document".
func IsProfileNotFound(err error) bool {
	return stderrors.Is(err, ErrProfileNotFound)
}
