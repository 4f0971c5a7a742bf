package errors

import (
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypePlanGeneration  ErrorType = "PLAN_GENERATION_ERROR"
	ErrorTypeImageGeneration ErrorType = "IMAGE_GENERATION_ERROR"
	ErrorTypeSpeech          ErrorType = "SPEECH_ERROR"
	ErrorTypePersistence     ErrorType = "PERSISTENCE_ERROR"
	ErrorTypeRateLimit       ErrorType = "RATE_LIMIT_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	ErrorCode     string    `json:"errorCode"`
	IsOperational bool      `json:"isOperational"`
	Recovery      string    `json:"recoverySuggestion,omitempty"`
	Err           error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As checks
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// RecoverySuggestion returns the suggestion on how to recover from the error
func (e *AppError) RecoverySuggestion() string {
	return e.Recovery
}

// IsRetryable determines if the operation that caused the error should be retried
func (e *AppError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit:
		return true
	case ErrorTypePlanGeneration, ErrorTypeImageGeneration, ErrorTypeSpeech:
		// Provider errors are worth retrying when the upstream failed (5xx);
		// client-side mistakes (4xx) are not.
		return e.StatusCode >= 500
	default:
		return false
	}
}

// NewValidationError creates a new validation error (400)
func NewValidationError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeValidation,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeNotFound,
		Message:       message,
		StatusCode:    http.StatusNotFound,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeRateLimit,
		Message:       message,
		StatusCode:    http.StatusTooManyRequests,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewPlanGenerationError creates a new plan generation error (500)
func NewPlanGenerationError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypePlanGeneration,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Try again in a moment or adjust the submitted profile.",
		Err:           err,
	}
}

// NewImageGenerationError creates a new image generation error (500)
func NewImageGenerationError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeImageGeneration,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Wait for the model to finish loading or configure an API key for higher limits.",
		Err:           err,
	}
}

// NewSpeechError creates a new speech synthesis error (500)
func NewSpeechError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeSpeech,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Check the speech service API key and try again.",
		Err:           err,
	}
}

// NewPersistenceError creates a new persistence error (500)
func NewPersistenceError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypePersistence,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Retry the save or delete action.",
		Err:           err,
	}
}
