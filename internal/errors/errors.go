// Package errors provides centralized error handling with category metadata
// for the yolovision components.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "validation"
	CategoryFileIO       ErrorCategory = "file-io"
	CategoryNotFound     ErrorCategory = "not-found"
	CategoryNetwork      ErrorCategory = "network"
	CategoryModelLoad    ErrorCategory = "model-loading"
	CategoryDiscovery    ErrorCategory = "model-discovery"
	CategoryProvisioning ErrorCategory = "model-provisioning"
	CategoryImageDecode  ErrorCategory = "image-decode"
	CategoryInference    ErrorCategory = "image-inference"
	CategoryReport       ErrorCategory = "report-output"
	CategoryGeneric      ErrorCategory = "generic"
)

// Sentinel errors for the failure modes callers branch on. Components wrap
// these with %w so errors.Is works across package boundaries.
var (
	ErrNotFound         = stderrors.New("path not found")
	ErrModelNotFound    = stderrors.New("model not found")
	ErrModelUnavailable = stderrors.New("model unavailable: no local file and no source URL")
	ErrDownloadFailed   = stderrors.New("model download failed")
	ErrModelLoad        = stderrors.New("model load failed")
	ErrInvalidSelection = stderrors.New("invalid model selection")
	ErrInvalidArgument  = stderrors.New("invalid argument")
)

// EnhancedError wraps an error with component, category and context metadata.
type EnhancedError struct {
	Err       error
	Component string
	Category  ErrorCategory
	Context   map[string]any
	Timestamp time.Time
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// GetContext returns a copy of the context data to prevent external modification.
func (ee *EnhancedError) GetContext() map[string]any {
	if ee.Context == nil {
		return nil
	}
	contextCopy := make(map[string]any, len(ee.Context))
	maps.Copy(contextCopy, ee.Context)
	return contextCopy
}

// ErrorBuilder provides a fluent interface for building enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error builder from an existing error
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{
		err:      err,
		category: CategoryGeneric,
	}
}

// Newf creates a new error builder from a format string
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component where the error occurred
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds a key-value pair to the error context
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// ModelContext adds model path and identifier context in one call.
func (eb *ErrorBuilder) ModelContext(modelPath, modelID string) *ErrorBuilder {
	if modelPath != "" {
		eb.Context("model_path", modelPath)
	}
	if modelID != "" {
		eb.Context("model_id", modelID)
	}
	return eb
}

// Timing records an operation duration in the error context.
func (eb *ErrorBuilder) Timing(operation string, duration time.Duration) *ErrorBuilder {
	eb.Context("operation", operation)
	eb.Context("duration_ms", duration.Milliseconds())
	return eb
}

// Build creates the final enhanced error
func (eb *ErrorBuilder) Build() error {
	return &EnhancedError{
		Err:       eb.err,
		Component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
}

// Standard library compatibility re-exports so callers only import this package.

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
