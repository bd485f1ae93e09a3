package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNavigation represents failures of the browsing capability
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypePersistence represents offer store errors
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeValidation represents per-element validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// IngestError represents an error raised somewhere in the ingestion pipeline
type IngestError struct {
	Type     ErrorType
	Merchant string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Merchant, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Merchant, e.Message)
}

// Unwrap returns the underlying error
func (e *IngestError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *IngestError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNavigation, ErrorTypePersistence:
		return true
	default:
		return false
	}
}

// New creates a new IngestError
func New(errType ErrorType, merchant, message string, err error) *IngestError {
	return &IngestError{
		Type:     errType,
		Merchant: merchant,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewNavigation creates a new navigation error
func NewNavigation(merchant, message string, err error) *IngestError {
	return New(ErrorTypeNavigation, merchant, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(merchant, message string, err error) *IngestError {
	return New(ErrorTypeParsing, merchant, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(merchant string, duration time.Duration) *IngestError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, merchant, message, nil)
}

// NewPersistence creates a new persistence error
func NewPersistence(merchant, message string, err error) *IngestError {
	return New(ErrorTypePersistence, merchant, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(merchant, message string, err error) *IngestError {
	return New(ErrorTypePublisher, merchant, message, err)
}

// NewValidation creates a new validation error
func NewValidation(merchant, message string) *IngestError {
	return New(ErrorTypeValidation, merchant, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *IngestError {
	return New(ErrorTypeConfiguration, "", message, err)
}
