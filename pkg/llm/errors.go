package llm

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes analysis failures
type ErrorKind string

const (
	// KindConfiguration indicates a missing credential, reported before any network attempt
	KindConfiguration ErrorKind = "configuration"
	// KindTransport indicates the model call itself failed
	KindTransport ErrorKind = "transport"
	// KindEmptyResponse indicates the call succeeded but returned no text
	KindEmptyResponse ErrorKind = "empty_response"
	// KindMalformedResponse indicates text that is not valid JSON or does not match the result schema
	KindMalformedResponse ErrorKind = "malformed_response"
)

// user-facing messages
const (
	msgTransport   = "Failed to analyze the application. Please ensure the URL is valid and try again."
	msgEmpty       = "No response received from the model."
	msgMalformed   = "The model returned an analysis that could not be understood. Please try again."
	msgMissingKeyF = "API key not found in environment variable %s."
)

// UnexpectedMessage is shown for failures that carry no message of their own
const UnexpectedMessage = "An unexpected error occurred"

// AnalysisError is returned by Analyze on any failure.
// Message is safe to show to users, Cause carries diagnostic detail for logs.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

func configurationError(envName string) *AnalysisError {
	return &AnalysisError{Kind: KindConfiguration, Message: fmt.Sprintf(msgMissingKeyF, envName)}
}

// TransportError wraps a failed model call
func TransportError(cause error) *AnalysisError {
	return &AnalysisError{Kind: KindTransport, Message: msgTransport, Cause: cause}
}

func emptyResponseError() *AnalysisError {
	return &AnalysisError{Kind: KindEmptyResponse, Message: msgEmpty}
}

func malformedResponseError(cause error) *AnalysisError {
	return &AnalysisError{Kind: KindMalformedResponse, Message: msgMalformed, Cause: cause}
}

// KindOf returns the kind of an analysis error, empty for other errors
func KindOf(err error) ErrorKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// UserMessage returns the single human-readable message for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *AnalysisError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return UnexpectedMessage
}
