package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"
)

// HTTPStatusError creates an error for a non-200 gateway response. The
// message keeps the "status - body" texture so operators can read it
// directly, and the body text is retained as structured data.
func HTTPStatusError(operation, endpoint string, status int, body string) GatewayError {
	err := &baseError{
		code:     status,
		message:  fmt.Sprintf("%s failed: %d - %s", operation, status, body),
		data:     body,
		category: CategoryHTTP,
		severity: SeverityError,
		context: &Context{
			Operation: operation,
			Endpoint:  endpoint,
			Timestamp: time.Now(),
		},
	}
	return err
}

// ToolNotFound creates an error for a tool name absent from the catalog
func ToolNotFound(name string) GatewayError {
	return &baseError{
		code:     CodeToolNotFound,
		message:  fmt.Sprintf("tool '%s' not found", name),
		category: CategoryNotFound,
		severity: SeverityError,
		context: &Context{
			Tool:      name,
			Timestamp: time.Now(),
		},
	}
}

// MissingField creates an error for a catalog entry lacking a required field
func MissingField(entry string, index int, field string) GatewayError {
	return &baseError{
		code:     CodeMissingField,
		message:  fmt.Sprintf("%s at index %d has no '%s' field", entry, index, field),
		category: CategoryValidation,
		severity: SeverityError,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// InvalidParams creates an error for tool parameters that fail JSON decoding
func InvalidParams(raw string, cause error) GatewayError {
	return &baseError{
		code:     CodeInvalidParams,
		message:  fmt.Sprintf("invalid JSON parameters: %s", raw),
		category: CategoryValidation,
		severity: SeverityError,
		cause:    cause,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// TransportError creates an error for a network-level failure. Context
// cancellation and deadline expiry get their own codes and categories so
// callers can tell a timeout from a refused connection.
func TransportError(operation, endpoint string, cause error) GatewayError {
	code := CodeTransportError
	category := CategoryTransport
	switch {
	case stderrors.Is(cause, context.DeadlineExceeded):
		code = CodeConnectionTimeout
		category = CategoryTimeout
	case stderrors.Is(cause, context.Canceled):
		code = CodeCancelled
		category = CategoryCancelled
	}
	return &baseError{
		code:     code,
		message:  fmt.Sprintf("%s request to %s failed", operation, endpoint),
		category: category,
		severity: SeverityError,
		cause:    cause,
		context: &Context{
			Operation: operation,
			Endpoint:  endpoint,
			Timestamp: time.Now(),
		},
	}
}

// DecodeError creates an error for a response body that is not valid JSON
func DecodeError(operation string, cause error) GatewayError {
	return &baseError{
		code:     CodeDecodeError,
		message:  fmt.Sprintf("%s response is not valid JSON", operation),
		category: CategoryDecode,
		severity: SeverityError,
		cause:    cause,
		context: &Context{
			Operation: operation,
			Timestamp: time.Now(),
		},
	}
}

// IsNotFound reports whether err is a tool-not-found error
func IsNotFound(err error) bool {
	return IsCategory(err, CategoryNotFound)
}

// IsInvalidParams reports whether err is a parameter validation error
func IsInvalidParams(err error) bool {
	return IsCode(err, CodeInvalidParams)
}

// IsTransport reports whether err is a network-level failure, including
// timeouts and cancellation
func IsTransport(err error) bool {
	return IsCategory(err, CategoryTransport) ||
		IsCategory(err, CategoryTimeout) ||
		IsCategory(err, CategoryCancelled)
}

// StatusCode returns the HTTP status behind an error, if it was caused by a
// non-200 gateway response
func StatusCode(err error) (int, bool) {
	if gwErr, ok := AsGatewayError(err); ok && gwErr.Category() == CategoryHTTP {
		return gwErr.Code(), true
	}
	return 0, false
}

// ResponseBody returns the response body text behind an HTTP status error
func ResponseBody(err error) (string, bool) {
	if gwErr, ok := AsGatewayError(err); ok && gwErr.Category() == CategoryHTTP {
		if body, ok := gwErr.Data().(string); ok {
			return body, true
		}
	}
	return "", false
}
