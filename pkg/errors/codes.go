package errors

// Client-side error codes. HTTP failures carry the status code itself, so
// these start above any valid status value.
const (
	// CodeInvalidParams indicates tool parameters that are not valid JSON
	CodeInvalidParams int = 1001

	// CodeToolNotFound indicates the named tool is not in the fetched catalog
	CodeToolNotFound int = 1002

	// CodeMissingField indicates a catalog entry without a required field
	CodeMissingField int = 1003

	// CodeTransportError indicates a network-level failure before a response
	CodeTransportError int = 1100

	// CodeConnectionTimeout indicates the request deadline elapsed
	CodeConnectionTimeout int = 1101

	// CodeCancelled indicates the caller cancelled the request context
	CodeCancelled int = 1102

	// CodeDecodeError indicates a response body that is not the expected JSON
	CodeDecodeError int = 1200

	// CodeInternalError indicates a client-side failure with no better code
	CodeInternalError int = 1300
)
