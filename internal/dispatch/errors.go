package dispatch

import (
	"fmt"

	"github.com/proxasaurus/proxasaurus/internal/pegaprox"
)

// ErrorKind classifies a failed tool call. Every failure surfaced to the
// agent carries exactly one kind so callers can distinguish "you asked for
// something that does not exist" from "the backend is down".
type ErrorKind string

const (
	// KindUnknownTool means the requested tool name is not in the registry.
	KindUnknownTool ErrorKind = "unknown_tool"
	// KindInvalidArgument means arguments failed validation before any
	// upstream call was made.
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindTransport means the upstream call itself failed; Fault carries
	// the sub-classification (connection, timeout, malformed response).
	KindTransport ErrorKind = "transport_error"
	// KindUpstream means the upstream answered with an error status.
	KindUpstream ErrorKind = "upstream_error"
	// KindProtocol means the inbound request was malformed at the MCP
	// layer, before tool dispatch.
	KindProtocol ErrorKind = "protocol_error"
)

// Error is a classified tool-call failure.
type Error struct {
	Kind    ErrorKind
	Fault   pegaprox.FaultKind // set when Kind is KindTransport
	Status  int                // set when Kind is KindUpstream
	Message string
	err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

func unknownTool(name string) *Error {
	return &Error{
		Kind:    KindUnknownTool,
		Message: fmt.Sprintf("unknown tool %q", name),
	}
}

func invalidArgument(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

func transportError(fault *pegaprox.Fault) *Error {
	var msg string
	switch fault.Kind {
	case pegaprox.FaultTimeout:
		msg = "request to PegaProx timed out: " + fault.Err.Error()
	case pegaprox.FaultMalformedResponse:
		msg = "PegaProx returned an unreadable response: " + fault.Err.Error()
	default:
		msg = "could not connect to PegaProx: " + fault.Err.Error()
	}
	return &Error{
		Kind:    KindTransport,
		Fault:   fault.Kind,
		Message: msg,
		err:     fault,
	}
}

func upstreamError(resp *pegaprox.Response) *Error {
	return &Error{
		Kind:    KindUpstream,
		Status:  resp.Status,
		Message: fmt.Sprintf("PegaProx returned %d: %s", resp.Status, resp.ErrorMessage()),
	}
}

// ProtocolError reports a malformed inbound request (arguments that are not
// an object, missing tool name). It is produced before dispatch runs.
func ProtocolError(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindProtocol,
		Message: fmt.Sprintf(format, args...),
	}
}
