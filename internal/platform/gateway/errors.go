package gateway

import "fmt"

// RequestError means the request could not be constructed or sent at all
// (bad payload, invalid URL). Nothing reached the insurer.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return fmt.Sprintf("gateway request error: %v", e.Err) }
func (e *RequestError) Unwrap() error { return e.Err }

// TransportError means no usable response was received (network failure,
// timeout). The insurer may or may not have processed the request; callers
// must not assume either.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("no response from gateway: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the insurer answered but rejected the operation,
// either with a non-2xx HTTP status or with an embedded failure statusCode.
// It carries the insurer's own code and message for support diagnosis.
type ProtocolError struct {
	HTTPStatus int
	StatusCode StatusCode
	StatusMsg  string
}

func (e *ProtocolError) Error() string {
	if e.StatusCode != "" {
		return fmt.Sprintf("gateway error %s: %s", e.StatusCode, e.StatusMsg)
	}
	return fmt.Sprintf("gateway HTTP %d: %s", e.HTTPStatus, e.StatusMsg)
}
