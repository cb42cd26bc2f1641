package helius

import (
	"errors"
	"fmt"
)

// ErrDeadlineExceeded is returned when the rate-limit wait budget is
// exhausted before the upstream stops returning 429.
var ErrDeadlineExceeded = errors.New("rate limit wait budget exceeded")

// UpstreamError reports a non-success HTTP status outside the expected
// set. It is fatal for the call that produced it; rate-limit responses
// never surface as an UpstreamError.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// RPCError is a JSON-RPC 2.0 error object carried in a response body.
// RPC errors are never retried.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
