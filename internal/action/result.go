package action

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Status is the envelope's "request" field: "0" on success, "1" on failure.
type Status string

const (
	StatusOK     Status = "0"
	StatusFailed Status = "1"
)

// Fixed messages shared by several handlers.
const (
	MsgNoAction           = "no action specified"
	MsgPermissionDenied   = "permission denied"
	MsgInvalidCredentials = "invalid credentials"
	MsgInvalidMovieID     = "invalid movie id"
	MsgInvalidTheaterID   = "invalid theater id"
	MsgInvalidQuantity    = "invalid quantity"
	MsgInvalidPrice       = "invalid price"
	MsgInvalidRating      = "invalid rating"
	MsgInvalidTargetEmail = "invalid target email"
	MsgNoPayment          = "no payment details on file"
	MsgTheaterNotFound    = "theater not found"
	MsgNotAdmin           = "user is not an admin"
	MsgBrowserRefused     = "browser clients are not supported, use the app"
)

// Result is the structured outcome of an action.  It is serialized once,
// at the HTTP boundary, as {"request": ..., "message": ..., <payload>}.
type Result struct {
	Status  Status
	Message string
	Payload map[string]any
}

// OK builds a success result.
func OK(message string) Result {
	return Result{Status: StatusOK, Message: message}
}

// Fail builds a failure result.
func Fail(message string) Result {
	return Result{Status: StatusFailed, Message: message}
}

// InvalidAction is returned for unknown actions and for handlers that fault.
func InvalidAction(name string) Result {
	return Fail("invalid action: " + name)
}

// With returns a copy of r carrying an extra payload field.
func (r Result) With(key string, value any) Result {
	p := make(map[string]any, len(r.Payload)+1)
	for k, v := range r.Payload {
		p[k] = v
	}
	p[key] = value
	r.Payload = p
	return r
}

// Failed reports whether r is a failure.
func (r Result) Failed() bool {
	return r.Status != StatusOK
}

// MarshalJSON flattens the payload next to the two envelope fields.
// Payload keys cannot shadow "request" or "message".
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Payload)+2)
	for k, v := range r.Payload {
		out[k] = v
	}
	out["request"] = string(r.Status)
	out["message"] = r.Message
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.  Numbers are kept as
// json.Number so ids survive a round trip through the cache.
func (r *Result) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	status, ok := raw["request"].(string)
	if !ok {
		return fmt.Errorf("result: missing request field")
	}
	msg, _ := raw["message"].(string)
	delete(raw, "request")
	delete(raw, "message")

	r.Status = Status(status)
	r.Message = msg
	r.Payload = nil
	if len(raw) > 0 {
		r.Payload = raw
	}
	return nil
}
