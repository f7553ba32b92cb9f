package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMalformed means the frame was not an envelope at all.
	ErrMalformed = errors.New("malformed envelope")
	// ErrUnknownOp means the envelope named an op no handler exists for.
	ErrUnknownOp = errors.New("unknown op")
	// ErrInvalidPayload means a known op carried data of the wrong shape.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Envelope is the uniform wrapper for all wire traffic.
type Envelope struct {
	Op   string          `json:"op"`
	Seq  int64           `json:"seq"`
	Ts   int64           `json:"ts"`
	Data json.RawMessage `json:"data,omitempty"`
}

// outbound mirrors Envelope but lets Data be any value so replies are
// encoded in a single pass.
type outbound struct {
	Op   string `json:"op"`
	Seq  int64  `json:"seq"`
	Ts   int64  `json:"ts"`
	Data any    `json:"data,omitempty"`
}

// Encode marshals a frame. seq is the request being answered, or 0 for a push.
func Encode(op string, seq int64, at time.Time, data any) ([]byte, error) {
	b, err := json.Marshal(outbound{Op: op, Seq: seq, Ts: at.UnixMilli(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s frame: %w", op, err)
	}
	return b, nil
}

// Decode parses a client frame and its payload. The returned envelope is
// populated as far as parsing got, so callers can echo Seq on payload errors.
func Decode(raw []byte) (Envelope, Request, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Op == "" {
		return env, nil, fmt.Errorf("%w: op is required", ErrMalformed)
	}
	if env.Seq < 0 {
		return env, nil, fmt.Errorf("%w: seq must not be negative", ErrMalformed)
	}

	factory, ok := requestFactories[env.Op]
	if !ok {
		return env, nil, fmt.Errorf("%w: %q", ErrUnknownOp, env.Op)
	}

	req := factory()
	data := env.Data
	if len(data) == 0 || string(data) == "null" {
		data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(data, req); err != nil {
		return env, nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, env.Op, err)
	}
	if err := req.Validate(); err != nil {
		return env, nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, env.Op, err)
	}
	return env, req, nil
}

// IsProtocolError reports whether err came from a frame that could not be
// routed to any op handler.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, ErrUnknownOp)
}
