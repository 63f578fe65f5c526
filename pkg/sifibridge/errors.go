package sifibridge

import "fmt"

// Sentinel errors for the bridge protocol layer.
var (
	ErrVersionMismatch   = fmt.Errorf("bridge version mismatch")
	ErrNotConnected      = fmt.Errorf("device not connected")
	ErrInvalidDeviceName = fmt.Errorf("invalid device name")
	ErrStreamClosed      = fmt.Errorf("bridge output stream closed")
)

// BridgeError wraps a sentinel error with operation context.
type BridgeError struct {
	Op     string // operation name (e.g., "Bridge.Connect")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *BridgeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *BridgeError) Unwrap() error { return e.Err }

// NewBridgeError creates a new BridgeError.
func NewBridgeError(op string, err error, detail string) *BridgeError {
	return &BridgeError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return sifibridge.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
