package toolkit

import (
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
)

// Envelope is the uniform call result. Success carries an
// operation-specific payload; failure carries a stable error code. Message
// is always human-readable prose.
type Envelope struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// ok wraps a payload in a success envelope.
func ok(result any, message string) Envelope {
	return Envelope{Success: true, Result: result, Message: message}
}

// fail converts an error into a failure envelope. Every error surfaces a
// code: unexpected faults map to io_error rather than escaping.
func fail(err error) Envelope {
	return Envelope{
		Success: false,
		Error:   string(errutil.CodeOf(err)),
		Message: err.Error(),
	}
}
