package eventlog

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewTraceID returns a 32-character hex trace id, used to correlate
// everything stemming from one reducer message. Derived from a random UUID
// with its dashes stripped, which happens to match the W3C trace-id width
// (16 bytes = 32 hex chars).
func NewTraceID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// NewSpanID returns a 16-character hex span id, identifying one logged step
// within a trace. Derived from the first 8 bytes of a random UUID (matching
// the W3C span-id width).
func NewSpanID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}
