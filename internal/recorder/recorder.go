// Package recorder persists bridge packets on the host side. A recording
// session fans the packets of one acquisition into a Sink selected by URI:
// csv://DIR writes one CSV per packet type, jsonl://FILE appends one JSON
// envelope per line, sqlite://FILE inserts rows into a packets table.
package recorder

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"

	"sifi-bridge-go/pkg/sifibridge"
)

// Sink receives the packets of one recording session.
type Sink interface {
	// Write persists one packet. Sinks that only handle data packets
	// silently skip packets without a packet_type.
	Write(pkt sifibridge.Packet) error
	Close() error
}

// NewSessionID returns a fresh lexicographically sortable session ID.
func NewSessionID() string {
	return ulid.Make().String()
}

// Open creates the sink a URI names. Supported schemes: csv, jsonl, sqlite.
func Open(uri, sessionID string, log *slog.Logger) (Sink, error) {
	scheme, path, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("recorder URI %q has no scheme, want scheme://path", uri)
	}
	switch scheme {
	case "csv":
		return newCSVSink(path, sessionID, log)
	case "jsonl":
		return newJSONLSink(path, sessionID)
	case "sqlite":
		return newSQLiteSink(path, sessionID)
	default:
		return nil, fmt.Errorf("unsupported recorder scheme %q", scheme)
	}
}
