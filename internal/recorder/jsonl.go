package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"sifi-bridge-go/pkg/sifibridge"
)

// envelope is the line format of the JSONL sink. Seq restarts at 1 for
// every session so envelopes stay ordered even when sessions share a file.
type envelope struct {
	SessionID  string            `json:"session_id"`
	Seq        int64             `json:"seq"`
	ReceivedAt time.Time         `json:"received_at"`
	Packet     sifibridge.Packet `json:"packet"`
}

type jsonlSink struct {
	mu        sync.Mutex
	file      *os.File
	sessionID string
	seq       int64
}

func newJSONLSink(path, sessionID string) (*jsonlSink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open jsonl sink: %w", err)
	}
	return &jsonlSink{file: file, sessionID: sessionID}, nil
}

func (s *jsonlSink) Write(pkt sifibridge.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	data, err := json.Marshal(envelope{
		SessionID:  s.sessionID,
		Seq:        s.seq,
		ReceivedAt: time.Now().UTC(),
		Packet:     pkt,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	return nil
}

func (s *jsonlSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
