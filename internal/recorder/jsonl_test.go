package recorder

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestJSONLSinkWritesEnvelopes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	sink, err := newJSONLSink(path, "01TESTSESSION")
	if err != nil {
		t.Fatalf("newJSONLSink: %v", err)
	}

	before := time.Now().Add(-time.Second)
	packets := []string{
		`{"packet_type": "ecg", "id": "b1:7a", "data": {"ecg": [1.0, 2.0]}}`,
		`{"status": "Ok"}`,
	}
	for _, line := range packets {
		if err := sink.Write(testPacket(t, line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	after := time.Now().Add(time.Second)
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	var envs []envelope
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var env envelope
		if err := json.Unmarshal(scanner.Bytes(), &env); err != nil {
			t.Fatalf("Unmarshal line %d: %v", len(envs), err)
		}
		envs = append(envs, env)
	}
	if len(envs) != 2 {
		t.Fatalf("line count = %d, want 2", len(envs))
	}

	if envs[0].SessionID != "01TESTSESSION" {
		t.Errorf("SessionID = %q", envs[0].SessionID)
	}
	if envs[0].Seq != 1 || envs[1].Seq != 2 {
		t.Errorf("Seq = %d, %d, want 1, 2", envs[0].Seq, envs[1].Seq)
	}
	if envs[0].ReceivedAt.Before(before) || envs[0].ReceivedAt.After(after) {
		t.Errorf("ReceivedAt %v not in [%v, %v]", envs[0].ReceivedAt, before, after)
	}
	if got := envs[0].Packet.StringAt("packet_type"); got != "ecg" {
		t.Errorf("Packet.packet_type = %q, want %q", got, "ecg")
	}
	if got := envs[1].Packet.StringAt("status"); got != "Ok" {
		t.Errorf("Packet.status = %q, want %q", got, "Ok")
	}
}

func TestJSONLSinkAppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.jsonl")

	for _, session := range []string{"SESSION-A", "SESSION-B"} {
		sink, err := newJSONLSink(path, session)
		if err != nil {
			t.Fatalf("newJSONLSink: %v", err)
		}
		if err := sink.Write(testPacket(t, `{"status": "Ok"}`)); err != nil {
			t.Fatalf("Write: %v", err)
		}
		sink.Close()
	}

	f, _ := os.Open(path)
	defer f.Close()
	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		count++
	}
	if count != 2 {
		t.Errorf("line count = %d, want 2", count)
	}
}

func TestJSONLSinkFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	sink, err := newJSONLSink(path, "S")
	if err != nil {
		t.Fatalf("newJSONLSink: %v", err)
	}
	sink.Write(testPacket(t, `{"status": "Ok"}`))
	sink.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
}

func TestJSONLSinkInvalidPath(t *testing.T) {
	_, err := newJSONLSink("/nonexistent/dir/session.jsonl", "S")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}
