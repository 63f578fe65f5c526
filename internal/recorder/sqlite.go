package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"sifi-bridge-go/pkg/sifibridge"
)

type sqliteSink struct {
	db        *sql.DB
	sessionID string
	seq       int64
}

func newSQLiteSink(path, sessionID string) (*sqliteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite sink: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite sink: %w", err)
	}
	return &sqliteSink{db: db, sessionID: sessionID}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS packets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		received_at TEXT NOT NULL,
		packet_type TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_packets_session ON packets(session_id);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *sqliteSink) Write(pkt sifibridge.Packet) error {
	payload, err := json.Marshal(pkt)
	if err != nil {
		return fmt.Errorf("marshal packet: %w", err)
	}
	s.seq++
	_, err = s.db.Exec(
		"INSERT INTO packets (session_id, seq, received_at, packet_type, payload) VALUES (?, ?, ?, ?, ?)",
		s.sessionID,
		s.seq,
		time.Now().UTC().Format(time.RFC3339Nano),
		pkt.StringAt("packet_type"),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert packet: %w", err)
	}
	return nil
}

func (s *sqliteSink) Close() error {
	return s.db.Close()
}
