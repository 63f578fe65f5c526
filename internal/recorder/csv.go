package recorder

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"sifi-bridge-go/pkg/sifibridge"
)

// csvSink writes one CSV file per packet type under a directory. The header
// is fixed by the first packet of each type and channel arrays are exploded
// into one row per sample, with scalar fields repeated on every row.
type csvSink struct {
	dir       string
	sessionID string
	log       *slog.Logger
	files     map[string]*csvFile
}

type csvFile struct {
	file   *os.File
	w      *csv.Writer
	header []string
}

func newCSVSink(dir, sessionID string, log *slog.Logger) (*csvSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create csv sink directory: %w", err)
	}
	return &csvSink{
		dir:       dir,
		sessionID: sessionID,
		log:       log,
		files:     make(map[string]*csvFile),
	}, nil
}

func (s *csvSink) Write(pkt sifibridge.Packet) error {
	packetType := pkt.StringAt("packet_type")
	data, ok := pkt.At("data")
	if packetType == "" || !ok {
		s.log.Debug("csv sink skipping non-data packet")
		return nil
	}
	fields, ok := data.(map[string]any)
	if !ok {
		s.log.Debug("csv sink skipping packet with non-object data", "packet_type", packetType)
		return nil
	}

	cf, err := s.fileFor(packetType, fields)
	if err != nil {
		return err
	}
	for _, row := range explode(cf.header, fields) {
		if err := cf.w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cf.w.Flush()
	if err := cf.w.Error(); err != nil {
		return fmt.Errorf("flush csv rows: %w", err)
	}
	return nil
}

func (s *csvSink) fileFor(packetType string, fields map[string]any) (*csvFile, error) {
	if cf, ok := s.files[packetType]; ok {
		return cf, nil
	}

	path := filepath.Join(s.dir, s.sessionID+"_"+packetType+".csv")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open csv sink file: %w", err)
	}

	header := make([]string, 0, len(fields))
	for key := range fields {
		header = append(header, key)
	}
	sort.Strings(header)

	cf := &csvFile{file: file, w: csv.NewWriter(file), header: header}
	if err := cf.w.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	s.files[packetType] = cf
	s.log.Info("csv sink opened file", "path", path, "columns", len(header))
	return cf, nil
}

// explode turns one packet's data object into CSV rows. The row count is
// the longest array among the columns; scalars repeat and short arrays pad
// with empty cells.
func explode(header []string, fields map[string]any) [][]string {
	rows := 1
	for _, key := range header {
		if arr, ok := fields[key].([]any); ok && len(arr) > rows {
			rows = len(arr)
		}
	}

	out := make([][]string, rows)
	for i := range out {
		row := make([]string, len(header))
		for j, key := range header {
			row[j] = cell(fields[key], i)
		}
		out[i] = row
	}
	return out
}

func cell(value any, i int) string {
	if arr, ok := value.([]any); ok {
		if i >= len(arr) {
			return ""
		}
		value = arr[i]
	}
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (s *csvSink) Close() error {
	var firstErr error
	for _, cf := range s.files {
		cf.w.Flush()
		if err := cf.w.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := cf.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
