package recorder

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return records
}

func TestCSVSinkExplodesChannelArrays(t *testing.T) {
	dir := t.TempDir()
	sink, err := newCSVSink(dir, "SESSION", quietLog())
	if err != nil {
		t.Fatalf("newCSVSink: %v", err)
	}

	pkt := testPacket(t, `{"packet_type": "ecg", "id": "b1:7a", "data": {"ecg": [1.5, 2.5, 3.5], "sample_rate": 500}}`)
	if err := sink.Write(pkt); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records := readCSV(t, filepath.Join(dir, "SESSION_ecg.csv"))
	want := [][]string{
		{"ecg", "sample_rate"},
		{"1.5", "500"},
		{"2.5", "500"},
		{"3.5", "500"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestCSVSinkAppendsWithoutRepeatingHeader(t *testing.T) {
	dir := t.TempDir()
	sink, err := newCSVSink(dir, "SESSION", quietLog())
	if err != nil {
		t.Fatalf("newCSVSink: %v", err)
	}

	sink.Write(testPacket(t, `{"packet_type": "eda", "data": {"eda": [10.0, 11.0]}}`))
	sink.Write(testPacket(t, `{"packet_type": "eda", "data": {"eda": [12.0]}}`))
	sink.Close()

	records := readCSV(t, filepath.Join(dir, "SESSION_eda.csv"))
	want := [][]string{{"eda"}, {"10"}, {"11"}, {"12"}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestCSVSinkSplitsFilesByPacketType(t *testing.T) {
	dir := t.TempDir()
	sink, err := newCSVSink(dir, "SESSION", quietLog())
	if err != nil {
		t.Fatalf("newCSVSink: %v", err)
	}

	sink.Write(testPacket(t, `{"packet_type": "emg", "data": {"emg": [0.1]}}`))
	sink.Write(testPacket(t, `{"packet_type": "imu", "data": {"ax": [1.0], "ay": [2.0]}}`))
	sink.Close()

	for _, name := range []string{"SESSION_emg.csv", "SESSION_imu.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected file %s: %v", name, err)
		}
	}
}

func TestCSVSinkSkipsStatusPackets(t *testing.T) {
	dir := t.TempDir()
	sink, err := newCSVSink(dir, "SESSION", quietLog())
	if err != nil {
		t.Fatalf("newCSVSink: %v", err)
	}

	if err := sink.Write(testPacket(t, `{"connected": true}`)); err != nil {
		t.Fatalf("Write status packet: %v", err)
	}
	sink.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("status packet should produce no files, got %d", len(entries))
	}
}

func TestCSVSinkPadsMissingColumns(t *testing.T) {
	dir := t.TempDir()
	sink, err := newCSVSink(dir, "SESSION", quietLog())
	if err != nil {
		t.Fatalf("newCSVSink: %v", err)
	}

	// Header comes from the first packet; later packets missing a column
	// pad it with empty cells, and short arrays pad their own tail.
	sink.Write(testPacket(t, `{"packet_type": "ppg", "data": {"b": [1.0], "g": [2.0]}}`))
	sink.Write(testPacket(t, `{"packet_type": "ppg", "data": {"b": [3.0, 4.0]}}`))
	sink.Close()

	records := readCSV(t, filepath.Join(dir, "SESSION_ppg.csv"))
	want := [][]string{
		{"b", "g"},
		{"1", "2"},
		{"3", ""},
		{"4", ""},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestCSVSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	sink, err := newCSVSink(dir, "SESSION", quietLog())
	if err != nil {
		t.Fatalf("newCSVSink: %v", err)
	}
	sink.Close()

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}
